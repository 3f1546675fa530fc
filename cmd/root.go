package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/i18n"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "snowflake-install",
	Short: "SnowflakeOS NixOS installation step",
	Long: `snowflake-install turns the choices collected by the installer into a
NixOS system on the target root.

It generates configuration.nix, flake.nix and snowflake.nix, enrolls a LUKS
keyfile when partitions are encrypted, activates swap, lets
nixos-generate-config write the hardware configuration and runs
nixos-install on the generated flake.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)

		if err := app.Default.LoadConfig(configPath); err != nil {
			return errors.ConfigError(err.Error(), err)
		}
		tag := i18n.SetLanguage(app.Default.Config.Language)
		logging.Debug("configuration loaded", "path", configPath, "language", tag.String())
		return nil
	},
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var shown *shownError
	if err != nil && !errors.As(err, &shown) {
		reportError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Installer configuration file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)

// reportError prints the title and details of err.
func reportError(err error) {
	title, details := errors.Message(err)
	logError("%s", title)
	if details != "" {
		fmt.Fprintln(logging.Stderr, details)
	}
}

// shownError marks a failure the progress view already displayed.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }
