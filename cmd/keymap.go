package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/keymap"
)

var keymapCmd = &cobra.Command{
	Use:   "keymap <layout> [variant]",
	Short: "Resolve the console keymap for an X11 layout",
	Long: `Look up the console keymap a run would choose for an X11 layout and
optional variant in the kbd-model-map table.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runKeymap,
}

func init() {
	rootCmd.AddCommand(keymapCmd)
}

func runKeymap(cmd *cobra.Command, args []string) error {
	cfg := app.Default.Config
	table, err := keymap.Load(app.Default.FS, cfg.KbdModelMap)
	if err != nil {
		return errors.ConfigError(err.Error(), err)
	}

	var variant *string
	if len(args) == 2 {
		variant = &args[1]
	}

	console := table.Resolve(args[0], variant)
	if console == "" {
		return errors.New(errors.ExitGeneralError,
			fmt.Sprintf("No console keymap for layout %q", args[0]),
			fmt.Sprintf("%s has no row for this layout", cfg.KbdModelMap))
	}

	fmt.Fprintln(cmd.OutOrStdout(), console)
	return nil
}
