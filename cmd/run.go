package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/i18n"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/installer"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/journal"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/tui"
)

var runTUI bool

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var runCmd = &cobra.Command{
	Use:   "run <state-file>",
	Short: "Configure and install NixOS on the target root",
	Long: `Run the installation step for the host state in <state-file>.

The state file is the installer's global storage dumped as JSON, or YAML
when it ends in .yaml or .yml. Every command is checked; the first failure
stops the run and is reported as a title and details.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show a progress view (needs a terminal)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	st, err := loadState(args[0])
	if err != nil {
		return err
	}

	reporters := installer.MultiReporter{}
	if path := app.Default.Config.Journal; path != "" {
		j, err := journal.Open(path)
		if err != nil {
			// Run without a journal rather than not at all
			logging.Warn("journal disabled", "path", path, "error", err)
		} else {
			defer j.Close()
			reporters = append(reporters, j)
		}
	}

	ctx := cmd.Context()

	if runTUI && !isTerminal() {
		logWarning("stdout is not a terminal, showing plain progress")
		runTUI = false
	}

	if runTUI {
		restore := logging.Suspend()
		err := tui.Run(ctx, i18n.Sprintf("Installing SnowflakeOS."), func(ctx context.Context, r installer.Reporter) error {
			return install(ctx, st, append(reporters, r))
		})
		restore()
		if err != nil {
			return &shownError{err: err}
		}
		logSuccess("Installation complete")
		return nil
	}

	if err := install(ctx, st, append(reporters, installer.LogReporter{})); err != nil {
		return err
	}
	logSuccess("Installation complete")
	return nil
}

func install(ctx context.Context, st *state.State, reporter installer.Reporter) error {
	inst, err := app.Default.Installer(reporter)
	if err != nil {
		return err
	}
	res, err := inst.Run(ctx, st)
	if err != nil {
		return err
	}
	logging.Info("installed", "hostname", res.Hostname, "stateVersion", res.StateVersion, "flake", res.Paths.FlakeRef(res.Hostname))
	return nil
}
