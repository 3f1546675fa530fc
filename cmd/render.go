package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/installer"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

var (
	renderCommands     bool
	renderOutput       string
	renderStateVersion string
)

var renderCmd = &cobra.Command{
	Use:   "render <state-file>",
	Short: "Show what a run would generate and execute",
	Long: `Perform a run for <state-file> without executing anything.

Commands are recorded instead of run and report success, so the generated
configuration.nix, flake.nix and snowflake.nix can be inspected before an
installation. nixos-version is not consulted; the state version comes from
--state-version or the configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderCommands, "commands", false, "Print the command plan instead of the files")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the files to this directory")
	renderCmd.Flags().StringVar(&renderStateVersion, "state-version", "", "State version to render, e.g. 23.05")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	st, err := loadState(args[0])
	if err != nil {
		return err
	}

	cfg := *app.Default.Config
	if renderStateVersion != "" {
		cfg.StateVersion = renderStateVersion
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--state-version: %w", err)
		}
	}

	dry := system.NewDryRunExecutor()
	dryApp := app.New(
		app.WithConfig(&cfg),
		app.WithExecutor(dry),
		app.WithFileSystem(app.Default.FS),
	)

	rec := &installer.RecordingReporter{}
	inst, err := dryApp.Installer(rec)
	if err != nil {
		return err
	}
	res, err := inst.Run(cmd.Context(), st)
	if err != nil {
		return err
	}
	for _, w := range rec.Warnings {
		logWarning("%s", w)
	}

	out := cmd.OutOrStdout()

	if renderCommands {
		for _, line := range dry.Plan() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	files := []struct {
		name    string
		content string
	}{
		{filepath.Base(res.Paths.Configuration), res.Files.Configuration},
		{filepath.Base(res.Paths.Flake), res.Files.Flake},
		{filepath.Base(res.Paths.Module), res.Files.Module},
	}

	if renderOutput != "" {
		fsys := app.Default.FS
		if err := fsys.MkdirAll(renderOutput, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", renderOutput, err)
		}
		for _, f := range files {
			path := filepath.Join(renderOutput, f.name)
			if err := fsys.WriteFile(path, []byte(f.content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		logSuccess("Wrote %d files to %s", len(files), renderOutput)
		return nil
	}

	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "# %s\n", f.name)
		fmt.Fprint(out, f.content)
	}
	return nil
}
