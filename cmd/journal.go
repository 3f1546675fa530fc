package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/journal"
)

var journalFailures bool

var journalCmd = &cobra.Command{
	Use:   "journal [path]",
	Short: "Show the run journal",
	Long: `Print the events recorded in the run journal. Without a path the
journal key of the configuration is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().BoolVar(&journalFailures, "failures", false, "Show only failed runs")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	path := app.Default.Config.Journal
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no journal configured; pass a path or set journal in %s", configPath)
	}

	events, err := journal.Events(path)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		logInfo("Journal %s is empty", path)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if journalFailures && e.Type != journal.EventFailure {
			continue
		}
		when := e.Timestamp.Format("2006-01-02 15:04:05")
		switch e.Type {
		case journal.EventStatus:
			fmt.Fprintf(out, "%s  %-7s %3.0f%% %s\n", when, e.Type, e.Progress*100, e.Message)
		case journal.EventFailure:
			fmt.Fprintf(out, "%s  %-7s %s (exit %d)\n", when, e.Type, e.Message, e.Code)
			for _, line := range strings.Split(e.Details, "\n") {
				if line != "" {
					fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", len(when)+8), line)
				}
			}
		default:
			fmt.Fprintf(out, "%s  %-7s %s\n", when, e.Type, e.Message)
		}
	}
	return nil
}
