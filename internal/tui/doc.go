// Package tui provides the terminal progress view for snowflake-install.
//
// The view is a Bubble Tea program fed by a Reporter, so the installer
// reports to it the same way it reports to the log:
//
//	err := tui.Run(ctx, "Installing SnowflakeOS", func(ctx context.Context, r installer.Reporter) error {
//	    inst, err := app.Default.Installer(r)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = inst.Run(ctx, st)
//	    return err
//	})
//
// # Layout
//
//   - Title
//   - Spinner and current status, replaced by ✓ or ✗ when the run ends
//   - Progress bar with percentage
//   - Tail of the nixos-install output
//   - Warnings, then the failure title and details
//
// ctrl+c cancels the job's context; the view stays until the job returns
// so the failure it caused is shown.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - progress, spinner and viewport
//   - github.com/charmbracelet/lipgloss - Styling
package tui
