// Package logging provides logging utilities for snowflake-install.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running command", "cmd", name, "args", args)
//	logging.Warn("variable is not used", "name", key)
//
// Suspend silences the structured log while the progress view owns the
// terminal:
//
//	restore := logging.Suspend()
//	defer restore()
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Reading state from %s...", path)
//	logging.UserSuccess("Installed %s", hostname)
//	logging.UserWarning("Falling back to plain output")
//	logging.UserError("%s: %s", title, details)
//
// Output destinations (the Stdout and Stderr variables):
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
