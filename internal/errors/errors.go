package errors

import (
	"errors"
	"strings"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/i18n"
)

// Exit codes for snowflake-install
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitConfigError      = 2
	ExitStateError       = 3
	ExitKeyfileFailed    = 4
	ExitCryptsetupFailed = 5
	ExitSwapFailed       = 6
	ExitGenerateFailed   = 7
	ExitWriteFailed      = 8
	ExitInstallFailed    = 9
	ExitPlaceholderError = 10
)

// InstallError is the failure reported back to the host installer.
type InstallError struct {
	Code    int
	Title   string
	Details string
	Cause   error
}

func (e *InstallError) Error() string {
	msg := e.Title
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InstallError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *InstallError) ExitCode() int {
	return e.Code
}

// New creates a new InstallError
func New(code int, title, details string) *InstallError {
	return &InstallError{
		Code:    code,
		Title:   title,
		Details: details,
	}
}

// Wrap wraps an existing error with an InstallError
func Wrap(code int, title, details string, cause error) *InstallError {
	return &InstallError{
		Code:    code,
		Title:   title,
		Details: details,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigError returns an error for an unusable installer configuration
func ConfigError(details string, cause error) *InstallError {
	return Wrap(ExitConfigError, i18n.Sprintf("Invalid installer configuration"), details, cause)
}

// StateError returns an error for missing or malformed host state
func StateError(details string, cause error) *InstallError {
	return Wrap(ExitStateError, i18n.Sprintf("Invalid installer state"), details, cause)
}

// KeyfileFailed returns an error for a failed keyfile creation
func KeyfileFailed(cause error) *InstallError {
	return Wrap(ExitKeyfileFailed,
		i18n.Sprintf("Failed to create /crypto_keyfile.bin"),
		i18n.Sprintf("Check if you have enough free space on your partition."),
		cause)
}

// CryptsetupFailed returns an error for a failed LUKS key enrollment
func CryptsetupFailed(mapperName string, cause error) *InstallError {
	return Wrap(ExitCryptsetupFailed,
		i18n.Sprintf("cryptsetup failed"),
		i18n.Sprintf("Failed to add %s to /crypto_keyfile.bin", mapperName),
		cause)
}

// SwapFailed returns an error for a failed swap activation
func SwapFailed(device string, cause error) *InstallError {
	return Wrap(ExitSwapFailed,
		i18n.Sprintf("swapon failed to activate swap"),
		i18n.Sprintf("failed while activating: %s", device),
		cause)
}

// GenerateConfigFailed returns an error for a failed nixos-generate-config run.
// The details carry the tool's output when there is any.
func GenerateConfigFailed(output string, cause error) *InstallError {
	return Wrap(ExitGenerateFailed, i18n.Sprintf("nixos-generate-config failed"), detailsOrCause(output, cause), cause)
}

// WriteFailed returns an error for a generated file that could not be written
func WriteFailed(path string, cause error) *InstallError {
	return Wrap(ExitWriteFailed,
		i18n.Sprintf("Failed to write configuration"),
		i18n.Sprintf("Failed to write %s", path),
		cause)
}

// InstallFailed returns an error for a failed nixos-install run.
// The details carry the captured output, or the start error if nothing was
// captured; only when neither exists does a generic message stand in.
func InstallFailed(output string, cause error) *InstallError {
	details := detailsOrCause(output, cause)
	if details == "" {
		details = i18n.Sprintf("Installation failed to complete")
	}
	return Wrap(ExitInstallFailed, i18n.Sprintf("nixos-install failed"), details, cause)
}

// PlaceholderError returns an error for inconsistent template placeholders
func PlaceholderError(problems []string) *InstallError {
	return New(ExitPlaceholderError,
		i18n.Sprintf("Configuration placeholders are inconsistent"),
		strings.Join(problems, "\n"))
}

func detailsOrCause(output string, cause error) string {
	if out := strings.TrimSpace(output); out != "" {
		return out
	}
	if cause != nil {
		return cause.Error()
	}
	return ""
}

// Message returns the (title, details) pair for any error.
// Errors that are not InstallErrors get a generic title.
func Message(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.Title, installErr.Details
	}
	return i18n.Sprintf("Installation failed to complete"), err.Error()
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
