// Package errors provides typed errors with exit codes for snowflake-install.
//
// # Error Types
//
// InstallError carries the localized (title, details) pair the host installer
// shows when the step fails, plus an exit code for the CLI:
//
//	type InstallError struct {
//	    Code    int    // Exit code
//	    Title   string // Short failure title
//	    Details string // Human-readable details
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess           = 0  // Success
//	ExitGeneralError      = 1  // General/unknown errors
//	ExitConfigError       = 2  // Installer configuration error
//	ExitStateError        = 3  // Host state missing or invalid
//	ExitKeyfileFailed     = 4  // Keyfile creation failed
//	ExitCryptsetupFailed  = 5  // LUKS key enrollment failed
//	ExitSwapFailed        = 6  // Swap activation failed
//	ExitGenerateFailed    = 7  // nixos-generate-config failed
//	ExitWriteFailed       = 8  // Writing generated files failed
//	ExitInstallFailed     = 9  // nixos-install failed
//	ExitPlaceholderError  = 10 // Strict placeholder check failed
//
// # Error Constructors
//
// Use the provided constructors; they translate the title and details
// through the i18n package:
//
//	errors.KeyfileFailed(err)
//	errors.CryptsetupFailed("luks-root", err)
//	errors.InstallFailed(output, err)
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
