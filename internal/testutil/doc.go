// Package testutil provides test fixtures and utilities.
//
// This package contains embedded installer state fixtures and helpers that
// wire the installer to mock commands and files.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/efi_demo.json     unencrypted EFI machine named demo
//	fixtures/bios_luks.json    BIOS, encrypted root/home/swap, every key set
//	fixtures/efi_luks.yaml     EFI, encrypted root, plain swap
//	fixtures/kbd-model-map     a short keymap table
//
// # Loading Fixtures
//
//	st, err := testutil.EFIDemoState()
//	st, err := testutil.LoadStateFixture("efi_luks.yaml")
//	data, err := testutil.LoadFixture("kbd-model-map")
//
// # Test Environment
//
// NewTestEnv installs an app.Default backed by a MockExecutor and MockFS:
//
//	func TestInstall(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//	    defer env.Cleanup()
//
//	    st := env.State("efi_demo.json")
//	    // run the installer against env.App, then inspect env.Executor
//	    cfg, _ := env.Written(env.TargetPath("etc/nixos/configuration.nix"))
//	}
package testutil
