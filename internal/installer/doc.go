// Package installer runs the SnowflakeOS configuration and install step.
//
// Run takes the host state and goes through the stages in order:
//
//  1. pick the boot loader fragment
//  2. with LUKS: create <root>/crypto_keyfile.bin and enroll it with
//     cryptsetup luksAddKey in every partition the initrd unlocks
//  3. assemble network, time, locale, desktop, keyboard, user and package
//     sections; probe the console keymap with loadkeys
//  4. read system.stateVersion from nixos-version
//  5. check and substitute placeholders
//  6. activate the first swap partition
//  7. nixos-generate-config --root <root>
//  8. copy configuration.nix, flake.nix and snowflake.nix into
//     <root>/etc/nixos and make them world readable
//  9. nixos-install --flake <root>/etc/nixos#<hostname>
//
// Progress goes to a Reporter (0.1, 0.15, 0.18, 0.2, 0.25, 0.3, then 1 on
// success). The first failing command ends the run with an
// *errors.InstallError whose Title and Details are meant for the user.
//
// Commands that need root in the live session (loadkeys,
// nixos-generate-config, nixos-install) carry the configured elevate
// prefix. The rest run as the host runs the installer.
package installer
