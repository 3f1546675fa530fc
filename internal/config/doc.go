// Package config provides the installer configuration for snowflake-install.
//
// # Configuration File
//
// The configuration is read from /etc/snowflake-install/config.toml. Every
// key is optional; a missing file means the built-in defaults:
//
//	elevate                = "pkexec"
//	default_hostname       = "snowflakeos"
//	state_version          = ""        # ask nixos-version
//	fallback_state_version = "23.05"
//	kbd_model_map          = "/run/current-system/sw/share/systemd/kbd-model-map"
//	strict_placeholders    = false
//	journal                = ""        # e.g. "/var/log/snowflake-install.jsonl"
//	language               = ""        # $LC_ALL, then $LANG
//
//	[flake]
//	nixpkgs   = "github:NixOS/nixpkgs/nixos-unstable"
//	snowflake = "github:snowflakelinux/snowflake-modules"
//	system    = "x86_64-linux"
//
//	[system]
//	packages     = ["firefox"]
//	groups       = ["networkmanager", "wheel"]
//	allow_unfree = true
//	gnome        = true
//	os_info      = true
//
// Unknown keys are logged as warnings rather than rejected, so a newer
// config file still works with an older binary.
//
// # Privileged Commands
//
// The elevate prefix is split with shell quoting rules and prepended to the
// commands that need root in the live session (loadkeys,
// nixos-generate-config, nixos-install). Set it to "" when the installer
// already runs as root.
package config
