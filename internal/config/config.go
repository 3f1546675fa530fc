package config

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

const (
	DefaultConfigPath           = "/etc/snowflake-install/config.toml"
	DefaultHostname             = "snowflakeos"
	DefaultElevate              = "pkexec"
	DefaultFallbackStateVersion = "23.05"
	DefaultKbdModelMap          = "/run/current-system/sw/share/systemd/kbd-model-map"
	DefaultNixpkgsURL           = "github:NixOS/nixpkgs/nixos-unstable"
	DefaultSnowflakeURL         = "github:snowflakelinux/snowflake-modules"
	DefaultSystem               = "x86_64-linux"
)

// hostnameRegex validates hostnames: a single RFC 1123 label, which is also
// a valid bare Nix attribute name for nixosConfigurations.<host>.
var hostnameRegex = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// stateVersionRegex matches NixOS release numbers such as "23.05".
var stateVersionRegex = regexp.MustCompile(`^[0-9]{2}\.[0-9]{2}$`)

// groupRegex matches Unix group names.
var groupRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// packageRegex matches attribute paths under pkgs, e.g. "firefox" or "gnome.gnome-tweaks".
var packageRegex = regexp.MustCompile(`^[A-Za-z0-9_+-]+(\.[A-Za-z0-9_+-]+)*$`)

// ValidateHostname checks if a hostname can be used for the installed system.
func ValidateHostname(name string) error {
	if name == "" {
		return fmt.Errorf("hostname cannot be empty")
	}

	if !hostnameRegex.MatchString(name) {
		return fmt.Errorf("invalid hostname %q: must contain only letters, digits, and hyphens, must not start or end with a hyphen, and be at most 63 characters", name)
	}

	return nil
}

// IsStateVersion reports whether v looks like a NixOS release such as "23.05".
func IsStateVersion(v string) bool {
	return stateVersionRegex.MatchString(v)
}

// Config represents the installer configuration from config.toml
type Config struct {
	Elevate              string       `toml:"elevate"`                // Prefix for privileged commands, e.g. "pkexec" or "sudo -n"
	DefaultHostname      string       `toml:"default_hostname"`       // Used when the host state has no hostname
	StateVersion         string       `toml:"state_version"`          // Empty: ask nixos-version
	FallbackStateVersion string       `toml:"fallback_state_version"` // Used when nixos-version gives nothing usable
	KbdModelMap          string       `toml:"kbd_model_map"`
	StrictPlaceholders   bool         `toml:"strict_placeholders"`
	Journal              string       `toml:"journal"`  // JSONL run journal, empty disables
	Language             string       `toml:"language"` // Message language, empty: $LC_ALL / $LANG
	Flake                FlakeConfig  `toml:"flake"`
	System               SystemConfig `toml:"system"`
}

// FlakeConfig holds the inputs of the generated flake.nix.
type FlakeConfig struct {
	Nixpkgs   string `toml:"nixpkgs"`
	Snowflake string `toml:"snowflake"`
	System    string `toml:"system"`
}

// SystemConfig holds the distribution choices baked into configuration.nix
// and snowflake.nix.
type SystemConfig struct {
	Packages    []string `toml:"packages"`
	Groups      []string `toml:"groups"`
	AllowUnfree bool     `toml:"allow_unfree"`
	GNOME       bool     `toml:"gnome"`
	OSInfo      bool     `toml:"os_info"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Elevate:              DefaultElevate,
		DefaultHostname:      DefaultHostname,
		FallbackStateVersion: DefaultFallbackStateVersion,
		KbdModelMap:          DefaultKbdModelMap,
		Flake: FlakeConfig{
			Nixpkgs:   DefaultNixpkgsURL,
			Snowflake: DefaultSnowflakeURL,
			System:    DefaultSystem,
		},
		System: SystemConfig{
			Packages:    []string{"firefox"},
			Groups:      []string{"networkmanager", "wheel"},
			AllowUnfree: true,
			GNOME:       true,
			OSInfo:      true,
		},
	}
}

// ElevateCommand returns the privilege prefix split into words.
// An empty prefix runs privileged commands directly.
func (c *Config) ElevateCommand() ([]string, error) {
	words, err := shellquote.Split(c.Elevate)
	if err != nil {
		return nil, fmt.Errorf("invalid elevate command %q: %w", c.Elevate, err)
	}
	return words, nil
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if _, err := c.ElevateCommand(); err != nil {
		return err
	}

	if err := ValidateHostname(c.DefaultHostname); err != nil {
		return fmt.Errorf("default_hostname: %w", err)
	}

	if c.StateVersion != "" && !stateVersionRegex.MatchString(c.StateVersion) {
		return fmt.Errorf("invalid state_version %q: must look like 23.05", c.StateVersion)
	}
	if !stateVersionRegex.MatchString(c.FallbackStateVersion) {
		return fmt.Errorf("invalid fallback_state_version %q: must look like 23.05", c.FallbackStateVersion)
	}

	if c.KbdModelMap == "" {
		return fmt.Errorf("kbd_model_map is required")
	}

	if err := c.Flake.Validate(); err != nil {
		return fmt.Errorf("flake: %w", err)
	}
	if err := c.System.Validate(); err != nil {
		return fmt.Errorf("system: %w", err)
	}

	return nil
}

// Validate checks that the FlakeConfig is valid.
func (f *FlakeConfig) Validate() error {
	if f.Nixpkgs == "" {
		return fmt.Errorf("nixpkgs is required")
	}
	if f.Snowflake == "" {
		return fmt.Errorf("snowflake is required")
	}
	if f.System == "" {
		return fmt.Errorf("system is required")
	}
	return nil
}

// Validate checks that the SystemConfig is valid.
func (s *SystemConfig) Validate() error {
	for _, g := range s.Groups {
		if !groupRegex.MatchString(g) {
			return fmt.Errorf("invalid group name %q", g)
		}
	}
	for _, p := range s.Packages {
		if !packageRegex.MatchString(p) {
			return fmt.Errorf("invalid package attribute %q", p)
		}
	}
	return nil
}

// Load reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func Load(fsys system.FileSystem, path string) (*Config, error) {
	cfg := Default()

	if !fsys.Exists(path) {
		logging.Debug("no config file, using defaults", "path", path)
		return cfg, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logging.Warn("unknown config key", "key", key.String(), "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
