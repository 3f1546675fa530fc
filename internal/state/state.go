package state

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

// Firmware and filesystem names used by the partitioning step.
const (
	FirmwareEFI = "efi"
	FSLuks      = "luks"
	FSSwap      = "linuxswap"
	NoBootDev   = "nodev"
)

// usernameRegex matches names usable as a bare users.users.<name> attribute.
var usernameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// mapperRegex matches device-mapper names as produced by the partitioning step.
var mapperRegex = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)

// State is the host installer's global storage at the time the step runs.
// Empty strings mean "not set".
type State struct {
	RootMountPoint string      `json:"rootMountPoint" yaml:"rootMountPoint"`
	FirmwareType   string      `json:"firmwareType" yaml:"firmwareType"`
	BootLoader     *BootLoader `json:"bootLoader,omitempty" yaml:"bootLoader,omitempty"`
	Partitions     []Partition `json:"partitions" yaml:"partitions"`

	Hostname       string            `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	LocationRegion string            `json:"locationRegion,omitempty" yaml:"locationRegion,omitempty"`
	LocationZone   string            `json:"locationZone,omitempty" yaml:"locationZone,omitempty"`
	LocaleConf     map[string]string `json:"localeConf,omitempty" yaml:"localeConf,omitempty"`

	KeyboardLayout         string  `json:"keyboardLayout,omitempty" yaml:"keyboardLayout,omitempty"`
	KeyboardVariant        *string `json:"keyboardVariant,omitempty" yaml:"keyboardVariant,omitempty"` // "" is a real variant (the layout default)
	KeyboardVConsoleKeymap string  `json:"keyboardVConsoleKeymap,omitempty" yaml:"keyboardVConsoleKeymap,omitempty"`

	Username      string `json:"username,omitempty" yaml:"username,omitempty"`
	Fullname      string `json:"fullname,omitempty" yaml:"fullname,omitempty"`
	AutoLoginUser string `json:"autoLoginUser,omitempty" yaml:"autoLoginUser,omitempty"`
}

// BootLoader is the boot loader choice of the partitioning step.
type BootLoader struct {
	InstallPath string `json:"installPath" yaml:"installPath"`
}

// Partition is one entry of the partitioning step's plan.
type Partition struct {
	Device         string `json:"device" yaml:"device"`
	MountPoint     string `json:"mountPoint" yaml:"mountPoint"`
	FS             string `json:"fs" yaml:"fs"`
	FSName         string `json:"fsName" yaml:"fsName"`
	UUID           string `json:"uuid" yaml:"uuid"`
	Claimed        bool   `json:"claimed" yaml:"claimed"`
	LuksMapperName string `json:"luksMapperName,omitempty" yaml:"luksMapperName,omitempty"`
	LuksPassphrase string `json:"luksPassphrase,omitempty" yaml:"luksPassphrase,omitempty"`
}

// Encrypted reports whether the partition is a claimed LUKS container.
func (p *Partition) Encrypted() bool {
	return p.Claimed && p.FSName == FSLuks
}

// IsSwap reports whether the partition holds swap.
func (p *Partition) IsSwap() bool {
	return p.FS == FSSwap
}

// SwapDevice returns the block device swapon should activate.
func (p *Partition) SwapDevice() string {
	if p.FSName == FSLuks {
		return "/dev/mapper/" + p.LuksMapperName
	}
	return p.Device
}

// EFI reports whether the target boots via UEFI.
func (s *State) EFI() bool {
	return s.FirmwareType == FirmwareEFI
}

// BootDevice returns the GRUB install device, or "nodev" when none is known.
func (s *State) BootDevice() string {
	if s.BootLoader == nil || s.BootLoader.InstallPath == "" {
		return NoBootDev
	}
	return s.BootLoader.InstallPath
}

// Encrypted reports whether any claimed partition is a LUKS container.
func (s *State) Encrypted() bool {
	for i := range s.Partitions {
		if s.Partitions[i].Encrypted() {
			return true
		}
	}
	return false
}

// EnrolledPartitions returns the LUKS partitions that get the keyfile.
// On EFI the root partition is skipped: systemd-boot unlocks it itself.
func (s *State) EnrolledPartitions() []Partition {
	var parts []Partition
	for _, p := range s.Partitions {
		if !p.Encrypted() || p.Device == "" {
			continue
		}
		if s.EFI() && p.MountPoint == "/" {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// SwapPartition returns the first claimed swap partition, or nil.
func (s *State) SwapPartition() *Partition {
	for i := range s.Partitions {
		if s.Partitions[i].Claimed && s.Partitions[i].IsSwap() {
			return &s.Partitions[i]
		}
	}
	return nil
}

// Timezone returns "Region/Zone", or "" unless both are set.
func (s *State) Timezone() string {
	if s.LocationRegion == "" || s.LocationZone == "" {
		return ""
	}
	return s.LocationRegion + "/" + s.LocationZone
}

// HostnameOr returns the chosen hostname, or def when none was chosen.
func (s *State) HostnameOr(def string) string {
	if s.Hostname == "" {
		return def
	}
	return s.Hostname
}

// Validate checks that the state can drive an installation.
func (s *State) Validate() error {
	if s.RootMountPoint == "" {
		return fmt.Errorf("rootMountPoint is required")
	}
	if !filepath.IsAbs(s.RootMountPoint) {
		return fmt.Errorf("rootMountPoint must be absolute: %q", s.RootMountPoint)
	}

	if s.Hostname != "" {
		if err := config.ValidateHostname(s.Hostname); err != nil {
			return fmt.Errorf("hostname: %w", err)
		}
	}

	if s.Username != "" && !usernameRegex.MatchString(s.Username) {
		return fmt.Errorf("invalid username %q", s.Username)
	}

	for i, p := range s.Partitions {
		if !p.Encrypted() || p.Device == "" {
			continue
		}
		if !mapperRegex.MatchString(p.LuksMapperName) {
			return fmt.Errorf("partition %d (%s): invalid luksMapperName %q", i, p.Device, p.LuksMapperName)
		}
	}

	return nil
}

// ParseJSON decodes a JSON state dump.
func ParseJSON(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &s, nil
}

// ParseYAML decodes a YAML state dump.
func ParseYAML(data []byte) (*State, error) {
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &s, nil
}

// Load reads and validates the state dump at path.
// Files ending in .yaml or .yml are YAML, everything else is JSON.
func Load(fsys system.FileSystem, path string) (*State, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var s *State
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	default:
		s, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state %s: %w", path, err)
	}

	return s, nil
}
