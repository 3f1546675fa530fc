package testutil

import (
	"embed"
	"path"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadStateFixture loads a state fixture, YAML or JSON by extension.
func LoadStateFixture(name string) (*state.State, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	switch path.Ext(name) {
	case ".yaml", ".yml":
		return state.ParseYAML(data)
	default:
		return state.ParseJSON(data)
	}
}

// EFIDemoState returns an unencrypted EFI machine named demo.
func EFIDemoState() (*state.State, error) {
	return LoadStateFixture("efi_demo.json")
}

// BIOSLuksState returns a BIOS machine with encrypted root, home and swap,
// plus an unclaimed LUKS disk, with every optional key set.
func BIOSLuksState() (*state.State, error) {
	return LoadStateFixture("bios_luks.json")
}

// EFILuksState returns an EFI machine with encrypted root and plain swap.
func EFILuksState() (*state.State, error) {
	return LoadStateFixture("efi_luks.yaml")
}

// KbdModelMap returns a small kbd-model-map table.
func KbdModelMap() []byte {
	data, err := LoadFixture("kbd-model-map")
	if err != nil {
		panic(err)
	}
	return data
}
