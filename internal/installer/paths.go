package installer

import (
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Paths are the files a run creates inside the target root.
type Paths struct {
	Root          string
	Keyfile       string // crypto_keyfile.bin
	ConfigDir     string // etc/nixos
	Configuration string
	Flake         string
	Module        string
}

// TargetPaths resolves the output paths under root. Symlinks inside the
// target cannot lead outside it.
func TargetPaths(root string) (Paths, error) {
	p := Paths{Root: root}
	for _, f := range []struct {
		dst  *string
		name string
	}{
		{&p.Keyfile, "crypto_keyfile.bin"},
		{&p.ConfigDir, "etc/nixos"},
		{&p.Configuration, "etc/nixos/configuration.nix"},
		{&p.Flake, "etc/nixos/flake.nix"},
		{&p.Module, "etc/nixos/snowflake.nix"},
	} {
		resolved, err := securejoin.SecureJoin(root, f.name)
		if err != nil {
			return Paths{}, fmt.Errorf("failed to resolve %s under %s: %w", f.name, root, err)
		}
		*f.dst = resolved
	}
	return p, nil
}

// FlakeRef returns the flake reference nixos-install builds.
func (p Paths) FlakeRef(hostname string) string {
	return p.ConfigDir + "#" + hostname
}
