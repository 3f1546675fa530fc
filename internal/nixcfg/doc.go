// Package nixcfg renders the NixOS configuration of the installed system.
//
// Three files are produced under <root>/etc/nixos:
//
//	configuration.nix   fragments picked from the installer state
//	flake.nix           nixpkgs and snowflake-modules inputs, one nixosConfiguration
//	snowflake.nix       the distribution module toggles
//
// # Fragments and Placeholders
//
// configuration.nix is built by appending fixed fragments in order.
// Fragments carry @@name@@ placeholders; each Builder method that appends
// one also binds its values:
//
//	b := nixcfg.NewBuilder(cfg)
//	b.BootLoader(st.EFI(), st.BootDevice())
//	b.Network("demo")
//	b.Tail("23.05")
//	files, warnings := b.Render()
//
// Render checks the bindings against all three documents before it
// substitutes: a binding no document uses, or a placeholder nothing binds,
// is reported as a Warning. Unbound placeholders stay in the output.
//
// Values that land inside Nix string literals are escaped. The text is
// never parsed as Nix.
package nixcfg
