package nixcfg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
)

// localeCategories are the keys of the extraLocaleSettings fragment.
var localeCategories = []string{
	"LC_ADDRESS",
	"LC_IDENTIFICATION",
	"LC_MEASUREMENT",
	"LC_MONETARY",
	"LC_NAME",
	"LC_NUMERIC",
	"LC_PAPER",
	"LC_TELEPHONE",
	"LC_TIME",
}

// Files holds the rendered contents of the generated files.
type Files struct {
	Configuration string // etc/nixos/configuration.nix
	Flake         string // etc/nixos/flake.nix
	Module        string // etc/nixos/snowflake.nix
}

// Builder assembles configuration.nix from fragments and records the
// placeholder bindings. Methods append in call order; the caller decides
// the order and which sections apply.
type Builder struct {
	cfg  *config.Config
	buf  strings.Builder
	vars Vars
}

// NewBuilder starts a configuration.nix with its header.
func NewBuilder(cfg *config.Config) *Builder {
	b := &Builder{cfg: cfg, vars: make(Vars)}
	b.buf.WriteString(fragHead)
	return b
}

// Text returns the configuration assembled so far, before substitution.
func (b *Builder) Text() string {
	return b.buf.String()
}

// Vars returns the bindings recorded so far.
func (b *Builder) Vars() Vars {
	return b.vars
}

// BootLoader selects systemd-boot on EFI, GRUB on a known boot device, and
// otherwise disables the boot loader.
func (b *Builder) BootLoader(efi bool, bootDev string) {
	switch {
	case efi:
		b.buf.WriteString(fragBootEFI)
	case bootDev != "" && bootDev != state.NoBootDev:
		b.buf.WriteString(fragBootBIOS)
		b.vars.Set("bootdev", nixEscape(bootDev))
	default:
		b.buf.WriteString(fragBootNone)
	}
}

// Keyfile adds the initrd keyfile secret, plus GRUB cryptodisk support when
// GRUB has to unlock the disk.
func (b *Builder) Keyfile(efi bool) {
	b.buf.WriteString(fragBootCrypt)
	if !efi {
		b.buf.WriteString(fragBootGrubCrypt)
	}
}

// EncryptedPartition registers the keyfile for one LUKS partition. Swap
// also gets its initrd device so it is unlocked at boot.
func (b *Builder) EncryptedPartition(p state.Partition) {
	if p.IsSwap() {
		fmt.Fprintf(&b.buf, fragSwapCrypt, p.LuksMapperName, nixEscape(p.UUID))
		return
	}
	fmt.Fprintf(&b.buf, fragKeyfile, p.LuksMapperName)
}

// Network sets the hostname and enables NetworkManager.
func (b *Builder) Network(hostname string) {
	b.buf.WriteString(fragNetwork)
	b.buf.WriteString(fragNetworkManager)
	b.vars.Set("hostname", hostname)
}

// Timezone sets time.timeZone; an empty zone adds nothing.
func (b *Builder) Timezone(zone string) {
	if zone == "" {
		return
	}
	b.buf.WriteString(fragTime)
	b.vars.Set("timezone", nixEscape(zone))
}

// Locale sets the default locale from LANG and, when any other category
// differs from it, the per-category settings. Values are cut at the first
// "/" ("en_US.UTF-8/UTF-8" becomes "en_US.UTF-8"). Categories the host did
// not set follow LANG.
func (b *Builder) Locale(conf map[string]string) {
	lang := localeName(conf["LANG"])
	if lang == "" {
		return
	}
	b.buf.WriteString(fragLocale)
	b.vars.Set("LANG", nixEscape(lang))

	keys := make([]string, 0, len(conf))
	differs := false
	for key, value := range conf {
		if key == "LANG" {
			continue
		}
		keys = append(keys, key)
		if localeName(value) != lang {
			differs = true
		}
	}
	if !differs {
		return
	}

	b.buf.WriteString(fragLocaleExtra)
	for _, category := range localeCategories {
		b.vars.Set(category, nixEscape(lang))
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.vars.Set(key, nixEscape(localeName(conf[key])))
	}
}

// Desktop enables X11 with GNOME when the distribution ships it.
func (b *Builder) Desktop() {
	if b.cfg.System.GNOME {
		b.buf.WriteString(fragGNOME)
	}
}

// Keyboard sets the X11 keymap. Both a layout and a variant are needed; an
// empty variant is the layout default.
func (b *Builder) Keyboard(layout string, variant *string) bool {
	if layout == "" || variant == nil {
		return false
	}
	b.buf.WriteString(fragKeymap)
	b.vars.Set("kblayout", nixEscape(layout))
	b.vars.Set("kbvariant", nixEscape(*variant))
	return true
}

// Console sets the console keymap.
func (b *Builder) Console(keymap string) {
	b.buf.WriteString(fragConsole)
	b.vars.Set("vconsole", nixEscape(keymap))
}

// Misc enables printing and sound.
func (b *Builder) Misc() {
	b.buf.WriteString(fragMisc)
}

// User defines the primary account, optionally logged in automatically.
func (b *Builder) User(username, fullname string, autoLogin bool) {
	if username == "" {
		return
	}
	b.buf.WriteString(fragUsers)
	b.vars.Set("username", username)
	b.vars.Set("fullname", nixEscape(fullname))
	b.vars.Set("groups", nixList(b.cfg.System.Groups))

	if autoLogin {
		b.buf.WriteString(fragAutoLogin)
		if b.cfg.System.GNOME {
			b.buf.WriteString(fragAutoLoginGDM)
		}
	}
}

// Packages adds the unfree switch and the system package list.
func (b *Builder) Packages() {
	if b.cfg.System.AllowUnfree {
		b.buf.WriteString(fragUnfree)
	}
	b.buf.WriteString(fragPackages)
	b.vars.Set("pkgs", strings.Join(b.cfg.System.Packages, "\n    "))
}

// Tail closes the configuration with the given system.stateVersion.
func (b *Builder) Tail(stateVersion string) {
	b.buf.WriteString(fragTail)
	b.vars.Set("nixosversion", stateVersion)
}

// Render binds the flake and module placeholders, checks all three
// documents together and substitutes them.
func (b *Builder) Render() (Files, []Warning) {
	b.vars.Set("nixpkgsurl", nixEscape(b.cfg.Flake.Nixpkgs))
	b.vars.Set("snowflakeurl", nixEscape(b.cfg.Flake.Snowflake))
	b.vars.Set("system", nixEscape(b.cfg.Flake.System))
	b.vars.Set("gnome", nixBool(b.cfg.System.GNOME))
	b.vars.Set("osinfo", nixBool(b.cfg.System.OSInfo))

	text := b.buf.String()
	warnings := Check(b.vars, text, flakeTemplate, moduleTemplate)

	return Files{
		Configuration: Substitute(text, b.vars),
		Flake:         Substitute(flakeTemplate, b.vars),
		Module:        Substitute(moduleTemplate, b.vars),
	}, warnings
}

// localeName cuts a locale entry such as "de_DE.UTF-8/UTF-8" at the first "/".
func localeName(value string) string {
	name, _, _ := strings.Cut(value, "/")
	return name
}

// nixList renders strings as the elements of a Nix list: "a" "b".
func nixList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + nixEscape(item) + `"`
	}
	return strings.Join(quoted, " ")
}

// nixBool returns "true" or "false" for use in Nix configuration.
func nixBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// nixEscape escapes a string for safe inclusion inside a Nix "..." string literal.
// It handles backslashes, double quotes, and ${} interpolation sequences.
func nixEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "${", "\\${")
	return s
}
