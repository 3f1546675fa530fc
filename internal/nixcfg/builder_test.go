package nixcfg

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
)

func str(s string) *string { return &s }

// buildDemo assembles the configuration for an unencrypted EFI machine
// named demo with an en_US.UTF-8 locale.
func buildDemo(cfg *config.Config) (Files, []Warning) {
	b := NewBuilder(cfg)
	b.BootLoader(true, state.NoBootDev)
	b.Network("demo")
	b.Timezone("")
	b.Locale(map[string]string{"LANG": "en_US.UTF-8/UTF-8"})
	b.Desktop()
	b.Keyboard("", nil)
	b.Misc()
	b.User("", "", false)
	b.Packages()
	b.Tail("23.05")
	return b.Render()
}

func TestBuilder_DemoIsConsistent(t *testing.T) {
	files, warnings := buildDemo(config.Default())

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	for _, doc := range []string{files.Configuration, files.Flake, files.Module} {
		if strings.Contains(doc, "@@") {
			t.Errorf("placeholder left in output:\n%s", doc)
		}
	}

	cfg := files.Configuration
	for _, want := range []string{
		"boot.loader.systemd-boot.enable = true;",
		`networking.hostName = "demo";`,
		`i18n.defaultLocale = "en_US.UTF-8";`,
		"services.xserver.desktopManager.gnome.enable = true;",
		"nixpkgs.config.allowUnfree = true;",
		"    firefox\n",
		`system.stateVersion = "23.05";`,
		"experimental-features = nix-command flakes",
	} {
		if !strings.Contains(cfg, want) {
			t.Errorf("configuration.nix should contain %q", want)
		}
	}

	// Unset sections leave no trace
	for _, absent := range []string{
		"boot.loader.grub",
		"crypto_keyfile",
		"time.timeZone",
		"extraLocaleSettings",
		"xkbVariant",
		"console.keyMap",
		"users.users",
		"autoLogin",
	} {
		if strings.Contains(cfg, absent) {
			t.Errorf("configuration.nix should not contain %q", absent)
		}
	}

	if !strings.HasPrefix(cfg, "# Edit this configuration file") || !strings.HasSuffix(cfg, "}\n") {
		t.Error("configuration.nix should run from header to closing brace")
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	first, _ := buildDemo(config.Default())
	for i := 0; i < 5; i++ {
		again, _ := buildDemo(config.Default())
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestBuilder_FlakeAndModule(t *testing.T) {
	files, _ := buildDemo(config.Default())

	wantFlake := `{
  inputs = {
    nixpkgs.url = "github:NixOS/nixpkgs/nixos-unstable";
    snowflake = {
      url = "github:snowflakelinux/snowflake-modules";
      inputs.nixpkgs.follows = "nixpkgs";
    };
  };

  outputs = { self, nixpkgs, snowflake }: {
    nixosConfigurations.demo = nixpkgs.lib.nixosSystem {
      system = "x86_64-linux";
      modules = [
        ./configuration.nix
        ./snowflake.nix
        snowflake.nixosModules.snowflake
      ];
    };
  };
}
`
	if diff := cmp.Diff(wantFlake, files.Flake); diff != "" {
		t.Errorf("flake.nix mismatch (-want +got):\n%s", diff)
	}

	wantModule := `{ config, pkgs, ... }:

{
  snowflakeos.gnome.enable = true;
  snowflakeos.osInfo.enable = true;
}
`
	if diff := cmp.Diff(wantModule, files.Module); diff != "" {
		t.Errorf("snowflake.nix mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ConfigToggles(t *testing.T) {
	cfg := config.Default()
	cfg.System.GNOME = false
	cfg.System.AllowUnfree = false
	cfg.System.Packages = []string{"firefox", "git"}
	cfg.Flake.System = "aarch64-linux"

	files, warnings := buildDemo(cfg)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	if strings.Contains(files.Configuration, "gnome") || strings.Contains(files.Configuration, "allowUnfree") {
		t.Error("disabled sections should be absent")
	}
	if !strings.Contains(files.Configuration, "    firefox\n    git\n") {
		t.Errorf("package list not rendered one per line:\n%s", files.Configuration)
	}
	if !strings.Contains(files.Module, "snowflakeos.gnome.enable = false;") {
		t.Errorf("module should disable gnome:\n%s", files.Module)
	}
	if !strings.Contains(files.Flake, `system = "aarch64-linux";`) {
		t.Errorf("flake should use the configured system:\n%s", files.Flake)
	}
}

func TestBuilder_BootLoader(t *testing.T) {
	tests := []struct {
		name    string
		efi     bool
		bootDev string
		want    string
	}{
		{"efi", true, "/dev/sda", "boot.loader.systemd-boot.enable = true;"},
		{"bios", false, "/dev/sda", `boot.loader.grub.device = "/dev/sda";`},
		{"no device", false, state.NoBootDev, "boot.loader.grub.enable = false;"},
		{"empty device", false, "", "boot.loader.grub.enable = false;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(config.Default())
			b.BootLoader(tt.efi, tt.bootDev)
			got := Substitute(b.Text(), b.Vars())
			if !strings.Contains(got, tt.want) {
				t.Errorf("boot section should contain %q:\n%s", tt.want, got)
			}
			if strings.Count(got, "# Bootloader.")+strings.Count(got, "# Disable bootloader.") != 1 {
				t.Error("exactly one boot loader fragment expected")
			}
		})
	}
}

func TestBuilder_Encryption(t *testing.T) {
	parts := []state.Partition{
		{Device: "/dev/sda2", MountPoint: "/", FS: "ext4", FSName: state.FSLuks, Claimed: true, LuksMapperName: "luks-root"},
		{Device: "/dev/sda3", MountPoint: "/home", FS: "ext4", FSName: state.FSLuks, Claimed: true, LuksMapperName: "luks-home"},
		{Device: "/dev/sda4", FS: state.FSSwap, FSName: state.FSLuks, Claimed: true, UUID: "4444", LuksMapperName: "luks-swap"},
		{Device: "/dev/sda5", FS: state.FSSwap, FSName: state.FSLuks, Claimed: true, UUID: "5555", LuksMapperName: "luks-swap2"},
	}

	b := NewBuilder(config.Default())
	b.BootLoader(false, "/dev/sda")
	b.Keyfile(false)
	for _, p := range parts {
		b.EncryptedPartition(p)
	}
	text := b.Text()

	for _, mapper := range []string{"luks-root", "luks-home"} {
		line := `  boot.initrd.luks.devices."` + mapper + `".keyFile = "/crypto_keyfile.bin";` + "\n"
		if strings.Count(text, line) != 1 {
			t.Errorf("want exactly one keyfile line for %s:\n%s", mapper, text)
		}
	}
	for _, want := range []string{
		`boot.initrd.luks.devices."luks-swap".device = "/dev/disk/by-uuid/4444";`,
		`boot.initrd.luks.devices."luks-swap2".device = "/dev/disk/by-uuid/5555";`,
		`boot.initrd.luks.devices."luks-swap2".keyFile = "/crypto_keyfile.bin";`,
		"boot.loader.grub.enableCryptodisk=true;",
		`"/crypto_keyfile.bin" = null;`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("configuration should contain %q", want)
		}
	}
	if got := strings.Count(text, ".keyFile = "); got != len(parts) {
		t.Errorf("keyFile lines = %d, want %d", got, len(parts))
	}
	if len(Placeholders(text)) != 1 {
		t.Errorf("only @@bootdev@@ expected, got %v", Placeholders(text))
	}
}

func TestBuilder_KeyfileOnEFI(t *testing.T) {
	b := NewBuilder(config.Default())
	b.Keyfile(true)
	if strings.Contains(b.Text(), "enableCryptodisk") {
		t.Error("systemd-boot does not need GRUB cryptodisk")
	}
}

func TestBuilder_Locale(t *testing.T) {
	tests := []struct {
		name      string
		conf      map[string]string
		wantLocal bool
		wantExtra bool
		want      []string
	}{
		{"no conf", nil, false, false, nil},
		{"no LANG", map[string]string{"LC_TIME": "de_DE.UTF-8/UTF-8"}, false, false, nil},
		{"LANG only", map[string]string{"LANG": "en_US.UTF-8/UTF-8"}, true, false, nil},
		{"all same after cut", map[string]string{
			"LANG":    "en_US.UTF-8/UTF-8",
			"LC_TIME": "en_US.UTF-8/UTF-8",
			"LC_NAME": "en_US.UTF-8",
		}, true, false, nil},
		{"one differs", map[string]string{
			"LANG":    "en_US.UTF-8/UTF-8",
			"LC_TIME": "de_DE.UTF-8/UTF-8",
		}, true, true, []string{
			`LC_TIME = "de_DE.UTF-8";`,
			`LC_PAPER = "en_US.UTF-8";`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(config.Default())
			b.Locale(tt.conf)
			text := b.Text()

			if got := strings.Contains(text, "i18n.defaultLocale"); got != tt.wantLocal {
				t.Errorf("defaultLocale present = %v, want %v", got, tt.wantLocal)
			}
			if got := strings.Contains(text, "extraLocaleSettings"); got != tt.wantExtra {
				t.Errorf("extraLocaleSettings present = %v, want %v", got, tt.wantExtra)
			}
			if warnings := Check(b.Vars(), text); len(warnings) != 0 {
				t.Errorf("warnings = %v, want none", warnings)
			}

			out := Substitute(text, b.Vars())
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("locale section should contain %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestBuilder_UnknownLocaleKeyWarns(t *testing.T) {
	b := NewBuilder(config.Default())
	b.Locale(map[string]string{"LANG": "en_US.UTF-8", "LANGUAGE": "de_DE"})

	want := []Warning{{Kind: Unused, Name: "LANGUAGE"}}
	if diff := cmp.Diff(want, Check(b.Vars(), b.Text())); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Keyboard(t *testing.T) {
	tests := []struct {
		name    string
		layout  string
		variant *string
		want    bool
	}{
		{"layout and variant", "de", str("nodeadkeys"), true},
		{"empty variant", "de", str(""), true},
		{"no variant", "de", nil, false},
		{"no layout", "", str("nodeadkeys"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(config.Default())
			if got := b.Keyboard(tt.layout, tt.variant); got != tt.want {
				t.Errorf("Keyboard() = %v, want %v", got, tt.want)
			}
			if got := strings.Contains(b.Text(), "xkbVariant"); got != tt.want {
				t.Errorf("keymap fragment present = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilder_User(t *testing.T) {
	b := NewBuilder(config.Default())
	b.User("alice", `Alice "Al" ${evil}`, true)
	out := Substitute(b.Text(), b.Vars())

	for _, want := range []string{
		"users.users.alice = {",
		`description = "Alice \"Al\" \${evil}";`,
		`extraGroups = [ "networkmanager" "wheel" ];`,
		`services.xserver.displayManager.autoLogin.user = "alice";`,
		`systemd.services."getty@tty1".enable = false;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("user section should contain %q:\n%s", want, out)
		}
	}
}

func TestBuilder_UserWithoutAutoLogin(t *testing.T) {
	b := NewBuilder(config.Default())
	b.User("alice", "", false)
	if strings.Contains(b.Text(), "autoLogin") {
		t.Error("autologin fragment should be absent")
	}

	none := NewBuilder(config.Default())
	none.User("", "Nobody", true)
	if strings.Contains(none.Text(), "users.users") || len(none.Vars()) != 0 {
		t.Error("no username means no user section")
	}
}

func TestNixEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`back\slash`, `back\\slash`},
		{`"quoted"`, `\"quoted\"`},
		{"${HOME}", `\${HOME}`},
		{"$HOME", "$HOME"},
	}

	for _, tt := range tests {
		if got := nixEscape(tt.in); got != tt.want {
			t.Errorf("nixEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
