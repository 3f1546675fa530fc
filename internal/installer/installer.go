package installer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/i18n"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/keymap"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/nixcfg"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

// Progress reported at each stage.
const (
	ProgressConfigure = 0.1
	ProgressLUKS      = 0.15
	ProgressAssemble  = 0.18
	ProgressSwap      = 0.2
	ProgressGenerate  = 0.25
	ProgressInstall   = 0.3
	ProgressDone      = 1.0
)

// Installer runs the configuration and install step against a mounted target.
type Installer struct {
	cfg      *config.Config
	exec     system.CommandExecutor
	fs       system.FileSystem
	reporter Reporter
	elevate  []string
}

// Option configures an Installer.
type Option func(*Installer)

// WithExecutor sets the command executor.
func WithExecutor(exec system.CommandExecutor) Option {
	return func(i *Installer) {
		i.exec = exec
	}
}

// WithFileSystem sets the file system the keymap table is read from.
func WithFileSystem(fsys system.FileSystem) Option {
	return func(i *Installer) {
		i.fs = fsys
	}
}

// WithReporter sets where status, output and the outcome go.
func WithReporter(r Reporter) Option {
	return func(i *Installer) {
		i.reporter = r
	}
}

// New creates an Installer for cfg.
func New(cfg *config.Config, opts ...Option) (*Installer, error) {
	elevate, err := cfg.ElevateCommand()
	if err != nil {
		return nil, errors.ConfigError(err.Error(), err)
	}

	i := &Installer{
		cfg:      cfg,
		exec:     system.DefaultExecutor(),
		fs:       system.DefaultFS(),
		reporter: LogReporter{},
		elevate:  elevate,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Result describes a finished run.
type Result struct {
	Hostname     string
	StateVersion string
	Paths        Paths
	Files        nixcfg.Files
	Warnings     []nixcfg.Warning
}

// Run performs the whole step for st. Every external command is checked;
// the first failure ends the run with an *errors.InstallError carrying the
// title and details for the host. Nothing is rolled back.
func (i *Installer) Run(ctx context.Context, st *state.State) (res *Result, err error) {
	defer func() { i.reporter.Done(err) }()

	if err := st.Validate(); err != nil {
		return nil, errors.StateError(err.Error(), err)
	}
	paths, err := TargetPaths(st.RootMountPoint)
	if err != nil {
		return nil, errors.StateError(err.Error(), err)
	}

	res = &Result{
		Hostname: st.HostnameOr(i.cfg.DefaultHostname),
		Paths:    paths,
	}
	logging.Debug("starting installation", "root", paths.Root, "hostname", res.Hostname, "firmware", st.FirmwareType)

	i.reporter.Status(i18n.Sprintf("Configuring SnowflakeOS"), ProgressConfigure)

	b := nixcfg.NewBuilder(i.cfg)
	b.BootLoader(st.EFI(), st.BootDevice())

	if err := i.setupLUKS(ctx, st, b, paths.Keyfile); err != nil {
		return nil, err
	}

	i.reporter.Status(i18n.Sprintf("Configuring SnowflakeOS"), ProgressAssemble)

	b.Network(res.Hostname)
	b.Timezone(st.Timezone())
	b.Locale(st.LocaleConf)
	b.Desktop()
	if b.Keyboard(st.KeyboardLayout, st.KeyboardVariant) {
		if console := i.consoleKeymap(ctx, st); console != "" {
			b.Console(console)
		}
	}
	b.Misc()
	b.User(st.Username, st.Fullname, st.AutoLoginUser != "")
	b.Packages()

	res.StateVersion = i.stateVersion(ctx)
	b.Tail(res.StateVersion)

	res.Files, res.Warnings = b.Render()
	if err := i.checkPlaceholders(res.Warnings); err != nil {
		return nil, err
	}

	if err := i.activateSwap(ctx, st); err != nil {
		return nil, err
	}

	i.reporter.Status(i18n.Sprintf("Generating SnowflakeOS configuration"), ProgressGenerate)

	name, args := i.privileged("nixos-generate-config", "--root", paths.Root)
	if out, err := i.exec.Execute(ctx, name, args...); err != nil {
		logging.Error("nixos-generate-config failed", "output", string(out), "error", err)
		return nil, errors.GenerateConfigFailed(string(out), err)
	}

	if err := i.writeFiles(ctx, paths, res.Files); err != nil {
		return nil, err
	}

	i.reporter.Status(i18n.Sprintf("Installing SnowflakeOS"), ProgressInstall)

	if err := i.install(ctx, paths, res.Hostname); err != nil {
		return nil, err
	}

	i.reporter.Status(i18n.Sprintf("Installing SnowflakeOS"), ProgressDone)
	return res, nil
}

// setupLUKS creates the keyfile and enrolls it in every LUKS partition the
// initrd has to unlock, so the passphrase is asked for only once at boot.
func (i *Installer) setupLUKS(ctx context.Context, st *state.State, b *nixcfg.Builder, keyfile string) error {
	if !st.Encrypted() {
		return nil
	}

	b.Keyfile(st.EFI())
	i.reporter.Status(i18n.Sprintf("Setting up LUKS"), ProgressLUKS)

	if out, err := i.exec.Execute(ctx, "dd", "bs=512", "count=4", "if=/dev/random", "of="+keyfile, "iflag=fullblock"); err != nil {
		logging.Error("failed to create keyfile", "path", keyfile, "output", string(out), "error", err)
		return errors.KeyfileFailed(err)
	}
	if out, err := i.exec.Execute(ctx, "chmod", "600", keyfile); err != nil {
		logging.Error("failed to restrict keyfile", "path", keyfile, "output", string(out), "error", err)
		return errors.KeyfileFailed(err)
	}

	for _, p := range st.EnrolledPartitions() {
		b.EncryptedPartition(p)

		if out, err := i.exec.ExecuteWithStdin(ctx, p.LuksPassphrase, "cryptsetup", "luksAddKey", p.Device, keyfile); err != nil {
			logging.Error("failed to enroll keyfile", "device", p.Device, "mapper", p.LuksMapperName, "output", string(out), "error", err)
			return errors.CryptsetupFailed(p.LuksMapperName, err)
		}
		logging.Debug("keyfile enrolled", "device", p.Device, "mapper", p.LuksMapperName)
	}

	return nil
}

// consoleKeymap picks the console keymap and checks it with loadkeys.
// It returns "" when the console should keep its default.
func (i *Installer) consoleKeymap(ctx context.Context, st *state.State) string {
	console := strings.TrimSpace(st.KeyboardVConsoleKeymap)
	if console == "" {
		table, err := keymap.Load(i.fs, i.cfg.KbdModelMap)
		if err != nil {
			i.reporter.Warning("no console keymap: " + err.Error())
			return ""
		}
		console = table.Resolve(st.KeyboardLayout, st.KeyboardVariant)
		if console == "" || console == "us" {
			return ""
		}
	}

	name, args := i.privileged("loadkeys", console)
	if out, err := i.exec.Execute(ctx, name, args...); err != nil {
		logging.Debug("loadkeys failed", "keymap", console, "output", strings.TrimSpace(string(out)), "error", err)
		i.reporter.Warning("setting console keymap " + console + " would fail, using default")
		return ""
	}
	return console
}

// stateVersion returns system.stateVersion: the configured value, else the
// running release's major.minor, else the fallback.
func (i *Installer) stateVersion(ctx context.Context) string {
	if i.cfg.StateVersion != "" {
		return i.cfg.StateVersion
	}

	out, err := i.exec.Execute(ctx, "nixos-version")
	if err == nil {
		if v := parseStateVersion(string(out)); config.IsStateVersion(v) {
			return v
		}
	}

	i.reporter.Warning("cannot determine the NixOS release, using stateVersion " + i.cfg.FallbackStateVersion)
	return i.cfg.FallbackStateVersion
}

// parseStateVersion turns nixos-version output such as
// "23.05.4406.bb1ba2d3e9d2 (Stoat)" into "23.05".
func parseStateVersion(out string) string {
	parts := strings.SplitN(strings.TrimSpace(out), ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	v := strings.Join(parts, ".")
	if len(v) > 5 {
		v = v[:5]
	}
	return v
}

func (i *Installer) checkPlaceholders(warnings []nixcfg.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	problems := make([]string, len(warnings))
	for n, w := range warnings {
		problems[n] = w.String()
		if !i.cfg.StrictPlaceholders {
			i.reporter.Warning(problems[n])
		}
	}
	if i.cfg.StrictPlaceholders {
		return errors.PlaceholderError(problems)
	}
	return nil
}

// activateSwap turns on the first claimed swap partition so that
// nixos-generate-config records it.
func (i *Installer) activateSwap(ctx context.Context, st *state.State) error {
	swap := st.SwapPartition()
	if swap == nil {
		return nil
	}

	i.reporter.Status(i18n.Sprintf("Mounting swap"), ProgressSwap)

	device := swap.SwapDevice()
	if out, err := i.exec.Execute(ctx, "swapon", device); err != nil {
		logging.Error("failed to activate swap", "device", device, "output", string(out), "error", err)
		return errors.SwapFailed(device, err)
	}
	return nil
}

// writeFiles copies the rendered files into the target through cp, so the
// host can run the copy with its own privileges.
func (i *Installer) writeFiles(ctx context.Context, paths Paths, files nixcfg.Files) error {
	for _, f := range []struct {
		path    string
		content string
	}{
		{paths.Configuration, files.Configuration},
		{paths.Flake, files.Flake},
		{paths.Module, files.Module},
	} {
		if out, err := i.exec.ExecuteWithStdin(ctx, f.content, "cp", "/dev/stdin", f.path); err != nil {
			logging.Error("failed to write file", "path", f.path, "output", string(out), "error", err)
			return errors.WriteFailed(f.path, err)
		}
		logging.Debug("wrote file", "path", f.path, "bytes", len(f.content))
	}

	if out, err := i.exec.Execute(ctx, "chmod", "644", paths.Configuration, paths.Flake, paths.Module); err != nil {
		logging.Error("failed to set file modes", "dir", paths.ConfigDir, "output", string(out), "error", err)
		return errors.WriteFailed(filepath.Join(paths.ConfigDir, "*.nix"), err)
	}
	return nil
}

// install runs nixos-install, passing its combined output on line by line.
func (i *Installer) install(ctx context.Context, paths Paths, hostname string) error {
	name, args := i.privileged("nixos-install",
		"--no-root-passwd",
		"--root", paths.Root,
		"--no-channel-copy",
		"--flake", paths.FlakeRef(hostname))

	var output strings.Builder
	err := i.exec.Stream(ctx, func(line string) {
		output.WriteString(line)
		output.WriteByte('\n')
		i.reporter.Output(line)
	}, name, args...)
	if err != nil {
		return errors.InstallFailed(output.String(), err)
	}
	return nil
}

// privileged prefixes a command with the configured elevate command.
func (i *Installer) privileged(name string, args ...string) (string, []string) {
	if len(i.elevate) == 0 {
		return name, args
	}
	full := make([]string, 0, len(i.elevate)+len(args))
	full = append(full, i.elevate[1:]...)
	full = append(full, name)
	full = append(full, args...)
	return i.elevate[0], full
}
