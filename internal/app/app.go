package app

import (
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/installer"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded installer configuration
	Config *config.Config

	// Executor runs host commands
	Executor system.CommandExecutor

	// FS reads state dumps, the config file and the keymap table
	FS system.FileSystem
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets a custom configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithFileSystem sets a custom file system
func WithFileSystem(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// New creates a new App with the given options.
// Unset dependencies fall back to the built-in configuration and the host
// executor and file system.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}

	return app
}

// LoadConfig replaces the configuration with the file at path.
func (a *App) LoadConfig(path string) error {
	cfg, err := config.Load(a.FS, path)
	if err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

// LoadState reads the host state dump at path.
func (a *App) LoadState(path string) (*state.State, error) {
	return state.Load(a.FS, path)
}

// Installer creates an installer wired to the app's dependencies.
// A nil reporter logs.
func (a *App) Installer(reporter installer.Reporter) (*installer.Installer, error) {
	opts := []installer.Option{
		installer.WithExecutor(a.Executor),
		installer.WithFileSystem(a.FS),
	}
	if reporter != nil {
		opts = append(opts, installer.WithReporter(reporter))
	}
	return installer.New(a.Config, opts...)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
