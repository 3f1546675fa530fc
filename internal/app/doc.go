// Package app provides the application context for snowflake-install.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config   *config.Config          // Installer configuration
//	    Executor system.CommandExecutor  // Host command runner
//	    FS       system.FileSystem       // State, config and keymap reads
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithConfig(cfg),
//	    app.WithExecutor(system.NewMockExecutor()),
//	    app.WithFileSystem(system.NewMockFS()),
//	)
//
// # Available Options
//
//	WithConfig(cfg)         // Custom configuration
//	WithExecutor(exec)      // Custom command executor
//	WithFileSystem(fsys)    // Custom file system
package app
