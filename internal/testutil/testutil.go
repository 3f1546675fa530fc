package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/config"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/system"
)

// NixosVersion is what the mock nixos-version reports.
const NixosVersion = "23.05.4406.bb1ba2d3e9d2 (Stoat)\n"

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	Root     string // target root, an empty temporary directory
	Config   *config.Config
	Executor *system.MockExecutor
	FS       *system.MockFS
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a test environment with a mock executor and file
// system, installed as app.Default. The keymap table is in place and
// nixos-version answers NixosVersion.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := config.Default()

	fsys := system.NewMockFS()
	fsys.AddFile(cfg.KbdModelMap, KbdModelMap(), 0644)

	exec := system.NewMockExecutor()
	exec.AddResponse("nixos-version", []byte(NixosVersion), nil)

	testApp := app.New(
		app.WithConfig(cfg),
		app.WithExecutor(exec),
		app.WithFileSystem(fsys),
	)

	originalDefault := app.Default
	app.SetDefault(testApp)

	return &TestEnv{
		T:        t,
		Root:     t.TempDir(),
		Config:   cfg,
		Executor: exec,
		FS:       fsys,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// State loads a state fixture and points it at the environment's root.
func (e *TestEnv) State(fixture string) *state.State {
	e.T.Helper()

	st, err := LoadStateFixture(fixture)
	if err != nil {
		e.T.Fatalf("Failed to load state fixture %s: %v", fixture, err)
	}
	st.RootMountPoint = e.Root
	return st
}

// AddState writes st as JSON to the mock file system and returns its path.
func (e *TestEnv) AddState(name string, st *state.State) string {
	e.T.Helper()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		e.T.Fatalf("Failed to marshal state: %v", err)
	}

	path := filepath.Join("/run/snowflake-install", name)
	e.FS.AddFile(path, data, 0600)
	return path
}

// TargetPath returns a path inside the target root.
func (e *TestEnv) TargetPath(rel string) string {
	return filepath.Join(e.Root, rel)
}

// Written returns what the run copied to path through cp /dev/stdin.
func (e *TestEnv) Written(path string) (string, bool) {
	for _, c := range e.Executor.Commands {
		if c.Name == "cp" && len(c.Args) == 2 && c.Args[0] == "/dev/stdin" && c.Args[1] == path {
			return c.Stdin, true
		}
	}
	return "", false
}
