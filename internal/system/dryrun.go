package system

import (
	"context"
	"strings"
	"sync"
)

// DryRunExecutor implements CommandExecutor without running anything.
// Every command is recorded and reports success; Outputs can supply canned
// output keyed like MockExecutor responses.
type DryRunExecutor struct {
	mu sync.Mutex

	// Commands records all commands in the order they were requested.
	Commands []Command

	// Outputs maps "name arg0" or "name" to the output a command reports.
	Outputs map[string][]byte
}

// NewDryRunExecutor creates a new DryRunExecutor.
func NewDryRunExecutor() *DryRunExecutor {
	return &DryRunExecutor{Outputs: make(map[string][]byte)}
}

func (d *DryRunExecutor) record(stdin, name string, args []string) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Commands = append(d.Commands, Command{Name: name, Args: args, Stdin: stdin})
	if len(args) > 0 {
		if out, ok := d.Outputs[name+" "+args[0]]; ok {
			return out
		}
	}
	return d.Outputs[name]
}

func (d *DryRunExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return d.record("", name, args), nil
}

func (d *DryRunExecutor) ExecuteWithStdin(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	return d.record(stdin, name, args), nil
}

func (d *DryRunExecutor) Stream(ctx context.Context, onLine func(line string), name string, args ...string) error {
	out := d.record("", name, args)
	for _, line := range splitLines(string(out)) {
		onLine(line)
	}
	return nil
}

// Plan returns the recorded command lines, shell-quoted.
func (d *DryRunExecutor) Plan() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	plan := make([]string, 0, len(d.Commands))
	for _, c := range d.Commands {
		plan = append(plan, c.String())
	}
	return plan
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
