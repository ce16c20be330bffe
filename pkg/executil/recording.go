package executil

import (
	"context"
	"io"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd   string
	Args  []string
	Env   []string
	Stdin string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps, or Handler, to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "man").
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error

	// Handler, when set, takes precedence over Outputs and Errors.
	Handler func(rc RecordedCommand) ([]byte, error)
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(RecordedCommand{Cmd: cmd, Args: args})
}

// Output records c, including its environment and stdin, and returns
// configured output/error.
func (e *RecordingExecutor) Output(ctx context.Context, c Cmd) ([]byte, error) {
	rc := RecordedCommand{Cmd: c.Name, Args: c.Args, Env: c.Env}
	if c.Stdin != nil {
		data, err := io.ReadAll(c.Stdin)
		if err != nil {
			return nil, err
		}
		rc.Stdin = string(data)
	}
	return e.record(rc)
}

func (e *RecordingExecutor) record(rc RecordedCommand) ([]byte, error) {
	e.mu.Lock()
	e.Commands = append(e.Commands, rc)
	handler := e.Handler
	e.mu.Unlock()

	if handler != nil {
		return handler(rc)
	}

	var out []byte
	var err error

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Outputs != nil {
		out = e.Outputs[rc.Cmd]
	}
	if e.Errors != nil {
		err = e.Errors[rc.Cmd]
	}

	return out, err
}

// Recorded returns a copy of the recorded commands.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedCommand(nil), e.Commands...)
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
