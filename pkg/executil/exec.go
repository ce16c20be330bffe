// Package executil provides subprocess execution utilities.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Cmd describes a single process invocation.
type Cmd struct {
	Name  string
	Args  []string
	Env   []string  // appended to the parent environment
	Stdin io.Reader // optional
	Dir   string    // empty means inherit cwd
}

func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// Output executes c and returns stdout only. On failure stderr becomes
	// the error message.
	Output(ctx context.Context, c Cmd) ([]byte, error)
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// Output executes c and returns its stdout. Stderr is captured, capped at 500
// bytes to keep large or ANSI-polluted output out of logs and the status line,
// and used as the error message. The original *exec.ExitError is preserved via
// wrapping so callers can inspect exit codes with errors.As.
func (e *RealExecutor) Output(ctx context.Context, c Cmd) ([]byte, error) {
	ec := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Dir != "" {
		ec.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		ec.Env = append(os.Environ(), c.Env...)
	}
	if c.Stdin != nil {
		ec.Stdin = c.Stdin
	}

	var stdout, stderr bytes.Buffer
	ec.Stdout = &stdout
	ec.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := ec.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w", msg, err)
		}
		return stdout.Bytes(), fmt.Errorf("exec %s: %w", c.Name, err)
	}
	return stdout.Bytes(), nil
}
