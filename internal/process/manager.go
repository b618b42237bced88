// Package process abstracts external process execution so callers can be tested
// without spawning real binaries. Every exec.Command in devkit goes through Manager.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Manager runs external commands.
type Manager interface {
	// Run executes name with args and returns stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// RunWithInput executes name with input streamed to its stdin and returns stdout.
	RunWithInput(ctx context.Context, name string, input io.Reader, args ...string) ([]byte, error)

	// LookPath reports the resolved path of an executable on PATH.
	LookPath(name string) (string, error)
}

// Error describes a command that ran and failed, or could not be started.
type Error struct {
	Name     string
	ExitCode int // -1 when the process never started
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, e.Stderr)
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s could not be started: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode extracts the exit code from err, or -1 if err carries none.
func ExitCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// DefaultManager runs real processes via os/exec.
type DefaultManager struct {
	// Stderr, when set, receives the child's stderr instead of it being captured.
	// Interactive tools (fzf) draw on it.
	Stderr io.Writer
}

// NewDefaultManager creates a Manager that captures stderr into errors.
func NewDefaultManager() *DefaultManager {
	return &DefaultManager{}
}

// Run executes a command synchronously and returns its stdout.
func (m *DefaultManager) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return m.run(ctx, name, nil, args...)
}

// RunWithInput executes a command with input piped to stdin.
func (m *DefaultManager) RunWithInput(ctx context.Context, name string, input io.Reader, args ...string) ([]byte, error) {
	return m.run(ctx, name, input, args...)
}

// LookPath wraps exec.LookPath.
func (m *DefaultManager) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (m *DefaultManager) run(ctx context.Context, name string, input io.Reader, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if input != nil {
		cmd.Stdin = input
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if m.Stderr != nil {
		cmd.Stderr = m.Stderr
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		perr := &Error{Name: name, ExitCode: -1, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), perr
	}

	return stdout.Bytes(), nil
}

var _ Manager = (*DefaultManager)(nil)
