// Package ssh runs commands on remote hosts through the ssh and scp binaries.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/devkit/internal/ports/secondary"
	"github.com/example/devkit/internal/process"
)

// ErrExecFailed is the single failure outcome of a remote operation.
var ErrExecFailed = errors.New("remote exec failed")

// ExecError carries the exit code and stderr of a failed remote operation.
// ExitCode is -1 when ssh itself could not be started.
type ExecError struct {
	Op       string
	Dest     string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s on %s failed with exit code %d", e.Op, e.Dest, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error { return ErrExecFailed }

// Runner implements secondary.RemoteRunner by shelling out to ssh and scp.
type Runner struct {
	proc    process.Manager
	options []string
}

// NewRunner creates a runner. BatchMode keeps ssh from prompting for
// passwords on a terminal the workflow is also reading answers from.
func NewRunner(proc process.Manager) *Runner {
	return &Runner{
		proc:    proc,
		options: []string{"-o", "BatchMode=yes"},
	}
}

// Exec runs a single command line on the remote host.
func (r *Runner) Exec(ctx context.Context, dest secondary.Destination, command string) (*secondary.RemoteResult, error) {
	args := r.sshArgs(dest)
	args = append(args, command)

	out, err := r.proc.Run(ctx, "ssh", args...)
	return r.result("exec", dest, out, err)
}

// ExecScript streams script to `bash -s` on the remote host; args become $1..$n.
func (r *Runner) ExecScript(ctx context.Context, dest secondary.Destination, script string, args ...string) (*secondary.RemoteResult, error) {
	sshArgs := r.sshArgs(dest)
	sshArgs = append(sshArgs, "bash", "-s", "--")
	for _, a := range args {
		sshArgs = append(sshArgs, shellQuote(a))
	}

	out, err := r.proc.RunWithInput(ctx, "ssh", strings.NewReader(script), sshArgs...)
	return r.result("script", dest, out, err)
}

// Copy copies one local file to remotePath with scp.
func (r *Runner) Copy(ctx context.Context, dest secondary.Destination, localPath, remotePath string) error {
	args := append([]string{}, r.options...)
	if dest.Port > 0 {
		args = append(args, "-P", strconv.Itoa(dest.Port))
	}
	args = append(args, localPath, dest.String()+":"+remotePath)

	if _, err := r.proc.Run(ctx, "scp", args...); err != nil {
		return toExecError("copy", dest, err)
	}
	return nil
}

func (r *Runner) sshArgs(dest secondary.Destination) []string {
	args := append([]string{}, r.options...)
	if dest.Port > 0 {
		args = append(args, "-p", strconv.Itoa(dest.Port))
	}
	return append(args, dest.String())
}

func (r *Runner) result(op string, dest secondary.Destination, out []byte, err error) (*secondary.RemoteResult, error) {
	res := &secondary.RemoteResult{Stdout: string(out)}
	if err != nil {
		execErr := toExecError(op, dest, err)
		res.ExitCode = execErr.ExitCode
		return res, execErr
	}
	return res, nil
}

func toExecError(op string, dest secondary.Destination, err error) *ExecError {
	execErr := &ExecError{Op: op, Dest: dest.String(), ExitCode: process.ExitCode(err)}
	var perr *process.Error
	if errors.As(err, &perr) {
		execErr.Stderr = perr.Stderr
	}
	return execErr
}

// shellQuote single-quotes s for the remote shell, which re-splits the
// arguments ssh joins into one command line.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' || r == '/' || r == '~' || r == '=' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var _ secondary.RemoteRunner = (*Runner)(nil)
