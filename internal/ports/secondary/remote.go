package secondary

import (
	"context"
	"fmt"
)

// Destination identifies a remote ssh endpoint.
type Destination struct {
	User string
	Host string
	Port int // 0 means the ssh default
}

// String returns user@host (or host when no user is set).
func (d Destination) String() string {
	if d.User == "" {
		return d.Host
	}
	return fmt.Sprintf("%s@%s", d.User, d.Host)
}

// RemoteResult is the outcome of one remote command.
type RemoteResult struct {
	ExitCode int
	Stdout   string
}

// RemoteRunner defines the secondary port for running commands on remote hosts.
// Each call spawns and tears down its own process; there is no session reuse and no retry.
type RemoteRunner interface {
	// Exec runs a single command line on the remote host.
	Exec(ctx context.Context, dest Destination, command string) (*RemoteResult, error)

	// ExecScript streams script to the remote shell's stdin and passes args as positional parameters.
	ExecScript(ctx context.Context, dest Destination, script string, args ...string) (*RemoteResult, error)

	// Copy copies a local file to remotePath on the destination.
	Copy(ctx context.Context, dest Destination, localPath, remotePath string) error
}
