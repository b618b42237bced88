package secondary

import "context"

// ExecResult is the outcome of a command run inside a container.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ContainerAdapter defines the secondary port for container queries and control.
type ContainerAdapter interface {
	// Resolve returns the container named pattern, or the first running container
	// whose name matches pattern as a regular expression. Empty means none.
	Resolve(ctx context.Context, pattern string) (string, error)

	// ListMatching returns the names of running containers matching pattern.
	ListMatching(ctx context.Context, pattern string) ([]string, error)

	// IsRunning checks whether the named container is running.
	IsRunning(ctx context.Context, name string) (bool, error)

	// Exec runs argv inside the container and waits for it to finish.
	Exec(ctx context.Context, name string, argv ...string) (*ExecResult, error)
}
