// Package docker contains the container adapter backed by the Docker Engine API.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/example/devkit/internal/ports/secondary"
)

// ErrNotRunning is returned when a command targets a stopped or missing container.
var ErrNotRunning = errors.New("container is not running")

// Adapter implements secondary.ContainerAdapter.
type Adapter struct {
	api client.APIClient
}

// NewAdapter creates an adapter over an existing API client.
func NewAdapter(api client.APIClient) *Adapter {
	return &Adapter{api: api}
}

// NewFromEnv connects using DOCKER_HOST and friends, negotiating the API version.
func NewFromEnv() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return NewAdapter(cli), nil
}

// Ping checks that the daemon is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.api.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// Resolve returns pattern itself when a running container has exactly that
// name, otherwise the first running container (by name) matching it as a regex.
func (a *Adapter) Resolve(ctx context.Context, pattern string) (string, error) {
	names, err := a.runningNames(ctx)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == pattern {
			return n, nil
		}
	}

	matches, err := filterNames(names, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}

// ListMatching returns running container names matching pattern, sorted.
func (a *Adapter) ListMatching(ctx context.Context, pattern string) ([]string, error) {
	names, err := a.runningNames(ctx)
	if err != nil {
		return nil, err
	}
	return filterNames(names, pattern)
}

// IsRunning checks whether the named container exists and is running.
func (a *Adapter) IsRunning(ctx context.Context, name string) (bool, error) {
	info, err := a.api.ContainerInspect(ctx, name)
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}
	if info.ContainerJSONBase == nil || info.State == nil {
		return false, nil
	}
	return info.State.Running, nil
}

// Exec runs argv inside the container, waits for it, and returns its output.
// A non-zero exit code is reported in the result, not as an error.
func (a *Adapter) Exec(ctx context.Context, name string, argv ...string) (*secondary.ExecResult, error) {
	created, err := a.api.ContainerExecCreate(ctx, name, container.ExecOptions{
		Cmd:          argv,
		AttachStdout: true,
		AttachStderr: true,
	})
	if errdefs.IsNotFound(err) || errdefs.IsConflict(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create exec in %s: %w", name, err)
	}

	attach, err := a.api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach exec in %s: %w", name, err)
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return nil, fmt.Errorf("failed to read exec output from %s: %w", name, err)
	}

	inspect, err := a.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect exec in %s: %w", name, err)
	}

	return &secondary.ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   strings.TrimSpace(stderr.String()),
	}, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.api.Close()
}

func (a *Adapter) runningNames(ctx context.Context) ([]string, error) {
	containers, err := a.api.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var names []string
	for _, c := range containers {
		if c.State != "running" {
			continue
		}
		for _, n := range c.Names {
			names = append(names, strings.TrimPrefix(n, "/"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func filterNames(names []string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid container pattern %q: %w", pattern, err)
	}
	var out []string
	for _, n := range names {
		if re.MatchString(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

var _ secondary.ContainerAdapter = (*Adapter)(nil)
