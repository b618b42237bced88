package app

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/example/devkit/internal/ports/secondary"
)

type scriptCall struct {
	dest   secondary.Destination
	script string
	args   []string
}

// mockRunner implements secondary.RemoteRunner.
type mockRunner struct {
	scripts   []scriptCall
	copies    []string
	stdout    string
	scriptErr error
	copyFail  map[string]bool
}

func (m *mockRunner) Exec(ctx context.Context, dest secondary.Destination, command string) (*secondary.RemoteResult, error) {
	return &secondary.RemoteResult{}, nil
}

func (m *mockRunner) ExecScript(ctx context.Context, dest secondary.Destination, script string, args ...string) (*secondary.RemoteResult, error) {
	m.scripts = append(m.scripts, scriptCall{dest: dest, script: script, args: args})
	if m.scriptErr != nil {
		return &secondary.RemoteResult{ExitCode: 1, Stdout: m.stdout}, m.scriptErr
	}
	return &secondary.RemoteResult{Stdout: m.stdout}, nil
}

func (m *mockRunner) Copy(ctx context.Context, dest secondary.Destination, localPath, remotePath string) error {
	if m.copyFail[localPath] {
		return errors.New("scp: connection lost")
	}
	m.copies = append(m.copies, localPath+"->"+remotePath)
	return nil
}

// mockGit implements secondary.GitConfigAdapter.
type mockGit struct {
	branch    string
	remoteURL string
	identity  secondary.GitIdentity
	setCalls  int
}

func (m *mockGit) Identity(ctx context.Context, repoPath string) (*secondary.GitIdentity, error) {
	id := m.identity
	return &id, nil
}

func (m *mockGit) SetIdentity(ctx context.Context, repoPath string, identity secondary.GitIdentity) error {
	m.setCalls++
	m.identity = identity
	return nil
}

func (m *mockGit) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	if m.branch == "" {
		return "", errors.New("HEAD is detached")
	}
	return m.branch, nil
}

func (m *mockGit) RemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	if m.remoteURL == "" {
		return "", errors.New("remote origin not found")
	}
	return m.remoteURL, nil
}

// mockWorkspace implements secondary.WorkspaceAdapter over a map.
type mockWorkspace struct {
	files  map[string][]byte
	writes int
}

func newMockWorkspace() *mockWorkspace {
	return &mockWorkspace{files: map[string][]byte{}}
}

func (m *mockWorkspace) ReadFile(ctx context.Context, path string) ([]byte, bool, error) {
	data, ok := m.files[path]
	return data, ok, nil
}

func (m *mockWorkspace) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	m.writes++
	m.files[path] = data
	return nil
}

func (m *mockWorkspace) DirectoryExists(ctx context.Context, path string) (bool, error) {
	return false, nil
}

// Glob supports a trailing "*" only.
func (m *mockWorkspace) Glob(ctx context.Context, pattern string) ([]secondary.LocalFile, error) {
	var out []secondary.LocalFile
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for p, data := range m.files {
		if (wildcard && strings.HasPrefix(p, prefix)) || p == pattern {
			out = append(out, secondary.LocalFile{Path: p, Size: int64(len(data))})
		}
	}
	sortLocal(out)
	return out, nil
}

func sortLocal(files []secondary.LocalFile) {
	for i := 1; i < len(files); i++ {
		for j := i; j > 0 && files[j].Path < files[j-1].Path; j-- {
			files[j], files[j-1] = files[j-1], files[j]
		}
	}
}
