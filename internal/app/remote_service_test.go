package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/ports/primary"
)

func testRemoteConfig() *config.Config {
	return &config.Config{
		SSH:    config.SSHConfig{ConfigPath: "/home/jo/.ssh/config"},
		Remote: config.RemoteConfig{Target: "~/.dotfiles"},
	}
}

func TestRemoteService_Prepare(t *testing.T) {
	runner := &mockRunner{stdout: "cloning into ~/.dotfiles (main)\n"}
	git := &mockGit{branch: "main", remoteURL: "git@github.com:jo/dotfiles.git"}
	ws := newMockWorkspace()
	ws.files["/home/jo/.ssh/config"] = []byte("Host box\n    Port 2200\n")

	svc := NewRemoteService(testRemoteConfig(), runner, git, ws, zap.NewNop())
	resp, err := svc.Prepare(context.Background(), primary.RemotePrepareRequest{Destination: "jo@box"})

	require.NoError(t, err)
	assert.Equal(t, 2200, resp.Port)
	assert.Equal(t, "main", resp.Branch)
	assert.Equal(t, "~/.dotfiles", resp.Target)
	assert.Equal(t, "cloning into ~/.dotfiles (main)\n", resp.Output)

	require.Len(t, runner.scripts, 1)
	call := runner.scripts[0]
	assert.Equal(t, "box", call.dest.Host)
	assert.Equal(t, "jo", call.dest.User)
	assert.Equal(t, 2200, call.dest.Port)
	assert.Equal(t, []string{"git@github.com:jo/dotfiles.git", "main", "~/.dotfiles"}, call.args)
	assert.Equal(t, resp.Script, call.script)
}

func TestRemoteService_Prepare_DryRun(t *testing.T) {
	runner := &mockRunner{}
	git := &mockGit{remoteURL: "https://example.com/d.git"}

	svc := NewRemoteService(testRemoteConfig(), runner, git, newMockWorkspace(), zap.NewNop())
	resp, err := svc.Prepare(context.Background(), primary.RemotePrepareRequest{
		Destination: "box",
		Port:        2022,
		Branch:      "dev",
		Target:      "/opt/dots",
		DryRun:      true,
	})

	require.NoError(t, err)
	assert.Empty(t, runner.scripts, "dry run must not contact the host")
	assert.Equal(t, "ssh -p 2022 box bash -s -- 'https://example.com/d.git' 'dev' '/opt/dots' < bootstrap.sh", resp.Command)
	assert.Contains(t, resp.Script, "git clone")
}

func TestRemoteService_Prepare_NoInstall(t *testing.T) {
	git := &mockGit{remoteURL: "https://example.com/d.git"}

	svc := NewRemoteService(testRemoteConfig(), &mockRunner{}, git, newMockWorkspace(), zap.NewNop())
	resp, err := svc.Prepare(context.Background(), primary.RemotePrepareRequest{
		Destination: "box",
		Port:        22,
		Branch:      "dev",
		Target:      "/opt/dots",
		NoInstall:   true,
		DryRun:      true,
	})

	require.NoError(t, err)
	assert.Contains(t, resp.Script, "git clone")
	assert.NotContains(t, resp.Script, "for installer")
}

func TestRemoteService_Prepare_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    primary.RemotePrepareRequest
		git    *mockGit
		errMsg string
	}{
		{"bad destination", primary.RemotePrepareRequest{Destination: "box:/tmp"}, &mockGit{branch: "main"}, "must not include a path"},
		{"no branch", primary.RemotePrepareRequest{Destination: "box"}, &mockGit{remoteURL: "u"}, "--branch"},
		{"no repo url", primary.RemotePrepareRequest{Destination: "box", Branch: "main"}, &mockGit{}, "remote.repo_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRemoteService(testRemoteConfig(), &mockRunner{}, tt.git, newMockWorkspace(), zap.NewNop())
			_, err := svc.Prepare(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRemoteService_Prepare_RemoteFailureKeepsOutput(t *testing.T) {
	runner := &mockRunner{stdout: "fatal: not a git repository", scriptErr: errors.New("exit 128")}
	git := &mockGit{branch: "main", remoteURL: "u"}

	svc := NewRemoteService(testRemoteConfig(), runner, git, newMockWorkspace(), zap.NewNop())
	resp, err := svc.Prepare(context.Background(), primary.RemotePrepareRequest{Destination: "box"})

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 22, resp.Port)
	assert.Equal(t, "fatal: not a git repository", resp.Output)
}

func TestRemoteService_Transfer(t *testing.T) {
	ws := newMockWorkspace()
	ws.files["dumps/a.sql"] = []byte("12345")
	ws.files["dumps/b.sql"] = []byte("123")
	ws.files["dumps/c.sql"] = []byte("1")
	// remote has a.sql with the same size and b.sql with a different one
	runner := &mockRunner{stdout: "5\t0\n9\t1\n", copyFail: map[string]bool{"dumps/c.sql": true}}

	svc := NewRemoteService(testRemoteConfig(), runner, &mockGit{}, ws, zap.NewNop())
	resp, err := svc.Transfer(context.Background(), primary.TransferRequest{
		Destination: "jo@box:/srv/in",
		Patterns:    []string{"dumps/*", "dumps/a.sql"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Files, 3)
	assert.Equal(t, primary.TransferSkipped, resp.Files[0].Action)
	assert.Equal(t, primary.TransferCopied, resp.Files[1].Action)
	assert.Equal(t, primary.TransferFailed, resp.Files[2].Action)
	assert.Error(t, resp.Files[2].Err)
	assert.Equal(t, []string{"dumps/b.sql->/srv/in/b.sql"}, runner.copies)

	require.Len(t, runner.scripts, 1, "sizes are fetched in one call")
	assert.Equal(t, []string{"/srv/in/a.sql", "/srv/in/b.sql", "/srv/in/c.sql"}, runner.scripts[0].args)
}

func TestRemoteService_Transfer_ForceAndDryRun(t *testing.T) {
	ws := newMockWorkspace()
	ws.files["a.txt"] = []byte("x")
	runner := &mockRunner{}

	svc := NewRemoteService(testRemoteConfig(), runner, &mockGit{}, ws, zap.NewNop())
	resp, err := svc.Transfer(context.Background(), primary.TransferRequest{
		Destination: "box:~/in",
		Patterns:    []string{"a.txt"},
		Force:       true,
		DryRun:      true,
	})

	require.NoError(t, err)
	assert.Empty(t, runner.scripts, "force skips the size query")
	assert.Empty(t, runner.copies)
	assert.Equal(t, 1, resp.Count(primary.TransferPending))
}

func TestRemoteService_Transfer_NoMatch(t *testing.T) {
	svc := NewRemoteService(testRemoteConfig(), &mockRunner{}, &mockGit{}, newMockWorkspace(), zap.NewNop())

	_, err := svc.Transfer(context.Background(), primary.TransferRequest{
		Destination: "box:/srv",
		Patterns:    []string{"*.nothing"},
	})
	assert.ErrorContains(t, err, "no files match")
}
