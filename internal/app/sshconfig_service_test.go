package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/sshconfig"
	"github.com/example/devkit/internal/ports/primary"
)

func TestSSHConfigService_SyncIsIdempotent(t *testing.T) {
	ws := newMockWorkspace()
	ws.files["/home/jo/.ssh/config"] = []byte("Host github.com\n    User git\n")
	cfg := config.SSHConfig{
		ConfigPath: "/home/jo/.ssh/config",
		Hosts:      []config.SSHHost{{Alias: "box", HostName: "10.0.0.2", Port: 2200}},
	}
	svc := NewSSHConfigService(cfg, ws, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Sync(ctx, primary.SSHConfigSyncRequest{})
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, 1, ws.writes)

	content := string(ws.files["/home/jo/.ssh/config"])
	assert.True(t, strings.HasPrefix(content, "Host github.com\n    User git\n"))
	assert.Contains(t, content, sshconfig.BeginMarker)
	assert.Contains(t, content, "    Port 2200\n")

	second, err := svc.Sync(ctx, primary.SSHConfigSyncRequest{})
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, 1, ws.writes, "unchanged content is not rewritten")
}

func TestSSHConfigService_DryRun(t *testing.T) {
	ws := newMockWorkspace()
	cfg := config.SSHConfig{ConfigPath: "/c", Hosts: []config.SSHHost{{Alias: "box"}}}

	resp, err := NewSSHConfigService(cfg, ws, zap.NewNop()).Sync(context.Background(), primary.SSHConfigSyncRequest{DryRun: true})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Zero(t, ws.writes)
}

func TestSSHConfigService_UnterminatedBlock(t *testing.T) {
	ws := newMockWorkspace()
	ws.files["/c"] = []byte(sshconfig.BeginMarker + "\nHost old\n")
	cfg := config.SSHConfig{ConfigPath: "/c"}

	_, err := NewSSHConfigService(cfg, ws, zap.NewNop()).Sync(context.Background(), primary.SSHConfigSyncRequest{})

	assert.ErrorIs(t, err, sshconfig.ErrUnterminatedBlock)
	assert.Zero(t, ws.writes)
}

func TestIdentityService_Apply(t *testing.T) {
	git := &mockGit{}
	svc := NewIdentityService(config.GitConfig{Profiles: map[string]config.GitProfile{
		"work": {Name: "Jo Dev", Email: "jo@work.example", IdentityFile: "~/.ssh/id_work"},
		"home": {Name: "Jo", Email: "jo@home.example"},
	}}, git)
	ctx := context.Background()

	resp, err := svc.Apply(ctx, primary.IdentityRequest{Profile: "work"})
	require.NoError(t, err)
	assert.Equal(t, ".", resp.RepoPath)
	assert.Equal(t, "ssh -i ~/.ssh/id_work -o IdentitiesOnly=yes", git.identity.SSHCommand)

	_, err = svc.Apply(ctx, primary.IdentityRequest{Profile: "home"})
	require.NoError(t, err)
	assert.Empty(t, git.identity.SSHCommand)
	assert.Equal(t, "jo@home.example", git.identity.Email)

	shown, err := svc.Show(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Jo", shown.Name)
}

func TestIdentityService_UnknownProfile(t *testing.T) {
	git := &mockGit{}
	svc := NewIdentityService(config.GitConfig{Profiles: map[string]config.GitProfile{
		"work": {Name: "a", Email: "b"},
		"oss":  {Name: "a", Email: "b"},
	}}, git)

	_, err := svc.Apply(context.Background(), primary.IdentityRequest{Profile: "home"})

	assert.ErrorContains(t, err, "available: oss, work")
	assert.Zero(t, git.setCalls)
}

func TestSSHCommandFor_QuotesPaths(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"~/.ssh/id_work", "ssh -i ~/.ssh/id_work -o IdentitiesOnly=yes"},
		{"/home/jo/My Keys/id_work", "ssh -i '/home/jo/My Keys/id_work' -o IdentitiesOnly=yes"},
		{"~/My Keys/id_work", "ssh -i ~/'My Keys/id_work' -o IdentitiesOnly=yes"},
		{"/keys/jo's key", `ssh -i '/keys/jo'\''s key' -o IdentitiesOnly=yes`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SSHCommandFor(tt.path))
		})
	}
}
