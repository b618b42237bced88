package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/sshconfig"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)

// SSHConfigServiceImpl implements primary.SSHConfigService.
type SSHConfigServiceImpl struct {
	cfg       config.SSHConfig
	workspace secondary.WorkspaceAdapter
	logger    *zap.Logger
}

// NewSSHConfigService creates a new SSHConfigService.
func NewSSHConfigService(cfg config.SSHConfig, workspace secondary.WorkspaceAdapter, logger *zap.Logger) *SSHConfigServiceImpl {
	return &SSHConfigServiceImpl{cfg: cfg, workspace: workspace, logger: logger}
}

// Sync rewrites the managed block. The file is only written when it changes.
func (s *SSHConfigServiceImpl) Sync(ctx context.Context, req primary.SSHConfigSyncRequest) (*primary.SSHConfigSyncResponse, error) {
	hosts := make([]sshconfig.Host, 0, len(s.cfg.Hosts))
	for _, h := range s.cfg.Hosts {
		hosts = append(hosts, sshconfig.Host{
			Alias:        h.Alias,
			HostName:     h.HostName,
			User:         h.User,
			Port:         h.Port,
			IdentityFile: h.IdentityFile,
		})
	}

	block, err := sshconfig.RenderBlock(hosts)
	if err != nil {
		return nil, err
	}

	existing, _, err := s.workspace.ReadFile(ctx, s.cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	updated, err := sshconfig.Splice(string(existing), block)
	if err != nil {
		return nil, err
	}
	if err := sshconfig.Validate(updated); err != nil {
		return nil, err
	}

	resp := &primary.SSHConfigSyncResponse{
		Path:    s.cfg.ConfigPath,
		Hosts:   len(hosts),
		Changed: updated != string(existing),
		Content: updated,
	}
	if !resp.Changed || req.DryRun {
		return resp, nil
	}

	if err := s.workspace.WriteFile(ctx, s.cfg.ConfigPath, []byte(updated), 0600); err != nil {
		return nil, err
	}
	s.logger.Info("ssh config updated", zap.String("path", s.cfg.ConfigPath), zap.Int("hosts", len(hosts)))
	return resp, nil
}

var _ primary.SSHConfigService = (*SSHConfigServiceImpl)(nil)
