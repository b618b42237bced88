package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/remote"
	"github.com/example/devkit/internal/core/sshconfig"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)

// DefaultSSHPort is used when neither a flag nor the ssh config names a port.
const DefaultSSHPort = 22

// RemoteServiceImpl implements primary.RemoteService.
type RemoteServiceImpl struct {
	cfg       *config.Config
	runner    secondary.RemoteRunner
	git       secondary.GitConfigAdapter
	workspace secondary.WorkspaceAdapter
	logger    *zap.Logger
}

// NewRemoteService creates a new RemoteService.
func NewRemoteService(
	cfg *config.Config,
	runner secondary.RemoteRunner,
	git secondary.GitConfigAdapter,
	workspace secondary.WorkspaceAdapter,
	logger *zap.Logger,
) *RemoteServiceImpl {
	return &RemoteServiceImpl{cfg: cfg, runner: runner, git: git, workspace: workspace, logger: logger}
}

// Prepare renders the bootstrap script and, unless DryRun, streams it to the host.
func (s *RemoteServiceImpl) Prepare(ctx context.Context, req primary.RemotePrepareRequest) (*primary.RemotePrepareResponse, error) {
	dest, err := remote.ParseDestination(req.Destination)
	if err != nil {
		return nil, err
	}

	port, err := s.resolvePort(ctx, dest.Host, req.Port)
	if err != nil {
		return nil, err
	}

	branch := req.Branch
	if branch == "" {
		branch, err = s.git.CurrentBranch(ctx, repoPathOrDot(req.RepoPath))
		if err != nil {
			return nil, fmt.Errorf("cannot default --branch: %w", err)
		}
	}

	repoURL := s.cfg.Remote.RepoURL
	if repoURL == "" {
		repoURL, err = s.git.RemoteURL(ctx, repoPathOrDot(req.RepoPath), "origin")
		if err != nil {
			return nil, fmt.Errorf("cannot determine repository URL (set remote.repo_url): %w", err)
		}
	}

	target := req.Target
	if target == "" {
		target = s.cfg.Remote.Target
	}

	params := remote.BootstrapParams{RepoURL: repoURL, Branch: branch, Target: target, NoInstall: req.NoInstall}
	script, err := remote.RenderBootstrap(params)
	if err != nil {
		return nil, err
	}

	resp := &primary.RemotePrepareResponse{
		Destination: dest.Login(),
		Port:        port,
		Branch:      branch,
		Target:      target,
		RepoURL:     repoURL,
		Script:      script,
		Command:     sshCommandLine(dest.Login(), port, params.Args()),
		DryRun:      req.DryRun,
	}
	if req.DryRun {
		return resp, nil
	}

	s.logger.Debug("running bootstrap", zap.String("dest", dest.Login()), zap.Int("port", port), zap.String("branch", branch))
	res, err := s.runner.ExecScript(ctx, toSecondary(dest, port), script, params.Args()...)
	if res != nil {
		resp.Output = res.Stdout
	}
	if err != nil {
		return resp, fmt.Errorf("remote bootstrap failed: %w", err)
	}
	return resp, nil
}

// Transfer copies matched local files into a remote directory. Files whose
// remote copy already has the same size are skipped unless Force is set.
func (s *RemoteServiceImpl) Transfer(ctx context.Context, req primary.TransferRequest) (*primary.TransferResponse, error) {
	target, err := remote.ParseTransferTarget(req.Destination)
	if err != nil {
		return nil, err
	}
	if len(req.Patterns) == 0 {
		return nil, fmt.Errorf("no files given")
	}

	port, err := s.resolvePort(ctx, target.Host, req.Port)
	if err != nil {
		return nil, err
	}
	dest := toSecondary(target, port)

	// 1. Expand local patterns
	var files []remote.LocalFile
	seen := make(map[string]bool)
	for _, pattern := range req.Patterns {
		matches, err := s.workspace.Glob(ctx, pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if seen[m.Path] {
				continue
			}
			seen[m.Path] = true
			files = append(files, remote.LocalFile{Path: m.Path, Size: m.Size})
		}
	}

	remotePaths, err := remote.RemotePaths(target.Path, files)
	if err != nil {
		return nil, err
	}

	// 2. One remote call for every existing size
	sizes := map[string]int64{}
	if !req.Force {
		res, err := s.runner.ExecScript(ctx, dest, remote.SizeScript, remotePaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to query remote sizes: %w", err)
		}
		sizes = remote.ParseSizes(res.Stdout, remotePaths)
	}

	// 3. Copy, best-effort per file
	resp := &primary.TransferResponse{}
	for _, step := range remote.PlanTransfer(files, remotePaths, sizes, req.Force) {
		file := primary.TransferFile{LocalPath: step.LocalPath, RemotePath: step.RemotePath}
		switch {
		case !step.Copy:
			file.Action = primary.TransferSkipped
		case req.DryRun:
			file.Action = primary.TransferPending
		default:
			if err := s.runner.Copy(ctx, dest, step.LocalPath, step.RemotePath); err != nil {
				s.logger.Warn("copy failed, continuing", zap.String("file", step.LocalPath), zap.Error(err))
				file.Action = primary.TransferFailed
				file.Err = err
			} else {
				file.Action = primary.TransferCopied
			}
		}
		resp.Files = append(resp.Files, file)
	}
	return resp, nil
}

// resolvePort prefers the explicit port, then the ssh config entry for host.
func (s *RemoteServiceImpl) resolvePort(ctx context.Context, host string, explicit int) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	if s.cfg.SSH.ConfigPath == "" {
		return DefaultSSHPort, nil
	}
	data, exists, err := s.workspace.ReadFile(ctx, s.cfg.SSH.ConfigPath)
	if err != nil {
		return 0, err
	}
	if !exists {
		return DefaultSSHPort, nil
	}
	port, ok, err := sshconfig.LookupPort(data, host)
	if err != nil {
		s.logger.Warn("ignoring unreadable ssh config", zap.String("path", s.cfg.SSH.ConfigPath), zap.Error(err))
		return DefaultSSHPort, nil
	}
	if !ok {
		return DefaultSSHPort, nil
	}
	return port, nil
}

func toSecondary(d remote.Destination, port int) secondary.Destination {
	return secondary.Destination{User: d.User, Host: d.Host, Port: port}
}

func repoPathOrDot(p string) string {
	if p == "" {
		return "."
	}
	return p
}

// sshCommandLine is the shell equivalent of the ExecScript call, for --dry-run.
func sshCommandLine(login string, port int, args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return fmt.Sprintf("ssh -p %d %s bash -s -- %s < bootstrap.sh", port, login, strings.Join(quoted, " "))
}

var _ primary.RemoteService = (*RemoteServiceImpl)(nil)
