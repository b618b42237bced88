// Package gitconfig reads and writes local repository state with go-git.
package gitconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/example/devkit/internal/ports/secondary"
)

const (
	userSection   = "user"
	coreSection   = "core"
	sshCommandKey = "sshCommand"
	nameKey       = "name"
	emailKey      = "email"
	defaultRemote = "origin"
)

// Adapter implements secondary.GitConfigAdapter.
type Adapter struct{}

// NewAdapter creates a new git config adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Identity reads user.name, user.email and core.sshCommand from the local config.
func (a *Adapter) Identity(ctx context.Context, repoPath string) (*secondary.GitIdentity, error) {
	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}
	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read git config: %w", err)
	}
	return &secondary.GitIdentity{
		Name:       cfg.User.Name,
		Email:      cfg.User.Email,
		SSHCommand: cfg.Raw.Section(coreSection).Option(sshCommandKey),
	}, nil
}

// SetIdentity writes the identity keys to the local config. Empty fields are removed.
func (a *Adapter) SetIdentity(ctx context.Context, repoPath string, identity secondary.GitIdentity) error {
	repo, err := open(repoPath)
	if err != nil {
		return err
	}
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}

	user := cfg.Raw.Section(userSection)
	cfg.User.Name = identity.Name
	cfg.User.Email = identity.Email
	if identity.Name == "" {
		user.RemoveOption(nameKey)
	}
	if identity.Email == "" {
		user.RemoveOption(emailKey)
	}

	core := cfg.Raw.Section(coreSection)
	if identity.SSHCommand == "" {
		core.RemoveOption(sshCommandKey)
	} else {
		core.SetOption(sshCommandKey, identity.SSHCommand)
	}

	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to write git config: %w", err)
	}
	return nil
}

// CurrentBranch returns the short name of the checked out branch.
func (a *Adapter) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}

// RemoteURL returns the first URL of the named remote (origin when empty).
func (a *Adapter) RemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	if remote == "" {
		remote = defaultRemote
	}
	repo, err := open(repoPath)
	if err != nil {
		return "", err
	}
	r, err := repo.Remote(remote)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", fmt.Errorf("remote %s not found", remote)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", remote, err)
	}
	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

func open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", repoPath, err)
	}
	return repo, nil
}

var _ secondary.GitConfigAdapter = (*Adapter)(nil)
