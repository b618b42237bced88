package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)

// IdentityServiceImpl implements primary.IdentityService.
type IdentityServiceImpl struct {
	profiles map[string]config.GitProfile
	git      secondary.GitConfigAdapter
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(cfg config.GitConfig, git secondary.GitConfigAdapter) *IdentityServiceImpl {
	return &IdentityServiceImpl{profiles: cfg.Profiles, git: git}
}

// Apply writes the profile's name, email and ssh command into the repository.
func (s *IdentityServiceImpl) Apply(ctx context.Context, req primary.IdentityRequest) (*primary.IdentityResponse, error) {
	profile, ok := s.profiles[req.Profile]
	if !ok {
		return nil, fmt.Errorf("unknown git profile %q (available: %s)", req.Profile, s.profileNames())
	}
	if profile.Name == "" || profile.Email == "" {
		return nil, fmt.Errorf("git profile %q needs both name and email", req.Profile)
	}

	identity := secondary.GitIdentity{
		Name:       profile.Name,
		Email:      profile.Email,
		SSHCommand: SSHCommandFor(profile.IdentityFile),
	}
	repoPath := repoPathOrDot(req.RepoPath)
	if err := s.git.SetIdentity(ctx, repoPath, identity); err != nil {
		return nil, err
	}

	return &primary.IdentityResponse{
		RepoPath:   repoPath,
		Name:       identity.Name,
		Email:      identity.Email,
		SSHCommand: identity.SSHCommand,
	}, nil
}

// Show returns the identity currently set in the repository.
func (s *IdentityServiceImpl) Show(ctx context.Context, repoPath string) (*primary.IdentityResponse, error) {
	repoPath = repoPathOrDot(repoPath)
	identity, err := s.git.Identity(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	return &primary.IdentityResponse{
		RepoPath:   repoPath,
		Name:       identity.Name,
		Email:      identity.Email,
		SSHCommand: identity.SSHCommand,
	}, nil
}

// SSHCommandFor returns the core.sshCommand pinning a key, or "" without one.
// git runs the command through sh, so the path is quoted as one word.
func SSHCommandFor(identityFile string) string {
	if identityFile == "" {
		return ""
	}
	return fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes", shellWord(identityFile))
}

// shellWord quotes s for sh when it holds anything beyond a plain path.
// A leading ~/ stays outside the quotes so the shell still expands it.
func shellWord(s string) string {
	plain := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' || r == '/' || r == '~' || r == '+' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0
	if plain {
		return s
	}
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		return "~/" + shellWord(rest)
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (s *IdentityServiceImpl) profileNames() string {
	if len(s.profiles) == 0 {
		return "none configured"
	}
	names := make([]string, 0, len(s.profiles))
	for n := range s.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

var _ primary.IdentityService = (*IdentityServiceImpl)(nil)
