package primary

import "context"

// SSHConfigService defines the primary port for the managed ssh client config block.
type SSHConfigService interface {
	// Sync rewrites the managed block from configuration. It is idempotent.
	Sync(ctx context.Context, req SSHConfigSyncRequest) (*SSHConfigSyncResponse, error)
}

// SSHConfigSyncRequest contains parameters for ssh-config sync.
type SSHConfigSyncRequest struct {
	DryRun bool
}

// SSHConfigSyncResponse describes the result of a sync.
type SSHConfigSyncResponse struct {
	Path    string
	Hosts   int
	Changed bool
	Content string
}

// IdentityService defines the primary port for git identity management.
type IdentityService interface {
	// Apply writes the named profile into the repository's local config.
	Apply(ctx context.Context, req IdentityRequest) (*IdentityResponse, error)

	// Show returns the identity currently configured in the repository.
	Show(ctx context.Context, repoPath string) (*IdentityResponse, error)
}

// IdentityRequest contains parameters for git-identity.
type IdentityRequest struct {
	Profile  string
	RepoPath string
}

// IdentityResponse reports identity keys of a repository.
type IdentityResponse struct {
	RepoPath   string
	Name       string
	Email      string
	SSHCommand string
}
