package secondary

import "context"

// GitIdentity is the set of local repository keys devkit manages.
type GitIdentity struct {
	Name       string // user.name
	Email      string // user.email
	SSHCommand string // core.sshCommand
}

// GitConfigAdapter defines the secondary port for local git repository state.
type GitConfigAdapter interface {
	// Identity reads the identity keys from the repository's local config.
	Identity(ctx context.Context, repoPath string) (*GitIdentity, error)

	// SetIdentity writes the identity keys; empty fields are removed.
	SetIdentity(ctx context.Context, repoPath string, identity GitIdentity) error

	// CurrentBranch returns the short name of the checked out branch.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)

	// RemoteURL returns the first URL of the named remote.
	RemoteURL(ctx context.Context, repoPath, remote string) (string, error)
}
