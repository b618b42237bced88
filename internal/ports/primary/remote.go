package primary

import "context"

// RemoteService defines the primary port for remote bootstrap and file transfer.
type RemoteService interface {
	// Prepare clones or fast-forwards the dotfiles repository on a remote host.
	Prepare(ctx context.Context, req RemotePrepareRequest) (*RemotePrepareResponse, error)

	// Transfer copies local files to a remote directory, skipping ones already present.
	Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error)
}

// RemotePrepareRequest contains parameters for remote-prepare.
type RemotePrepareRequest struct {
	Destination string // [user@]host
	Port        int    // 0 resolves from ssh config, then 22
	Branch      string // empty uses the current local branch
	Target      string // empty uses the configured default
	RepoPath    string // local repository used for defaults
	NoInstall   bool   // skip the repository's installer
	DryRun      bool
}

// RemotePrepareResponse describes what remote-prepare did or would do.
type RemotePrepareResponse struct {
	Destination string
	Port        int
	Branch      string
	Target      string
	RepoURL     string
	Script      string
	Command     string // equivalent ssh invocation
	DryRun      bool
	Output      string
}

// TransferRequest contains parameters for ssh-transfer.
type TransferRequest struct {
	Destination string // [user@]host:remote_dir
	Port        int
	Patterns    []string
	Force       bool
	DryRun      bool
}

// TransferAction is what happened to a single file.
type TransferAction string

const (
	TransferCopied  TransferAction = "copied"
	TransferSkipped TransferAction = "skipped"
	TransferPending TransferAction = "pending" // dry run
	TransferFailed  TransferAction = "failed"
)

// TransferFile is the outcome for a single local file.
type TransferFile struct {
	LocalPath  string
	RemotePath string
	Action     TransferAction
	Err        error
}

// TransferResponse lists the outcome per file.
type TransferResponse struct {
	Files []TransferFile
}

// Count returns how many files ended with action.
func (r *TransferResponse) Count(action TransferAction) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == action {
			n++
		}
	}
	return n
}
