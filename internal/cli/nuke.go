package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/nuke"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/wire"
)

// NukeCmd returns the nuke command
func NukeCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "nuke [client]",
		Short: "Permanently delete everything belonging to one client",
		Long: `Remove a client's databases, settings rows, owner rows and data folder.

Candidates are discovered from the data folder inside the application
container and from the config database. Protected names never appear.
Without an argument a client is picked interactively (fzf when available).
Nothing is deleted until you answer "yes" and then type the client name.

Requires DEVKIT_NUKE_ENABLED=1.

Exit codes:
  0   success, safe abort, no selection, verify mode
  1   name mismatch at confirmation, or a step failed
  2   usage error
  3   container not running
  4   client is protected by the blocklist
  5   client not among the discovered clients
  99  nuke is not enabled

Examples:
  devkit nuke --verify acme   # analyze only
  devkit nuke acme
  devkit nuke                 # pick interactively`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := primary.NukeRequest{Verify: verify}
			if len(args) == 1 {
				req.Client = args[0]
			}

			// refuse before docker or the database are touched
			enabled := nuke.CheckEnabled(nuke.StartContext{
				Enabled:        wire.Config().Nuke.Enabled,
				EnableVariable: config.NukeEnableVariable,
			})
			if !enabled.Allowed {
				return &ExitError{Code: ExitDisabled, Err: enabled.Error()}
			}

			adapter, err := wire.NukeAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			outcome, err := adapter.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return nukeResult(outcome)
		},
	}

	cmd.Flags().BoolVarP(&verify, "verify", "v", false, "Analyze and show the plan without changing anything")

	return cmd
}

// nukeResult maps a terminal outcome to the command's exit status.
func nukeResult(o *primary.NukeOutcome) error {
	code := nukeExitCode(o)
	if code == ExitOK {
		return nil
	}
	if o.Status == primary.NukeCompleted || o.Reason == "" {
		// the adapter already rendered the failed steps
		return &ExitError{Code: code}
	}
	return &ExitError{Code: code, Err: errors.New(o.Reason)}
}

func nukeExitCode(o *primary.NukeOutcome) int {
	switch o.Status {
	case primary.NukeDisabled:
		return ExitDisabled
	case primary.NukeNotRunning:
		return ExitNotRunning
	case primary.NukeBlocked:
		return ExitBlocked
	case primary.NukeUnknown:
		return ExitUnknown
	case primary.NukeMismatch:
		return ExitFailure
	case primary.NukeCompleted:
		if o.Report != nil && o.Report.Failed() > 0 {
			return ExitFailure
		}
		return ExitOK
	default:
		return ExitOK
	}
}
