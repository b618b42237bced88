package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/wire"
)

// RemotePrepareCmd returns the remote-prepare command
func RemotePrepareCmd() *cobra.Command {
	var (
		dryRun    bool
		noInstall bool
		port      int
		branch    string
		target    string
		repo      string
	)

	cmd := &cobra.Command{
		Use:   "remote-prepare [user@]host",
		Short: "Clone or update the dotfiles repository on a remote host",
		Long: `Stream a bootstrap script over ssh that clones the dotfiles repository
into the target directory, or fast-forwards it when already present, and
runs its installer (unless --no-install). Running it twice leaves the host
unchanged.

Defaults:
  --port    Port from ~/.ssh/config for the host, else 22
  --branch  current branch of the local repository
  --target  remote.target from config (~/.dotfiles)

Examples:
  devkit remote-prepare dev@build-01
  devkit remote-prepare --dry-run --branch main build-01`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.RemoteService().Prepare(cmd.Context(), primary.RemotePrepareRequest{
				Destination: args[0],
				Port:        port,
				Branch:      branch,
				Target:      target,
				RepoPath:    repo,
				NoInstall:   noInstall,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			displayPrepare(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the script and ssh command without running them")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "SSH port")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to check out")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Remote directory for the repository")
	cmd.Flags().StringVar(&repo, "repo", ".", "Local repository used for defaults")
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "Only clone or update, do not run the installer")

	return cmd
}

func displayPrepare(out io.Writer, resp *primary.RemotePrepareResponse) {
	if resp.DryRun {
		fmt.Fprintf(out, "# %s\n", resp.Command)
		fmt.Fprint(out, resp.Script)
		return
	}
	if resp.Output != "" {
		fmt.Fprint(out, resp.Output)
	}
	fmt.Fprintf(out, "%s %s:%s on %s\n", color.New(color.FgGreen).Sprint("✓"), resp.Destination, resp.Target, resp.Branch)
}

// SSHTransferCmd returns the ssh-transfer command
func SSHTransferCmd() *cobra.Command {
	var (
		port   int
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "ssh-transfer [user@]host:remote_dir pattern...",
		Short: "Copy local files to a remote directory, skipping ones already there",
		Long: `Expand local glob patterns (** supported) and copy each file with scp.
A file is skipped when the remote copy already has the same size,
so an interrupted transfer can simply be run again.

Examples:
  devkit ssh-transfer build-01:/srv/dumps '*.sql.gz'
  devkit ssh-transfer --force dev@build-01:~/in 'reports/**/*.csv'`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.RemoteService().Transfer(cmd.Context(), primary.TransferRequest{
				Destination: args[0],
				Port:        port,
				Patterns:    args[1:],
				Force:       force,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			displayTransfer(cmd.OutOrStdout(), resp)
			if resp.Count(primary.TransferFailed) > 0 {
				return &ExitError{Code: ExitFailure}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "SSH port")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Copy even when the remote size matches")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be copied")

	return cmd
}

func displayTransfer(out io.Writer, resp *primary.TransferResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range resp.Files {
		line := fmt.Sprintf("%s\t%s\t%s", transferActionColor(f.Action), f.LocalPath, f.RemotePath)
		if f.Err != nil {
			line += fmt.Sprintf("\t%v", f.Err)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d copied, %d skipped, %d failed",
		resp.Count(primary.TransferCopied), resp.Count(primary.TransferSkipped), resp.Count(primary.TransferFailed))
	if pending := resp.Count(primary.TransferPending); pending > 0 {
		fmt.Fprintf(out, ", %d to copy (dry run)", pending)
	}
	fmt.Fprintln(out)
}

// transferActionColor returns a color-formatted action label
func transferActionColor(action primary.TransferAction) string {
	switch action {
	case primary.TransferCopied:
		return color.New(color.FgGreen).Sprint(string(action))
	case primary.TransferSkipped:
		return color.New(color.FgHiBlack).Sprint(string(action))
	case primary.TransferPending:
		return color.New(color.FgYellow).Sprint(string(action))
	case primary.TransferFailed:
		return color.New(color.FgRed).Sprint(string(action))
	default:
		return string(action)
	}
}

