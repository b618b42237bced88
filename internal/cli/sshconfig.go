package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/wire"
)

// SSHConfigCmd returns the ssh-config command
func SSHConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh-config",
		Short: "Manage the devkit block in the ssh client config",
	}

	cmd.AddCommand(sshConfigSyncCmd())

	return cmd
}

func sshConfigSyncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rewrite the managed Host block from ssh.hosts",
		Long: `Render ssh.hosts from the devkit config into a marked block of
~/.ssh/config (or ssh.config_path). Anything outside the markers is left
alone. The file is only written when the content changes.

Examples:
  devkit ssh-config sync
  devkit ssh-config sync --dry-run`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.SSHConfigService().Sync(cmd.Context(), primary.SSHConfigSyncRequest{DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case dryRun:
				fmt.Fprint(out, resp.Content)
			case resp.Changed:
				fmt.Fprintf(out, "Updated %s (%d hosts)\n", resp.Path, resp.Hosts)
			default:
				fmt.Fprintf(out, "%s is up to date\n", resp.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resulting file instead of writing it")

	return cmd
}
