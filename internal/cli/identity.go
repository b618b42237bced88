package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/wire"
)

// GitIdentityCmd returns the git-identity command
func GitIdentityCmd() *cobra.Command {
	var (
		repo string
		show bool
	)

	cmd := &cobra.Command{
		Use:   "git-identity [profile]",
		Short: "Apply a git identity profile to a repository",
		Long: `Set user.name, user.email and core.sshCommand in the local config of a
repository from a profile under git.profiles.

Examples:
  devkit git-identity work
  devkit git-identity personal --repo ~/src/blog
  devkit git-identity --show`,
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if show {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 1 {
				return errors.New("requires a profile name (or --show)")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := wire.IdentityService()

			var (
				resp *primary.IdentityResponse
				err  error
			)
			if show {
				resp, err = svc.Show(cmd.Context(), repo)
			} else {
				resp, err = svc.Apply(cmd.Context(), primary.IdentityRequest{Profile: args[0], RepoPath: repo})
			}
			if err != nil {
				return err
			}

			displayIdentity(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "Repository to configure")
	cmd.Flags().BoolVar(&show, "show", false, "Show the current identity")

	return cmd
}

func displayIdentity(out io.Writer, resp *primary.IdentityResponse) {
	fmt.Fprintf(out, "Repository: %s\n", resp.RepoPath)
	fmt.Fprintf(out, "  user.name:       %s\n", orUnset(resp.Name))
	fmt.Fprintf(out, "  user.email:      %s\n", orUnset(resp.Email))
	fmt.Fprintf(out, "  core.sshCommand: %s\n", orUnset(resp.SSHCommand))
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
