package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/wire"
)

// ContainerCmd returns the container command
func ContainerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Inspect running containers",
	}

	cmd.AddCommand(containerMatchCmd())

	return cmd
}

func containerMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <regex>",
		Short: "List running containers whose name matches a regular expression",
		Long: `List running containers whose name matches a regular expression,
the same way nuke.container is resolved.

Examples:
  devkit container match 'app'
  devkit container match '^shop-(web|worker)-\d+$'`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			containers, err := wire.Containers()
			if err != nil {
				return err
			}

			names, err := containers.ListMatching(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("no running container matches %q", args[0])}
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
