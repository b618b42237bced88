package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/logging"
	"github.com/example/devkit/internal/version"
	"github.com/example/devkit/internal/wire"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitNotRunning = 3
	ExitBlocked    = 4
	ExitUnknown    = 5
	ExitDisabled   = 99
)

// ExitError carries a process exit code out of a command.
// A nil Err means the command already reported the problem.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// usageArgs turns positional argument errors into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// closeResources releases what wire opened; replaced in tests.
var closeResources = wire.Close

// Execute runs the root command with args and returns the process exit code.
// Resources are released on every path, including failing commands.
func Execute(args []string, stderr io.Writer) int {
	defer closeResources()

	root := RootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, err)
	return ExitFailure
}

// RootCmd returns the devkit root command with every subcommand attached.
func RootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:     "devkit",
		Short:   "Personal shell environment toolkit",
		Version: version.String(),
		Long: `devkit bundles the workflows of a personal shell environment:
client cleanup inside the application container, remote bootstrap
and file transfer over ssh, the managed ssh config block and git identities.

Configuration is read from ~/.config/devkit/config.yaml (or --config)
and DEVKIT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(verbose)
			if err != nil {
				return err
			}
			wire.Configure(cfg, logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(fmt.Errorf("%w\nRun '%s --help' for usage", err, c.CommandPath()))
	})

	cmd.AddCommand(NukeCmd())
	cmd.AddCommand(RemotePrepareCmd())
	cmd.AddCommand(SSHTransferCmd())
	cmd.AddCommand(SSHConfigCmd())
	cmd.AddCommand(GitIdentityCmd())
	cmd.AddCommand(ContainerCmd())
	cmd.AddCommand(DoctorCmd())

	return cmd
}
