package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/process"
	"github.com/example/devkit/internal/version"
	"github.com/example/devkit/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// doctorEnv holds what the checks probe, so tests can substitute it.
type doctorEnv struct {
	lookPath func(name string) (string, error)
	ping     func(ctx context.Context) error
	cfg      *config.Config
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the devkit environment",
		Long: `Environment health check for devkit.

Validates:
- ssh, scp and git are on PATH (fzf is optional)
- the docker daemon is reachable
- nuke settings are complete

Examples:
  devkit doctor              # Run full health check
  devkit doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := doctorEnv{
				lookPath: process.NewDefaultManager().LookPath,
				ping: func(ctx context.Context) error {
					containers, err := wire.Containers()
					if err != nil {
						return err
					}
					return containers.Ping(ctx)
				},
				cfg: wire.Config(),
			}

			results := runChecks(cmd.Context(), env)
			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printChecks(cmd.OutOrStdout(), results, hasErrors)
			}
			if hasErrors {
				return &ExitError{Code: ExitFailure}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func runChecks(ctx context.Context, env doctorEnv) []CheckResult {
	results := []CheckResult{
		checkBinary(env, "ssh", true),
		checkBinary(env, "scp", true),
		checkBinary(env, "git", true),
		checkBinary(env, "fzf", false),
		checkDocker(ctx, env),
		checkNukeConfig(env),
	}
	return results
}

func printChecks(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	// Print details for non-passing checks
	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found.")
	} else {
		fmt.Fprintf(out, "All checks passed. (%s)\n", version.String())
	}
}

// checkBinary validates that an external tool is on PATH.
// Optional tools only warn.
func checkBinary(env doctorEnv, name string, required bool) CheckResult {
	if _, err := env.lookPath(name); err != nil {
		if !required {
			return CheckResult{
				Name:    name,
				Status:  "⚠",
				Details: fmt.Sprintf("  '%s' not found in PATH\n  A numbered prompt is used instead", name),
			}
		}
		return CheckResult{Name: name, Status: "✗", Details: fmt.Sprintf("  '%s' not found in PATH", name)}
	}
	return CheckResult{Name: name, Status: "✓"}
}

// checkDocker validates that the docker daemon answers.
func checkDocker(ctx context.Context, env doctorEnv) CheckResult {
	if err := env.ping(ctx); err != nil {
		return CheckResult{Name: "Docker", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Docker", Status: "✓"}
}

// checkNukeConfig validates the settings nuke needs. A disabled nuke only warns.
func checkNukeConfig(env doctorEnv) CheckResult {
	if env.cfg == nil {
		return CheckResult{Name: "Nuke Config", Status: "✗", Details: "  Configuration not loaded"}
	}
	if missing := env.cfg.Missing(); len(missing) > 0 {
		return CheckResult{
			Name:    "Nuke Config",
			Status:  "✗",
			Details: "  Missing: " + strings.Join(missing, ", "),
		}
	}
	if !env.cfg.Nuke.Enabled {
		return CheckResult{
			Name:    "Nuke Config",
			Status:  "⚠",
			Details: "  nuke is disabled\n  Set DEVKIT_NUKE_ENABLED=1 to enable it",
		}
	}
	return CheckResult{Name: "Nuke Config", Status: "✓"}
}
