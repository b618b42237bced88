package nuke

import (
	"fmt"
	"slices"
)

// Violation classifies why a guard refused. The CLI maps each to an exit code.
type Violation string

const (
	ViolationNone       Violation = ""
	ViolationDisabled   Violation = "disabled"
	ViolationNotRunning Violation = "not_running"
	ViolationBlocked    Violation = "blocked"
	ViolationUnknown    Violation = "unknown"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed   bool
	Reason    string
	Violation Violation
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// StartContext provides context for the preconditions checked before discovery.
type StartContext struct {
	Enabled          bool
	EnableVariable   string
	Container        string
	ContainerRunning bool
}

// TargetContext provides context for validating a chosen client.
type TargetContext struct {
	Client     string
	Candidates []string
}

// CanStart evaluates whether the workflow may run at all.
// Rules:
// - The opt-in variable must be set
// - The backing container must be running
func CanStart(ctx StartContext) GuardResult {
	if enabled := CheckEnabled(ctx); !enabled.Allowed {
		return enabled
	}

	if !ctx.ContainerRunning {
		return GuardResult{
			Allowed:   false,
			Reason:    fmt.Sprintf("container %q is not running", ctx.Container),
			Violation: ViolationNotRunning,
		}
	}

	return GuardResult{Allowed: true}
}

// CheckEnabled evaluates only the opt-in rule. It needs no running container,
// so it can refuse before any connection is made.
func CheckEnabled(ctx StartContext) GuardResult {
	if !ctx.Enabled {
		return GuardResult{
			Allowed:   false,
			Reason:    fmt.Sprintf("nuke is disabled - set %s=1 to enable it", ctx.EnableVariable),
			Violation: ViolationDisabled,
		}
	}
	return GuardResult{Allowed: true}
}

// CanTarget evaluates whether a client may be analyzed and cleaned up.
// Rules:
// - Blocked names are refused, even if they somehow reached the candidate list
// - The client must be one of the discovered candidates
func CanTarget(ctx TargetContext) GuardResult {
	if IsBlocked(ctx.Client) {
		return GuardResult{
			Allowed:   false,
			Reason:    fmt.Sprintf("client %q is protected by the blocklist", ctx.Client),
			Violation: ViolationBlocked,
		}
	}

	if !slices.Contains(ctx.Candidates, ctx.Client) {
		return GuardResult{
			Allowed:   false,
			Reason:    fmt.Sprintf("client %q is not among the discovered clients", ctx.Client),
			Violation: ViolationUnknown,
		}
	}

	return GuardResult{Allowed: true}
}
