package primary

import (
	"context"

	"github.com/example/devkit/internal/core/effects"
	"github.com/example/devkit/internal/core/nuke"
)

// NukeService defines the primary port for the client cleanup workflow.
type NukeService interface {
	// Run drives the whole workflow: preconditions, discovery, selection,
	// validation, analysis, confirmation and execution. onAnalysis is called
	// with the prepared analysis before any confirmation is asked.
	Run(ctx context.Context, req NukeRequest, onAnalysis func(*NukePreparation)) (*NukeOutcome, error)
}

// NukeRequest contains parameters for one nuke invocation.
type NukeRequest struct {
	Client string // empty means pick interactively
	Verify bool   // analyze only, never execute
}

// NukeStatus is the terminal state of a nuke invocation.
type NukeStatus string

const (
	NukeDisabled     NukeStatus = "disabled"
	NukeNotRunning   NukeStatus = "not_running"
	NukeNoCandidates NukeStatus = "no_candidates"
	NukeNoSelection  NukeStatus = "no_selection"
	NukeBlocked      NukeStatus = "blocked"
	NukeUnknown      NukeStatus = "unknown"
	NukeVerified     NukeStatus = "verified"
	NukeNothingToDo  NukeStatus = "nothing_to_do"
	NukeAborted      NukeStatus = "aborted"
	NukeMismatch     NukeStatus = "mismatch"
	NukeCompleted    NukeStatus = "completed"
)

// NukePreparation is everything known about the target before confirmation.
type NukePreparation struct {
	Container  string
	Candidates []string
	Warnings   []string
	Analysis   nuke.Analysis
	Plan       nuke.Plan
}

// NukeOutcome describes how a nuke invocation ended.
type NukeOutcome struct {
	Status      NukeStatus
	Reason      string
	Client      string
	Preparation *NukePreparation
	Report      *ExecutionReport
}

// StepResult is the outcome of one destructive step.
type StepResult struct {
	Effect effects.Effect
	Err    error
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Err == nil }

// ExecutionReport collects every step result of one execution.
type ExecutionReport struct {
	Steps []StepResult
}

// Failed returns the number of failed steps.
func (r *ExecutionReport) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}
