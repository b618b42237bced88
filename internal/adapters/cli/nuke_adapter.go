package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/devkit/internal/core/nuke"
	"github.com/example/devkit/internal/ports/primary"
)

// NukeAdapter is a thin adapter that translates the nuke command to NukeService
// calls and renders the analysis, plan and execution report.
type NukeAdapter struct {
	service primary.NukeService
	out     io.Writer
}

// NewNukeAdapter creates a new NukeAdapter.
func NewNukeAdapter(service primary.NukeService, out io.Writer) *NukeAdapter {
	return &NukeAdapter{service: service, out: out}
}

// Run executes the workflow and renders every stage as it happens.
func (a *NukeAdapter) Run(ctx context.Context, req primary.NukeRequest) (*primary.NukeOutcome, error) {
	outcome, err := a.service.Run(ctx, req, a.renderPreparation)
	if err != nil {
		return nil, err
	}
	a.renderOutcome(outcome)
	return outcome, nil
}

func (a *NukeAdapter) renderPreparation(prep *primary.NukePreparation) {
	for _, w := range prep.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("warning:"), w)
	}

	an := prep.Analysis
	fmt.Fprintf(a.out, "Client: %s (container %s)\n", color.New(color.Bold).Sprint(an.Client), prep.Container)
	fmt.Fprintf(a.out, "  %s folder    %s\n", presence(an.FolderPresent), an.FolderPath)
	if an.SettingsChecked {
		fmt.Fprintf(a.out, "  %s settings\n", presence(an.SettingsPresent))
	} else {
		fmt.Fprintf(a.out, "  %s settings  (column not found)\n", color.New(color.FgYellow).Sprint("SKIPPED"))
	}
	if an.OwnerPresent {
		related := "none"
		if len(an.RelatedTables) > 0 {
			related = strings.Join(an.RelatedTables, ", ")
		}
		fmt.Fprintf(a.out, "  %s owner     id=%s (related tables: %s)\n", presence(true), an.OwnerID, related)
	} else {
		fmt.Fprintf(a.out, "  %s owner\n", presence(false))
	}
	if len(an.Databases) > 0 {
		fmt.Fprintf(a.out, "  %s databases %s\n", presence(true), strings.Join(an.Databases, ", "))
	} else {
		fmt.Fprintf(a.out, "  %s databases none\n", presence(false))
	}

	if prep.Plan.Empty() {
		return
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Plan:")
	for i, eff := range prep.Plan.Effects {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, eff.Describe())
	}
	fmt.Fprintln(a.out)
}

func (a *NukeAdapter) renderOutcome(o *primary.NukeOutcome) {
	switch o.Status {
	case primary.NukeVerified:
		fmt.Fprintln(a.out, summarize(o.Preparation.Analysis))
		fmt.Fprintln(a.out, "Verify mode: nothing was changed.")
	case primary.NukeCompleted:
		for _, step := range o.Report.Steps {
			if step.OK() {
				fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), step.Effect.Describe())
			} else {
				fmt.Fprintf(a.out, "%s %s: %v\n", color.New(color.FgRed).Sprint("✗"), step.Effect.Describe(), step.Err)
			}
		}
		if failed := o.Report.Failed(); failed > 0 {
			fmt.Fprintf(a.out, "%s: %d of %d steps failed\n",
				color.New(color.FgYellow).Sprint("Partially cleaned up "+o.Client), failed, len(o.Report.Steps))
		} else {
			fmt.Fprintf(a.out, "Cleaned up %s.\n", o.Client)
		}
	case primary.NukeNoCandidates, primary.NukeNoSelection, primary.NukeNothingToDo, primary.NukeAborted:
		fmt.Fprintln(a.out, o.Reason)
	}
}

// presence returns a color-formatted presence marker.
func presence(present bool) string {
	if present {
		return color.New(color.FgGreen).Sprint("PRESENT")
	}
	return color.New(color.FgRed).Sprint("ABSENT ")
}

// summarize renders an analysis on one line.
func summarize(a nuke.Analysis) string {
	state := func(b bool) string {
		if b {
			return "present"
		}
		return "absent"
	}
	dbs := "none"
	if len(a.Databases) > 0 {
		dbs = strings.Join(a.Databases, ",")
	}
	return fmt.Sprintf("folder=%s settings=%s owner=%s databases=%s",
		state(a.FolderPresent), state(a.SettingsPresent), state(a.OwnerPresent), dbs)
}
