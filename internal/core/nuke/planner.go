package nuke

import (
	"path"

	"github.com/example/devkit/internal/core/effects"
)

// RelatedColumn is the column that marks a table as holding per-client rows.
const RelatedColumn = "client_id"

// Analysis describes what exists for one client across every data source.
// It is computed once per run and handed unchanged to the planner.
type Analysis struct {
	Client          string
	FolderPresent   bool
	FolderPath      string
	SettingsPresent bool
	SettingsChecked bool // false when the settings column does not exist
	OwnerPresent    bool
	OwnerID         string
	Databases       []string
	RelatedTables   []string
}

// Empty reports whether nothing at all was found for the client.
func (a Analysis) Empty() bool {
	return !a.FolderPresent && !a.SettingsPresent && !a.OwnerPresent && len(a.Databases) == 0
}

// PlanInput contains pre-fetched data for cleanup plan generation.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	Analysis       Analysis
	Container      string
	SettingsTable  string
	SettingsColumn string
	OwnerTable     string
	OwnerEnabled   bool // an owner link column is configured
}

// Plan is the ordered list of destructive steps for one client.
type Plan struct {
	Client  string
	Effects []effects.Effect
}

// Empty reports whether the plan has nothing to do.
func (p Plan) Empty() bool {
	return len(p.Effects) == 0
}

// GeneratePlan creates the cleanup plan.
// Order is fixed: databases, settings rows, related rows and owner row, folder.
// This is a pure function - all input data must be pre-fetched.
func GeneratePlan(input PlanInput) Plan {
	a := input.Analysis
	plan := Plan{Client: a.Client}

	// 1. Matched databases
	for _, db := range a.Databases {
		plan.Effects = append(plan.Effects, effects.DropDatabaseEffect{Database: db})
	}

	// 2. Settings rows
	if a.SettingsPresent {
		plan.Effects = append(plan.Effects, effects.DeleteSettingsEffect{
			Table:  input.SettingsTable,
			Column: input.SettingsColumn,
			Client: a.Client,
		})
	}

	// 3. Related rows, then the owning row
	if input.OwnerEnabled && a.OwnerPresent && a.OwnerID != "" {
		for _, table := range a.RelatedTables {
			if table == input.OwnerTable {
				continue
			}
			plan.Effects = append(plan.Effects, effects.DeleteRelatedEffect{
				Table:   table,
				Column:  RelatedColumn,
				OwnerID: a.OwnerID,
			})
		}
		plan.Effects = append(plan.Effects, effects.DeleteOwnerEffect{
			Table:   input.OwnerTable,
			OwnerID: a.OwnerID,
		})
	}

	// 4. Data directory
	if a.FolderPresent {
		plan.Effects = append(plan.Effects, effects.RemoveFolderEffect{
			Container: input.Container,
			Path:      a.FolderPath,
		})
	}

	return plan
}

// FolderPath joins the data directory and a client name.
func FolderPath(dataDir, client string) string {
	return path.Join(dataDir, client)
}
