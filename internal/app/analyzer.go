package app

import (
	"context"
	"fmt"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/nuke"
	"github.com/example/devkit/internal/ports/secondary"
)

// Analyzer re-queries every data source for a single validated client.
// It never writes.
type Analyzer struct {
	cfg        config.NukeConfig
	containers secondary.ContainerAdapter
	store      secondary.TenantStore
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg config.NukeConfig, containers secondary.ContainerAdapter, store secondary.TenantStore) *Analyzer {
	return &Analyzer{cfg: cfg, containers: containers, store: store}
}

// Analyze builds the presence report for client.
func (a *Analyzer) Analyze(ctx context.Context, container, client string, found *DiscoveryResult) (nuke.Analysis, error) {
	result := nuke.Analysis{
		Client:     client,
		FolderPath: nuke.FolderPath(a.cfg.DataDir, client),
	}

	// Folder
	probe, err := a.containers.Exec(ctx, container, "test", "-d", result.FolderPath)
	if err != nil {
		return nuke.Analysis{}, fmt.Errorf("failed to check folder %s: %w", result.FolderPath, err)
	}
	result.FolderPresent = probe.ExitCode == 0

	// Settings rows
	if found.SettingsAvailable {
		result.SettingsChecked = true
		n, err := a.store.CountCI(ctx, a.cfg.SettingsTable, a.cfg.SettingsColumn, client)
		if err != nil {
			return nuke.Analysis{}, err
		}
		result.SettingsPresent = n > 0
	}

	// Owner row and the tables referencing it
	if found.OwnerAvailable {
		id, ok, err := a.store.FindOwnerID(ctx, a.cfg.OwnerTable, a.cfg.OwnerNameColumn, client)
		if err != nil {
			return nuke.Analysis{}, err
		}
		result.OwnerPresent = ok
		result.OwnerID = id
		if ok {
			tables, err := a.store.TablesWithColumn(ctx, nuke.RelatedColumn)
			if err != nil {
				return nuke.Analysis{}, err
			}
			result.RelatedTables = tables
		}
	}

	// Databases
	dbs, err := a.store.ListDatabases(ctx)
	if err != nil {
		return nuke.Analysis{}, err
	}
	current, err := a.store.CurrentDatabase(ctx)
	if err != nil {
		return nuke.Analysis{}, err
	}
	result.Databases = nuke.MatchDatabases(dbs, client, current)

	return result, nil
}
