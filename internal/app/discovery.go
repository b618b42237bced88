package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/nuke"
	"github.com/example/devkit/internal/logging"
	"github.com/example/devkit/internal/ports/secondary"
)

// DiscoveryResult is the candidate set plus what was learned gathering it.
type DiscoveryResult struct {
	Candidates        []string
	Warnings          []string
	SettingsAvailable bool // the settings column exists
	OwnerAvailable    bool // the owner link column exists
}

// Discovery gathers client candidates from the container's data directory,
// the settings table and, when configured, the owner table.
type Discovery struct {
	cfg        config.NukeConfig
	containers secondary.ContainerAdapter
	store      secondary.TenantStore
	logger     *zap.Logger
}

// NewDiscovery creates a Discovery.
func NewDiscovery(cfg config.NukeConfig, containers secondary.ContainerAdapter, store secondary.TenantStore, logger *zap.Logger) *Discovery {
	return &Discovery{cfg: cfg, containers: containers, store: store, logger: logger}
}

// Discover returns the merged, filtered candidate list. A missing settings
// column or unreadable data directory degrades to the remaining sources.
func (d *Discovery) Discover(ctx context.Context, container string) (*DiscoveryResult, error) {
	log := logging.FromContext(ctx, d.logger)
	res := &DiscoveryResult{}
	warn := func(msg string, fields ...zap.Field) {
		log.Warn(msg, fields...)
		res.Warnings = append(res.Warnings, msg)
	}

	// 1. Data directory listing
	var folders []string
	listing, err := d.containers.Exec(ctx, container, "ls", "-1A", d.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s in %s: %w", d.cfg.DataDir, container, err)
	}
	if listing.ExitCode != 0 {
		warn(fmt.Sprintf("cannot list %s; skipping folder candidates", d.cfg.DataDir),
			zap.Int("exit_code", listing.ExitCode), zap.String("stderr", listing.Stderr))
	} else {
		folders = nuke.FolderCandidates(strings.Split(listing.Stdout, "\n"))
	}

	// 2. Settings column
	var settings []string
	ok, err := d.store.ColumnExists(ctx, d.cfg.SettingsTable, d.cfg.SettingsColumn)
	if err != nil {
		return nil, err
	}
	if !ok {
		warn(fmt.Sprintf("column %s.%s not found; using folder candidates only", d.cfg.SettingsTable, d.cfg.SettingsColumn))
	} else {
		res.SettingsAvailable = true
		settings, err = d.store.DistinctValues(ctx, d.cfg.SettingsTable, d.cfg.SettingsColumn)
		if err != nil {
			return nil, err
		}
	}

	// 3. Owning entities linked from settings
	var owners []string
	if d.cfg.OwnerLinkColumn != "" {
		ok, err := d.store.ColumnExists(ctx, d.cfg.SettingsTable, d.cfg.OwnerLinkColumn)
		if err != nil {
			return nil, err
		}
		if !ok {
			warn(fmt.Sprintf("column %s.%s not found; skipping owner candidates", d.cfg.SettingsTable, d.cfg.OwnerLinkColumn))
		} else {
			res.OwnerAvailable = true
			owners, err = d.store.OwnerNames(ctx, secondary.OwnerJoin{
				OwnerTable:    d.cfg.OwnerTable,
				NameColumn:    d.cfg.OwnerNameColumn,
				SettingsTable: d.cfg.SettingsTable,
				LinkColumn:    d.cfg.OwnerLinkColumn,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	res.Candidates = nuke.MergeCandidates(folders, settings, owners)
	log.Debug("discovered candidates",
		zap.Int("folders", len(folders)),
		zap.Int("settings", len(settings)),
		zap.Int("owners", len(owners)),
		zap.Int("candidates", len(res.Candidates)))
	return res, nil
}
