// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/example/devkit/internal/core/effects"
	"github.com/example/devkit/internal/logging"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place destructive I/O happens.
type EffectExecutor interface {
	// Execute runs every effect in order. A failed effect is recorded in the
	// report and does not stop the ones after it.
	Execute(ctx context.Context, effs []effects.Effect) *primary.ExecutionReport
}

// DefaultEffectExecutor implements EffectExecutor against the tenant store
// and the container.
type DefaultEffectExecutor struct {
	store      secondary.TenantStore
	containers secondary.ContainerAdapter
	logger     *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(store secondary.TenantStore, containers secondary.ContainerAdapter, logger *zap.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{store: store, containers: containers, logger: logger}
}

// Execute processes effects in sequence, best-effort.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) *primary.ExecutionReport {
	log := logging.FromContext(ctx, e.logger)
	report := &primary.ExecutionReport{}
	for _, eff := range effs {
		err := e.executeOne(ctx, eff)
		if err != nil {
			log.Warn("step failed, continuing",
				zap.String("step", eff.EffectType()),
				zap.String("target", eff.Describe()),
				zap.Error(err))
		} else {
			log.Info("step done", zap.String("step", eff.EffectType()), zap.String("target", eff.Describe()))
		}
		report.Steps = append(report.Steps, primary.StepResult{Effect: eff, Err: err})
	}
	return report
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.DropDatabaseEffect:
		return e.store.DropDatabase(ctx, typed.Database)
	case effects.DeleteSettingsEffect:
		_, err := e.store.DeleteCI(ctx, typed.Table, typed.Column, typed.Client)
		return err
	case effects.DeleteRelatedEffect:
		_, err := e.store.DeleteWhere(ctx, typed.Table, typed.Column, typed.OwnerID)
		return err
	case effects.DeleteOwnerEffect:
		_, err := e.store.DeleteWhere(ctx, typed.Table, "id", typed.OwnerID)
		return err
	case effects.RemoveFolderEffect:
		return e.removeFolder(ctx, typed)
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) removeFolder(ctx context.Context, eff effects.RemoveFolderEffect) error {
	if eff.Path != path.Clean(eff.Path) || path.Dir(eff.Path) == eff.Path || !path.IsAbs(eff.Path) {
		return fmt.Errorf("refusing to remove %q", eff.Path)
	}
	res, err := e.containers.Exec(ctx, eff.Container, "rm", "-rf", "--", eff.Path)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("rm exited with code %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}
