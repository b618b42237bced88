package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/core/nuke"
	"github.com/example/devkit/internal/ctxutil"
	"github.com/example/devkit/internal/logging"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/ports/secondary"
)


// NukeServiceImpl implements primary.NukeService.
type NukeServiceImpl struct {
	cfg        config.NukeConfig
	containers secondary.ContainerAdapter
	discovery  *Discovery
	analyzer   *Analyzer
	selector   secondary.Selector
	prompter   secondary.Prompter
	executor   EffectExecutor
	logger     *zap.Logger
}

// NewNukeService creates a new NukeService.
func NewNukeService(
	cfg config.NukeConfig,
	containers secondary.ContainerAdapter,
	store secondary.TenantStore,
	selector secondary.Selector,
	prompter secondary.Prompter,
	executor EffectExecutor,
	logger *zap.Logger,
) *NukeServiceImpl {
	return &NukeServiceImpl{
		cfg:        cfg,
		containers: containers,
		discovery:  NewDiscovery(cfg, containers, store, logger),
		analyzer:   NewAnalyzer(cfg, containers, store),
		selector:   selector,
		prompter:   prompter,
		executor:   executor,
		logger:     logger,
	}
}

// Run drives Start → Discovery → Select → Validate → Analyze → Confirm → Execute.
// Every refusal before Execute returns an outcome, not an error; errors are
// reserved for collaborators that failed.
func (s *NukeServiceImpl) Run(ctx context.Context, req primary.NukeRequest, onAnalysis func(*primary.NukePreparation)) (*primary.NukeOutcome, error) {
	ctx = ctxutil.WithRunID(ctx, uuid.NewString())
	log := logging.FromContext(ctx, s.logger)

	// 1. Preconditions
	container, running, err := s.resolveContainer(ctx)
	if err != nil {
		log.Warn("container lookup failed", zap.String("pattern", s.cfg.Container), zap.Error(err))
	}
	start := nuke.CanStart(nuke.StartContext{
		Enabled:          s.cfg.Enabled,
		EnableVariable:   config.NukeEnableVariable,
		Container:        displayName(container, s.cfg.Container),
		ContainerRunning: running,
	})
	if !start.Allowed {
		return refusal(start, ""), nil
	}

	// 2. Discovery
	found, err := s.discovery.Discover(ctx, container)
	if err != nil {
		return nil, fmt.Errorf("candidate discovery failed: %w", err)
	}

	// 3. Target: explicit or selected
	client := nuke.Normalize(req.Client)
	if client == "" {
		if len(found.Candidates) == 0 {
			return &primary.NukeOutcome{Status: primary.NukeNoCandidates, Reason: "no eligible clients"}, nil
		}
		client, err = s.selector.Select(ctx, found.Candidates)
		if err != nil {
			return nil, fmt.Errorf("selection failed: %w", err)
		}
		if client == "" {
			return &primary.NukeOutcome{Status: primary.NukeNoSelection, Reason: "no client selected"}, nil
		}
	}

	// 4. Validate (blocklist again, then membership)
	target := nuke.CanTarget(nuke.TargetContext{Client: client, Candidates: found.Candidates})
	if !target.Allowed {
		return refusal(target, client), nil
	}
	ctx = ctxutil.WithClient(ctx, client)
	log = logging.FromContext(ctx, s.logger)

	// 5. Analyze and plan
	analysis, err := s.analyzer.Analyze(ctx, container, client, found)
	if err != nil {
		return nil, fmt.Errorf("analysis of %s failed: %w", client, err)
	}
	plan := nuke.GeneratePlan(nuke.PlanInput{
		Analysis:       analysis,
		Container:      container,
		SettingsTable:  s.cfg.SettingsTable,
		SettingsColumn: s.cfg.SettingsColumn,
		OwnerTable:     s.cfg.OwnerTable,
		OwnerEnabled:   found.OwnerAvailable,
	})
	prep := &primary.NukePreparation{
		Container:  container,
		Candidates: found.Candidates,
		Warnings:   found.Warnings,
		Analysis:   analysis,
		Plan:       plan,
	}
	if onAnalysis != nil {
		onAnalysis(prep)
	}

	outcome := &primary.NukeOutcome{Client: client, Preparation: prep}
	if req.Verify {
		outcome.Status = primary.NukeVerified
		return outcome, nil
	}
	if plan.Empty() {
		outcome.Status = primary.NukeNothingToDo
		outcome.Reason = fmt.Sprintf("nothing found for %s", client)
		return outcome, nil
	}

	// 6. Two-step confirmation
	gate := nuke.NewGate(client)
	for !gate.Terminal() {
		answer, err := s.prompter.Ask(ctx, gate.Prompt())
		if err != nil {
			return nil, fmt.Errorf("failed to read confirmation: %w", err)
		}
		gate = gate.Answer(answer)
	}
	switch gate.State {
	case nuke.GateAborted:
		outcome.Status = primary.NukeAborted
		outcome.Reason = "Aborted."
		return outcome, nil
	case nuke.GateMismatch:
		outcome.Status = primary.NukeMismatch
		outcome.Reason = "Mismatch: name does not match, nothing was changed."
		return outcome, nil
	}

	// 7. Execute
	log.Info("executing cleanup", zap.Int("steps", len(plan.Effects)))
	outcome.Report = s.executor.Execute(ctx, plan.Effects)
	outcome.Status = primary.NukeCompleted
	if failed := outcome.Report.Failed(); failed > 0 {
		log.Warn("cleanup finished with failures", zap.Int("failed", failed))
	}
	return outcome, nil
}

func (s *NukeServiceImpl) resolveContainer(ctx context.Context) (string, bool, error) {
	if !s.cfg.Enabled || s.cfg.Container == "" {
		return "", false, nil
	}
	name, err := s.containers.Resolve(ctx, s.cfg.Container)
	if err != nil || name == "" {
		return "", false, err
	}
	running, err := s.containers.IsRunning(ctx, name)
	if err != nil {
		return name, false, err
	}
	return name, running, nil
}

func refusal(r nuke.GuardResult, client string) *primary.NukeOutcome {
	status := map[nuke.Violation]primary.NukeStatus{
		nuke.ViolationDisabled:   primary.NukeDisabled,
		nuke.ViolationNotRunning: primary.NukeNotRunning,
		nuke.ViolationBlocked:    primary.NukeBlocked,
		nuke.ViolationUnknown:    primary.NukeUnknown,
	}[r.Violation]
	return &primary.NukeOutcome{Status: status, Reason: r.Reason, Client: client}
}

func displayName(resolved, pattern string) string {
	if resolved != "" {
		return resolved
	}
	return pattern
}

var _ primary.NukeService = (*NukeServiceImpl)(nil)
