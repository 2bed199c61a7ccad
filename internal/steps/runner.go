package steps

import (
	"context"
	"fmt"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// Runner executes the configured pipeline for one event at a time.
// Steps are stateless, so one Runner serves concurrent events.
type Runner struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
}

// NewRunner builds the pipeline selected by the config.
func NewRunner(cfg *config.Config, deps *pipeline.Dependencies) (*Runner, error) {
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	built, err := registry.BuildFromNames(pipeline.ResolveSteps(cfg.Steps, cfg.Workflow), deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return &Runner{cfg: cfg, pipeline: built}, nil
}

// Steps returns the names of the steps the runner executes.
func (r *Runner) Steps() []string {
	names := make([]string, 0, len(r.pipeline.Steps()))
	for _, s := range r.pipeline.Steps() {
		names = append(names, s.Name())
	}
	return names
}

// Run processes a single event.
func (r *Runner) Run(ctx context.Context, ev *pipeline.Event) (*pipeline.Result, error) {
	pCtx := pipeline.NewContext(ctx, ev, r.cfg)
	if err := r.pipeline.Run(pCtx); err != nil {
		return pCtx.Result, err
	}
	return pCtx.Result, nil
}
