package commands

import (
	"context"
	"errors"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/steps"
	"github.com/carsonhq/carson-bot/internal/tui"
)

// statusReportingStep forwards step transitions to the progress view.
type statusReportingStep struct {
	inner   pipeline.Step
	updates chan<- tui.StepMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.updates <- tui.StepMsg{Step: s.Name(), State: tui.StepStarted, Message: "Starting..."}

	err := s.inner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrSkipPipeline):
		s.updates <- tui.StepMsg{Step: s.Name(), State: tui.StepSkipped, Message: ctx.Result.SkipReason}
	case err != nil:
		s.updates <- tui.StepMsg{Step: s.Name(), State: tui.StepError, Message: err.Error()}
	default:
		s.updates <- tui.StepMsg{Step: s.Name(), State: tui.StepSuccess, Message: "Completed"}
	}
	return err
}

// runReportingPipeline runs the named steps for ev, reporting each transition
// on updates. updates is closed when the run finishes.
func runReportingPipeline(ctx context.Context, deps *pipeline.Dependencies, stepNames []string, ev *pipeline.Event, cfg *config.Config, updates chan<- tui.StepMsg) (*pipeline.Result, error) {
	defer close(updates)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		updates <- tui.StepMsg{Step: "init", State: tui.StepError, Message: err.Error()}
		return nil, err
	}

	var wrapped []pipeline.Step
	for _, step := range built.Steps() {
		wrapped = append(wrapped, &statusReportingStep{inner: step, updates: updates})
	}

	pCtx := pipeline.NewContext(ctx, ev, cfg)
	if err := pipeline.New(wrapped...).Run(pCtx); err != nil {
		return pCtx.Result, err
	}
	return pCtx.Result, nil
}
