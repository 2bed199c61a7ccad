package pipeline

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/issues"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
type StepFactory func(deps *Dependencies) (Step, error)

// StatusAPIFactory returns the status API for one repository.
type StatusAPIFactory func(org, repo string) issues.StatusAPI

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	// StatusAPI builds the per-repository status store.
	StatusAPI StatusAPIFactory

	// Logger is shared by every step; nil means no logging.
	Logger *zap.Logger

	// DryRun wraps every status store so writes are only logged.
	DryRun bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// status-triage: every status rule, after filtering bots and disabled repos
	"status-triage": {
		"gatekeeper",
		"status_resolver",
	},

	// comments-only: only explicit "Status: ..." declarations change a status
	"comments-only": {
		"gatekeeper",
		"comment_filter",
		"status_resolver",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default
func ResolveSteps(explicitSteps []string, workflow string) []string {
	if len(explicitSteps) > 0 {
		return explicitSteps
	}
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	return Presets["status-triage"]
}
