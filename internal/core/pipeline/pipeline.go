// Package pipeline provides the core pipeline engine for Carson.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/issues"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., bot author, disabled repo).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// EventKind identifies which status rule applies to an event.
type EventKind string

const (
	EventCommentAdded       EventKind = "comment_added"
	EventPullRequestCreated EventKind = "pull_request_created"
	EventLabelAdded         EventKind = "label_added"
)

// Event is a tracker event normalized from a webhook delivery.
type Event struct {
	DeliveryID  string    `json:"delivery_id,omitempty"`
	Kind        EventKind `json:"kind"`
	Org         string    `json:"org"`
	Repo        string    `json:"repo"`
	IssueNumber int       `json:"issue_number"`
	CommentBody string    `json:"comment_body,omitempty"`
	Label       string    `json:"label,omitempty"`
	Sender      string    `json:"sender,omitempty"`
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	RunID         string        `json:"run_id"`
	IssueNumber   int           `json:"issue_number"`
	Skipped       bool          `json:"skipped"`
	SkipReason    string        `json:"skip_reason,omitempty"`
	StatusChanged bool          `json:"status_changed"`
	NewStatus     issues.Status `json:"new_status,omitempty"`
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Event is the event being processed.
	Event *Event

	// Config is the loaded configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result
}

// NewContext creates a new pipeline context for an event.
// The run id reuses the webhook delivery id when there is one.
func NewContext(ctx context.Context, event *Event, cfg *config.Config) *Context {
	runID := event.DeliveryID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Context{
		Ctx:    ctx,
		Event:  event,
		Config: cfg,
		Result: &Result{RunID: runID, IssueNumber: event.IssueNumber},
	}
}

// Skip marks the run as skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
