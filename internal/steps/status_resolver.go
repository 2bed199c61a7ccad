package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/issues"
)

// StatusResolver hands the event to the issues listener of its repository.
type StatusResolver struct {
	statusAPI pipeline.StatusAPIFactory
	dryRun    bool
	log       *zap.Logger
}

// NewStatusResolver creates a new status resolver step.
func NewStatusResolver(deps *pipeline.Dependencies) (*StatusResolver, error) {
	if deps == nil || deps.StatusAPI == nil {
		return nil, fmt.Errorf("status API is required")
	}
	return &StatusResolver{
		statusAPI: deps.StatusAPI,
		dryRun:    deps.DryRun,
		log:       loggerFrom(deps),
	}, nil
}

// Name returns the step name.
func (s *StatusResolver) Name() string {
	return "status_resolver"
}

// Run applies the status rule for the event kind.
func (s *StatusResolver) Run(ctx *pipeline.Context) error {
	ev := ctx.Event

	api := s.statusAPI(ev.Org, ev.Repo)
	if s.dryRun || ctx.Config.DryRun {
		api = issues.NewDryRunStatusAPI(api, s.log)
	}
	listener := issues.NewListener(api, s.log, issues.WithBugLabel(ctx.Config.BugLabel))

	var (
		status issues.Status
		err    error
	)
	switch ev.Kind {
	case pipeline.EventCommentAdded:
		status, err = listener.HandleCommentAddedEvent(ctx.Ctx, ev.IssueNumber, ev.CommentBody)
	case pipeline.EventPullRequestCreated:
		status, err = listener.HandlePullRequestCreatedEvent(ctx.Ctx, ev.IssueNumber)
	case pipeline.EventLabelAdded:
		status, err = listener.HandleLabelAddedEvent(ctx.Ctx, ev.IssueNumber, ev.Label)
	default:
		return ctx.Skip(fmt.Sprintf("unsupported event kind %q", ev.Kind))
	}
	if err != nil {
		return fmt.Errorf("failed to update status of %s/%s#%d: %w", ev.Org, ev.Repo, ev.IssueNumber, err)
	}

	if status != issues.StatusNone {
		ctx.Result.StatusChanged = true
		ctx.Result.NewStatus = status
	}
	return nil
}
