package issues

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DefaultBugLabel is the label that puts an untriaged issue up for review.
const DefaultBugLabel = "bug"

// StatusAPI reads and writes the recorded status of an issue.
type StatusAPI interface {
	// GetIssueStatus returns the current status, or StatusNone if unset.
	GetIssueStatus(ctx context.Context, issueNumber int) (Status, error)

	// SetIssueStatus records a new status for the issue.
	SetIssueStatus(ctx context.Context, issueNumber int, status Status) error
}

// Listener turns issue events into status changes.
// It holds no mutable state and is safe for concurrent use.
type Listener struct {
	api      StatusAPI
	log      *zap.Logger
	bugLabel string
}

// Option configures a Listener.
type Option func(*Listener)

// WithBugLabel overrides the label that triggers the initial review status.
func WithBugLabel(label string) Option {
	return func(l *Listener) {
		if label != "" {
			l.bugLabel = label
		}
	}
}

// NewListener creates a Listener backed by the given status API.
func NewListener(api StatusAPI, log *zap.Logger, opts ...Option) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Listener{
		api:      api,
		log:      log,
		bugLabel: DefaultBugLabel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// HandleCommentAddedEvent applies the status declared in a comment, if any.
// It returns StatusNone when the comment declares no known status.
func (l *Listener) HandleCommentAddedEvent(ctx context.Context, issueNumber int, comment string) (Status, error) {
	status, ok := ParseDeclaration(comment)
	if !ok {
		l.log.Debug("Listener: comment declares no status", zap.Int("issue", issueNumber))
		return StatusNone, nil
	}

	if err := l.api.SetIssueStatus(ctx, issueNumber, status); err != nil {
		return StatusNone, err
	}

	l.log.Info("Listener: status set from comment",
		zap.Int("issue", issueNumber),
		zap.Stringer("status", status),
	)
	return status, nil
}

// HandlePullRequestCreatedEvent marks a new pull request as needing review.
func (l *Listener) HandlePullRequestCreatedEvent(ctx context.Context, prNumber int) (Status, error) {
	if err := l.api.SetIssueStatus(ctx, prNumber, StatusNeedsReview); err != nil {
		return StatusNone, err
	}

	l.log.Info("Listener: pull request needs review", zap.Int("issue", prNumber))
	return StatusNeedsReview, nil
}

// HandleLabelAddedEvent marks a newly labeled bug as needing review, unless the
// issue already carries a status.
func (l *Listener) HandleLabelAddedEvent(ctx context.Context, issueNumber int, label string) (Status, error) {
	if !strings.EqualFold(label, l.bugLabel) {
		return StatusNone, nil
	}

	current, err := l.api.GetIssueStatus(ctx, issueNumber)
	if err != nil {
		return StatusNone, err
	}
	if current != StatusNone {
		l.log.Debug("Listener: issue already triaged",
			zap.Int("issue", issueNumber),
			zap.Stringer("status", current),
		)
		return StatusNone, nil
	}

	if err := l.api.SetIssueStatus(ctx, issueNumber, StatusNeedsReview); err != nil {
		return StatusNone, err
	}

	l.log.Info("Listener: bug needs review", zap.Int("issue", issueNumber))
	return StatusNeedsReview, nil
}
