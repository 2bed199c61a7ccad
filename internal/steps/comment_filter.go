package steps

import (
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// CommentFilter lets only comment events through, so statuses change solely
// through explicit declarations.
type CommentFilter struct{}

// NewCommentFilter creates a new comment filter step.
func NewCommentFilter(deps *pipeline.Dependencies) *CommentFilter {
	return &CommentFilter{}
}

// Name returns the step name.
func (s *CommentFilter) Name() string {
	return "comment_filter"
}

// Run skips every event that is not a new comment.
func (s *CommentFilter) Run(ctx *pipeline.Context) error {
	if ctx.Event.Kind != pipeline.EventCommentAdded {
		return ctx.Skip("only comments change status in this workflow")
	}
	return nil
}
