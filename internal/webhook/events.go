package webhook

import (
	"fmt"

	"github.com/google/go-github/v60/github"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// Supported GitHub event types.
const (
	EventTypeIssueComment = "issue_comment"
	EventTypePullRequest  = "pull_request"
	EventTypeIssues       = "issues"
)

// IsSupported reports whether deliveries of this event type can change a status.
func IsSupported(eventType string) bool {
	switch eventType {
	case EventTypeIssueComment, EventTypePullRequest, EventTypeIssues:
		return true
	}
	return false
}

// ParseEvent turns a GitHub webhook payload into a pipeline event.
// It returns nil without error for deliveries that never change a status,
// e.g. edited comments or closed pull requests.
func ParseEvent(eventType, deliveryID string, payload []byte) (*pipeline.Event, error) {
	if !IsSupported(eventType) {
		return nil, nil
	}

	raw, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", eventType, err)
	}

	var ev *pipeline.Event
	switch e := raw.(type) {
	case *github.IssueCommentEvent:
		if e.GetAction() != "created" {
			return nil, nil
		}
		ev = newEvent(pipeline.EventCommentAdded, e.GetRepo(), e.GetIssue().GetNumber(), e.GetSender())
		ev.CommentBody = e.GetComment().GetBody()

	case *github.PullRequestEvent:
		if e.GetAction() != "opened" {
			return nil, nil
		}
		ev = newEvent(pipeline.EventPullRequestCreated, e.GetRepo(), e.GetPullRequest().GetNumber(), e.GetSender())

	case *github.IssuesEvent:
		if e.GetAction() != "labeled" {
			return nil, nil
		}
		ev = newEvent(pipeline.EventLabelAdded, e.GetRepo(), e.GetIssue().GetNumber(), e.GetSender())
		ev.Label = e.GetLabel().GetName()

	default:
		return nil, nil
	}

	if ev.IssueNumber == 0 {
		return nil, fmt.Errorf("%s payload has no issue number", eventType)
	}
	ev.DeliveryID = deliveryID
	return ev, nil
}

func newEvent(kind pipeline.EventKind, repo *github.Repository, number int, sender *github.User) *pipeline.Event {
	return &pipeline.Event{
		Kind:        kind,
		Org:         repo.GetOwner().GetLogin(),
		Repo:        repo.GetName(),
		IssueNumber: number,
		Sender:      sender.GetLogin(),
	}
}
