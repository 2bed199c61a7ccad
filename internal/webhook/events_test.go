package webhook

import (
	"testing"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

const issueCommentPayload = `{
  "action": "created",
  "issue": {"number": 15, "title": "Crash on save"},
  "comment": {"body": "Reviewed it.\n**Status: code reviewed**", "user": {"login": "maintainer"}},
  "repository": {"name": "widgets", "owner": {"login": "acme"}},
  "sender": {"login": "maintainer"}
}`

const pullRequestPayload = `{
  "action": "opened",
  "number": 42,
  "pull_request": {"number": 42, "title": "Fix crash"},
  "repository": {"name": "widgets", "owner": {"login": "acme"}},
  "sender": {"login": "contributor"}
}`

const labeledPayload = `{
  "action": "labeled",
  "issue": {"number": 7},
  "label": {"name": "bug"},
  "repository": {"name": "widgets", "owner": {"login": "acme"}},
  "sender": {"login": "triager"}
}`

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		payload   string
		want      *pipeline.Event
	}{
		{
			name:      "comment created",
			eventType: EventTypeIssueComment,
			payload:   issueCommentPayload,
			want: &pipeline.Event{
				DeliveryID:  "d-1",
				Kind:        pipeline.EventCommentAdded,
				Org:         "acme",
				Repo:        "widgets",
				IssueNumber: 15,
				CommentBody: "Reviewed it.\n**Status: code reviewed**",
				Sender:      "maintainer",
			},
		},
		{
			name:      "pull request opened",
			eventType: EventTypePullRequest,
			payload:   pullRequestPayload,
			want: &pipeline.Event{
				DeliveryID:  "d-1",
				Kind:        pipeline.EventPullRequestCreated,
				Org:         "acme",
				Repo:        "widgets",
				IssueNumber: 42,
				Sender:      "contributor",
			},
		},
		{
			name:      "issue labeled",
			eventType: EventTypeIssues,
			payload:   labeledPayload,
			want: &pipeline.Event{
				DeliveryID:  "d-1",
				Kind:        pipeline.EventLabelAdded,
				Org:         "acme",
				Repo:        "widgets",
				IssueNumber: 7,
				Label:       "bug",
				Sender:      "triager",
			},
		},
		{
			name:      "comment edited is ignored",
			eventType: EventTypeIssueComment,
			payload:   `{"action": "edited", "issue": {"number": 15}}`,
		},
		{
			name:      "pull request closed is ignored",
			eventType: EventTypePullRequest,
			payload:   `{"action": "closed", "number": 42, "pull_request": {"number": 42}}`,
		},
		{
			name:      "unsupported event type",
			eventType: "push",
			payload:   `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent(tt.eventType, "d-1", []byte(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected event to be ignored, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("ParseEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseEventErrors(t *testing.T) {
	if _, err := ParseEvent(EventTypeIssues, "", []byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
	if _, err := ParseEvent(EventTypeIssues, "", []byte(`{"action":"labeled","label":{"name":"bug"}}`)); err == nil {
		t.Error("expected error for payload without issue number")
	}
}
