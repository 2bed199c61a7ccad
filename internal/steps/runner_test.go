package steps

import (
	"context"
	"testing"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/issues"
)

func TestRunner(t *testing.T) {
	api := &memoryStatusAPI{statuses: map[int]issues.Status{}}
	r, err := NewRunner(config.Default(), newDeps(api))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	if got := r.Steps(); len(got) != 2 || got[0] != "gatekeeper" || got[1] != "status_resolver" {
		t.Errorf("unexpected steps %v", got)
	}

	res, err := r.Run(context.Background(), &pipeline.Event{
		Kind:        pipeline.EventCommentAdded,
		IssueNumber: 11,
		CommentBody: "Status: QA approved",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.NewStatus != issues.StatusQAApproved || api.statuses[11] != issues.StatusQAApproved {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestNewRunnerUnknownStep(t *testing.T) {
	cfg := config.Default()
	cfg.Steps = []string{"does_not_exist"}

	if _, err := NewRunner(cfg, newDeps(&memoryStatusAPI{})); err == nil {
		t.Error("expected error for unknown step")
	}
}
