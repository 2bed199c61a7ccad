package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/carsonhq/carson-bot/internal/issues"
)

// statusLabelPrefix starts the name of every label that records a status.
const statusLabelPrefix = "Status:"

// StatusLabel returns the label name that records the given status,
// e.g. "Status: Needs Review".
func StatusLabel(status issues.Status) string {
	return statusLabelPrefix + " " + status.DisplayName()
}

// ParseStatusLabel returns the status recorded by a label name, if any.
func ParseStatusLabel(name string) (issues.Status, bool) {
	if len(name) < len(statusLabelPrefix) || !strings.EqualFold(name[:len(statusLabelPrefix)], statusLabelPrefix) {
		return issues.StatusNone, false
	}
	return issues.ParseName(name[len(statusLabelPrefix):])
}

// LabelStatusAPI stores issue statuses as "Status: ..." labels on one repository.
type LabelStatusAPI struct {
	gh   *Client
	org  string
	repo string
}

var _ issues.StatusAPI = (*LabelStatusAPI)(nil)

// NewLabelStatusAPI creates a status API for the given repository.
func NewLabelStatusAPI(gh *Client, org, repo string) *LabelStatusAPI {
	return &LabelStatusAPI{
		gh:   gh,
		org:  org,
		repo: repo,
	}
}

// GetIssueStatus returns the status recorded on the issue, or StatusNone.
func (a *LabelStatusAPI) GetIssueStatus(ctx context.Context, issueNumber int) (issues.Status, error) {
	labels, err := a.gh.ListLabels(ctx, a.org, a.repo, issueNumber)
	if err != nil {
		return issues.StatusNone, err
	}

	for _, l := range labels {
		if status, ok := ParseStatusLabel(l.GetName()); ok {
			return status, nil
		}
	}
	return issues.StatusNone, nil
}

// SetIssueStatus replaces any status label on the issue with the one for status.
func (a *LabelStatusAPI) SetIssueStatus(ctx context.Context, issueNumber int, status issues.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %q", status)
	}

	labels, err := a.gh.ListLabels(ctx, a.org, a.repo, issueNumber)
	if err != nil {
		return err
	}

	present := false
	for _, l := range labels {
		current, ok := ParseStatusLabel(l.GetName())
		if !ok {
			continue
		}
		if current == status {
			present = true
			continue
		}
		if err := a.gh.RemoveLabel(ctx, a.org, a.repo, issueNumber, l.GetName()); err != nil {
			return err
		}
	}

	if present {
		return nil
	}
	return a.gh.AddLabels(ctx, a.org, a.repo, issueNumber, []string{StatusLabel(status)})
}
