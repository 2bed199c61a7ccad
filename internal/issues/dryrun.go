package issues

import (
	"context"

	"go.uber.org/zap"
)

// DryRunStatusAPI reads through to another StatusAPI but only logs writes.
type DryRunStatusAPI struct {
	inner StatusAPI
	log   *zap.Logger
}

// NewDryRunStatusAPI wraps inner so that no status is ever written.
func NewDryRunStatusAPI(inner StatusAPI, log *zap.Logger) *DryRunStatusAPI {
	if log == nil {
		log = zap.NewNop()
	}
	return &DryRunStatusAPI{inner: inner, log: log}
}

// GetIssueStatus delegates to the wrapped API.
func (d *DryRunStatusAPI) GetIssueStatus(ctx context.Context, issueNumber int) (Status, error) {
	if d.inner == nil {
		return StatusNone, nil
	}
	return d.inner.GetIssueStatus(ctx, issueNumber)
}

// SetIssueStatus logs the status that would have been written.
func (d *DryRunStatusAPI) SetIssueStatus(ctx context.Context, issueNumber int, status Status) error {
	d.log.Info("DRY RUN: would set issue status",
		zap.Int("issue", issueNumber),
		zap.Stringer("status", status),
	)
	return nil
}
