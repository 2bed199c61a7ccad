// Package issues decides review status transitions for issues and pull requests.
package issues

import "strings"

// Status is the review stage of an issue.
type Status string

// Status values. StatusNone means no status has been recorded.
const (
	StatusNone         Status = ""
	StatusNeedsReview  Status = "needs_review"
	StatusCodeReviewed Status = "code_reviewed"
	StatusPMApproved   Status = "pm_approved"
	StatusQAApproved   Status = "qa_approved"
)

// displayNames is the canonical human-readable name of every status.
var displayNames = map[Status]string{
	StatusNeedsReview:  "Needs Review",
	StatusCodeReviewed: "Code Reviewed",
	StatusPMApproved:   "PM Approved",
	StatusQAApproved:   "QA Approved",
}

// byName maps normalized display names back to their status.
var byName = func() map[string]Status {
	m := make(map[string]Status, len(displayNames))
	for s, name := range displayNames {
		m[normalizeName(name)] = s
	}
	return m
}()

// All returns every known status in workflow order.
func All() []Status {
	return []Status{StatusNeedsReview, StatusCodeReviewed, StatusPMApproved, StatusQAApproved}
}

// String returns the string representation of a Status.
func (s Status) String() string {
	return string(s)
}

// DisplayName returns the human-readable name, e.g. "Code Reviewed".
func (s Status) DisplayName() string {
	return displayNames[s]
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := displayNames[s]
	return ok
}

// ParseName looks up a status by its display name, ignoring case, surrounding
// quotes and repeated whitespace.
func ParseName(name string) (Status, bool) {
	s, ok := byName[normalizeName(name)]
	return s, ok
}

func normalizeName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
