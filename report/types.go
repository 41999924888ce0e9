// Package report defines the accessibility-audit report model and the pure
// transforms over it: issue add/update/duplicate/delete, merging of two
// independently edited reports, and display ordering.
//
// Every transform returns a new Report value and never mutates its input; the
// previous value is discarded by the caller. Identifier and clock injection
// keep the transforms deterministic under test.
package report

import "time"

// Priority classifies how urgently an issue needs remediation.
type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityMedium  Priority = "medium"
	PriorityBlocker Priority = "blocker"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityBlocker:
		return true
	}
	return false
}

// rank orders priorities for descending sort; higher is more urgent.
func (p Priority) rank() int {
	switch p {
	case PriorityBlocker:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// SortOrder names the default display ordering of the issue list.
type SortOrder string

const (
	SortByPage     SortOrder = "page"
	SortByCriteria SortOrder = "criteria"
	SortByPriority SortOrder = "priority"
)

// Valid reports whether o is one of the known sort orders.
func (o SortOrder) Valid() bool {
	switch o {
	case SortByPage, SortByCriteria, SortByPriority:
		return true
	}
	return false
}

// TrackerConfig carries the credentials for the remote ticket tracker.
// It travels inside the report value and therefore inside exported JSON —
// a deliberate carry-over of the original behavior (see DESIGN.md).
type TrackerConfig struct {
	BaseURL    string `json:"baseUrl"`
	APIToken   string `json:"apiToken"`
	UserEmail  string `json:"userEmail"`
	ProjectKey string `json:"projectKey,omitempty"`
}

// Complete reports whether all three required credential fields are present.
func (c *TrackerConfig) Complete() bool {
	return c != nil && c.BaseURL != "" && c.APIToken != "" && c.UserEmail != ""
}

// Issue is one recorded accessibility defect tied to a page and a WCAG
// success criterion. Screenshot is an embedded data URI, not a reference.
type Issue struct {
	ID               string    `json:"id"`
	Page             string    `json:"page"`
	CriterionNumber  string    `json:"criterionNumber"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	Screenshot       string    `json:"screenshot,omitempty"`
	Notes            string    `json:"notes"`
	Priority         Priority  `json:"priority"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	TrackerTicketURL string    `json:"trackerTicketUrl,omitempty"`
	TrackerTicketKey string    `json:"trackerTicketKey,omitempty"`
}

// NeedsReview reports whether the issue still lacks remediation notes.
// Used by the display-only "needs review" filter.
func (i Issue) NeedsReview() bool {
	return i.Notes == ""
}

// Report is a named collection of issues plus the set of page names they
// reference. Pages must be a superset of the pages referenced by Issues;
// the model is permissive about unused pages except on issue deletion,
// which recomputes Pages exactly (see DeleteIssue).
type Report struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Pages     []string       `json:"pages"`
	Issues    []Issue        `json:"issues"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Tracker   *TrackerConfig `json:"trackerConfig,omitempty"`
}

// IssueByID returns the issue with the given id, or nil.
func (r Report) IssueByID(id string) *Issue {
	for i := range r.Issues {
		if r.Issues[i].ID == id {
			is := r.Issues[i]
			return &is
		}
	}
	return nil
}

// Clone returns a deep copy of r. Slices and the tracker config are copied
// so the result shares no mutable state with the receiver.
func (r Report) Clone() Report {
	out := r
	out.Pages = append([]string(nil), r.Pages...)
	out.Issues = append([]Issue(nil), r.Issues...)
	if r.Tracker != nil {
		cfg := *r.Tracker
		out.Tracker = &cfg
	}
	return out
}
