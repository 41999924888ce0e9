package report

import "time"

// New creates an empty report with the given identity and timestamps.
func New(id, name string, now time.Time) Report {
	return Report{
		ID:        id,
		Name:      name,
		Pages:     []string{},
		Issues:    []Issue{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddIssue returns a copy of r with the issue appended. The issue is
// assigned the given id and both timestamps; its page is added to Pages
// when not already present. Zero-value priority defaults to medium.
func AddIssue(r Report, is Issue, id string, now time.Time) Report {
	out := r.Clone()

	is.ID = id
	is.CreatedAt = now
	is.UpdatedAt = now
	if !is.Priority.Valid() {
		is.Priority = PriorityMedium
	}

	out.Issues = append(out.Issues, is)
	out.Pages = addPage(out.Pages, is.Page)
	out.UpdatedAt = now
	return out
}

// IssuePatch carries the optional field updates for UpdateIssue. Nil fields
// are left untouched. The issue id and createdAt are immutable.
type IssuePatch struct {
	Page             *string   `json:"page,omitempty"`
	CriterionNumber  *string   `json:"criterionNumber,omitempty"`
	Title            *string   `json:"title,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Location         *string   `json:"location,omitempty"`
	Screenshot       *string   `json:"screenshot,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	Priority         *Priority `json:"priority,omitempty"`
	TrackerTicketURL *string   `json:"trackerTicketUrl,omitempty"`
	TrackerTicketKey *string   `json:"trackerTicketKey,omitempty"`
}

// UpdateIssue returns a copy of r with the patch merged into the issue with
// the given id, refreshing its updatedAt. The second return is false when no
// issue has that id. A page change adds the new page to Pages but does not
// remove the old one; unused pages are only pruned on delete.
func UpdateIssue(r Report, issueID string, patch IssuePatch, now time.Time) (Report, bool) {
	out := r.Clone()
	for i := range out.Issues {
		if out.Issues[i].ID != issueID {
			continue
		}
		is := &out.Issues[i]
		if patch.Page != nil {
			is.Page = *patch.Page
			out.Pages = addPage(out.Pages, is.Page)
		}
		if patch.CriterionNumber != nil {
			is.CriterionNumber = *patch.CriterionNumber
		}
		if patch.Title != nil {
			is.Title = *patch.Title
		}
		if patch.Description != nil {
			is.Description = *patch.Description
		}
		if patch.Location != nil {
			is.Location = *patch.Location
		}
		if patch.Screenshot != nil {
			is.Screenshot = *patch.Screenshot
		}
		if patch.Notes != nil {
			is.Notes = *patch.Notes
		}
		if patch.Priority != nil && patch.Priority.Valid() {
			is.Priority = *patch.Priority
		}
		if patch.TrackerTicketURL != nil {
			is.TrackerTicketURL = *patch.TrackerTicketURL
		}
		if patch.TrackerTicketKey != nil {
			is.TrackerTicketKey = *patch.TrackerTicketKey
		}
		is.UpdatedAt = now
		out.UpdatedAt = now
		return out, true
	}
	return r, false
}

// DuplicateIssue returns a copy of r with a duplicate of the issue appended
// under a fresh id and fresh timestamps. The tracker ticket reference is not
// carried over; the duplicate has not been filed anywhere.
func DuplicateIssue(r Report, issueID, newID string, now time.Time) (Report, bool) {
	src := r.IssueByID(issueID)
	if src == nil {
		return r, false
	}
	dup := *src
	dup.ID = newID
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.TrackerTicketURL = ""
	dup.TrackerTicketKey = ""

	out := r.Clone()
	out.Issues = append(out.Issues, dup)
	out.UpdatedAt = now
	return out, true
}

// DeleteIssue returns a copy of r without the issue. Pages is recomputed as
// exactly the set of page names still referenced by the remaining issues,
// restoring the pages invariant. The second return is false when no issue
// has that id.
func DeleteIssue(r Report, issueID string, now time.Time) (Report, bool) {
	found := false
	out := r.Clone()
	issues := out.Issues[:0]
	for _, is := range out.Issues {
		if is.ID == issueID {
			found = true
			continue
		}
		issues = append(issues, is)
	}
	if !found {
		return r, false
	}
	out.Issues = issues
	out.Pages = referencedPages(issues)
	out.UpdatedAt = now
	return out, true
}

// addPage appends page to pages when non-empty and not already present.
func addPage(pages []string, page string) []string {
	if page == "" {
		return pages
	}
	for _, p := range pages {
		if p == page {
			return pages
		}
	}
	return append(pages, page)
}

// referencedPages returns the page names referenced by issues, first-seen order.
func referencedPages(issues []Issue) []string {
	pages := []string{}
	for _, is := range issues {
		pages = addPage(pages, is.Page)
	}
	return pages
}
