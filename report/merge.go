package report

import "time"

// Merge combines two independently edited reports into a new report with the
// given name and a fresh id and timestamps.
//
// Issues are the union of both inputs keyed by id. When both reports carry
// the same issue id, the copy with the later updatedAt survives; on an exact
// timestamp tie the second report's copy wins (the comparison is strict
// greater-than on the first report's copy). Relative order follows the first
// report, with issues unique to the second appended after.
//
// Pages is the union of both page lists plus every page referenced by a
// surviving issue, restoring the pages invariant.
//
// The tracker config is inherited from whichever input's config is complete,
// preferring the first report; when neither is complete, any present config
// is carried, again preferring the first report.
//
// Both inputs must have passed structural validation (ValidateStructure)
// before Merge is invoked; Merge itself is a total function.
func Merge(a, b Report, name, id string, now time.Time) Report {
	byID := make(map[string]Issue, len(a.Issues)+len(b.Issues))
	order := make([]string, 0, len(a.Issues)+len(b.Issues))

	for _, is := range a.Issues {
		if _, seen := byID[is.ID]; !seen {
			order = append(order, is.ID)
		}
		byID[is.ID] = is
	}
	for _, is := range b.Issues {
		cur, seen := byID[is.ID]
		if !seen {
			order = append(order, is.ID)
			byID[is.ID] = is
			continue
		}
		// Strict greater-than: the first report's copy survives only when
		// strictly newer, so ties go to the second report.
		if !cur.UpdatedAt.After(is.UpdatedAt) {
			byID[is.ID] = is
		}
	}

	issues := make([]Issue, 0, len(order))
	for _, issueID := range order {
		issues = append(issues, byID[issueID])
	}

	pages := []string{}
	for _, p := range a.Pages {
		pages = addPage(pages, p)
	}
	for _, p := range b.Pages {
		pages = addPage(pages, p)
	}
	for _, is := range issues {
		pages = addPage(pages, is.Page)
	}

	return Report{
		ID:        id,
		Name:      name,
		Pages:     pages,
		Issues:    issues,
		CreatedAt: now,
		UpdatedAt: now,
		Tracker:   inheritTracker(a.Tracker, b.Tracker),
	}
}

// inheritTracker picks the surviving tracker config: first complete config
// wins, first-report priority; otherwise any present config, same priority.
func inheritTracker(a, b *TrackerConfig) *TrackerConfig {
	pick := func(c *TrackerConfig) *TrackerConfig {
		cfg := *c
		return &cfg
	}
	if a.Complete() {
		return pick(a)
	}
	if b.Complete() {
		return pick(b)
	}
	if a != nil {
		return pick(a)
	}
	if b != nil {
		return pick(b)
	}
	return nil
}
