package report

import "sort"

// SortIssues returns a new slice ordered for display: page name lexical
// order, criterion number lexical order, or priority descending (blocker
// first). The stable sort preserves insertion order within equal keys.
// Unknown orders fall back to page order.
func SortIssues(issues []Issue, order SortOrder) []Issue {
	out := append([]Issue(nil), issues...)
	switch order {
	case SortByCriteria:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CriterionNumber < out[j].CriterionNumber
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.rank() > out[j].Priority.rank()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Page < out[j].Page
		})
	}
	return out
}

// FilterNeedsReview returns the issues still lacking remediation notes.
// Always returns a new slice; the input is never mutated.
func FilterNeedsReview(issues []Issue) []Issue {
	out := []Issue{}
	for _, is := range issues {
		if is.NeedsReview() {
			out = append(out, is)
		}
	}
	return out
}
