package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/wcag"
)

// Digest summarizes the issues created at or after a given date.
type Digest struct {
	Since       time.Time
	Total       int
	ByPriority  map[report.Priority]int
	ByCriterion map[string][]report.Issue
}

// BuildDigest collects the issues created since the given date. Issues
// created exactly at the boundary are included.
func BuildDigest(r report.Report, since time.Time) Digest {
	d := Digest{
		Since:       since,
		ByPriority:  map[report.Priority]int{},
		ByCriterion: map[string][]report.Issue{},
	}
	for _, is := range r.Issues {
		if is.CreatedAt.Before(since) {
			continue
		}
		d.Total++
		d.ByPriority[is.Priority]++
		d.ByCriterion[is.CriterionNumber] = append(d.ByCriterion[is.CriterionNumber], is)
	}
	return d
}

// Render produces the free-text digest.
func (d Digest) Render(reportName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Digest for %s since %s\n", reportName, d.Since.Format("2006-01-02"))
	fmt.Fprintf(&b, "New issues: %d (blocker: %d, medium: %d, low: %d)\n",
		d.Total,
		d.ByPriority[report.PriorityBlocker],
		d.ByPriority[report.PriorityMedium],
		d.ByPriority[report.PriorityLow])

	numbers := make([]string, 0, len(d.ByCriterion))
	for n := range d.ByCriterion {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)

	for _, n := range numbers {
		fmt.Fprintf(&b, "\n%s\n", wcag.Label(n))
		for _, is := range d.ByCriterion[n] {
			fmt.Fprintf(&b, "  - [%s] %s (%s)\n", is.Priority, is.Title, is.Page)
		}
	}
	return b.String()
}
