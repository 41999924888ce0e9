package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/wcag"
)

// BuildMarkdown renders the report as a markdown document grouped by page,
// with issues in the given sort order inside each group. Screenshots are
// embedded as data-URI images so the document stands alone. Tracker
// credentials are never rendered; only per-issue ticket links are.
func BuildMarkdown(r report.Report, order report.SortOrder) string {
	sorted := report.SortIssues(r.Issues, order)

	byPage := map[string][]report.Issue{}
	for _, is := range sorted {
		byPage[is.Page] = append(byPage[is.Page], is)
	}
	pages := make([]string, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Strings(pages)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	fmt.Fprintf(&b, "Generated %s. %d issue(s) across %d page(s).\n",
		time.Now().UTC().Format("2006-01-02"), len(r.Issues), len(pages))

	for _, page := range pages {
		fmt.Fprintf(&b, "\n## %s\n", page)
		for _, is := range byPage[page] {
			writeIssueMarkdown(&b, is)
		}
	}
	return b.String()
}

func writeIssueMarkdown(b *strings.Builder, is report.Issue) {
	fmt.Fprintf(b, "\n### %s\n\n", is.Title)
	fmt.Fprintf(b, "- Criterion: %s\n", wcag.Label(is.CriterionNumber))
	fmt.Fprintf(b, "- Priority: %s\n", is.Priority)
	if is.Location != "" {
		fmt.Fprintf(b, "- Location: `%s`\n", is.Location)
	}
	if is.TrackerTicketKey != "" && is.TrackerTicketURL != "" {
		fmt.Fprintf(b, "- Ticket: [%s](%s)\n", is.TrackerTicketKey, is.TrackerTicketURL)
	}
	if is.Description != "" {
		fmt.Fprintf(b, "\n%s\n", is.Description)
	}
	if is.Screenshot != "" {
		fmt.Fprintf(b, "\n![Screenshot of %s](%s)\n", is.Page, is.Screenshot)
	}
	if is.Notes != "" {
		fmt.Fprintf(b, "\n**Notes:** %s\n", is.Notes)
	}
}
