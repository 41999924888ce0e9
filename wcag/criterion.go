// Package wcag provides the WCAG 2.2 success-criterion catalog and the
// parser for scanner-emitted criterion tags.
package wcag

import (
	"fmt"
	"regexp"
)

// criterionTag matches scanner tags that encode a success criterion as three
// bare digit segments, e.g. "wcag143" for 1.4.3 or "wcag1413" for 1.4.13.
// Conformance-level tags such as "wcag2aa" carry letters after the digits
// and never match.
var criterionTag = regexp.MustCompile(`(?i)^wcag(\d)(\d)(\d{1,2})$`)

// ExtractCriterion scans the tags in order and returns the dotted criterion
// number of the first tag encoding one, or "" when no tag matches.
func ExtractCriterion(tags []string) string {
	for _, tag := range tags {
		m := criterionTag.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		return fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3])
	}
	return ""
}
