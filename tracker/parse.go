// Package tracker files issues as tickets in a Jira-style tracker, reached
// through the pass-through relay, and parses tracker resource references
// (project keys, issue URLs, board URLs) out of user-supplied strings.
package tracker

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnrecognized is returned when a tracker reference matches none of the
// known URL shapes and is not a bare project key.
var ErrUnrecognized = errors.New("tracker: unrecognized tracker reference")

// Kind classifies a parsed tracker resource reference.
type Kind string

const (
	KindProject      Kind = "project"
	KindBoard        Kind = "board"
	KindIssue        Kind = "issue"
	KindUnrecognized Kind = "unrecognized"
)

// Resource is the result of parsing a tracker reference.
type Resource struct {
	Kind       Kind
	ProjectKey string
	IssueKey   string
	BoardID    string
}

var (
	issuePath = regexp.MustCompile(`(?i)/browse/([a-z][a-z0-9]*)-(\d+)(?:[?#]|$)`)
	projPath  = regexp.MustCompile(`(?i)/browse/([a-z][a-z0-9]*)(?:[?#/]|$)`)
	boardPath = regexp.MustCompile(`(?i)/projects/([a-z][a-z0-9]*)/boards/(\d+)`)
	bareKey   = regexp.MustCompile(`(?i)^[a-z][a-z0-9]{1,9}$`)
)

// ParseResource classifies a user-supplied tracker reference: an issue URL
// (/browse/KEY-123), a project URL (/browse/KEY), a board URL
// (.../projects/KEY/boards/N), or a bare project key with no URL at all.
// Keys are matched case-insensitively and returned uppercased.
func ParseResource(s string) Resource {
	s = strings.TrimSpace(s)
	if s == "" {
		return Resource{Kind: KindUnrecognized}
	}

	if m := boardPath.FindStringSubmatch(s); m != nil {
		return Resource{Kind: KindBoard, ProjectKey: strings.ToUpper(m[1]), BoardID: m[2]}
	}
	if m := issuePath.FindStringSubmatch(s); m != nil {
		key := strings.ToUpper(m[1])
		return Resource{Kind: KindIssue, ProjectKey: key, IssueKey: key + "-" + m[2]}
	}
	if m := projPath.FindStringSubmatch(s); m != nil {
		return Resource{Kind: KindProject, ProjectKey: strings.ToUpper(m[1])}
	}
	if bareKey.MatchString(s) {
		return Resource{Kind: KindProject, ProjectKey: strings.ToUpper(s)}
	}
	return Resource{Kind: KindUnrecognized}
}
