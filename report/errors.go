package report

import "errors"

// ErrInvalidReport is returned when a report document fails structural
// validation on import or before a merge.
var ErrInvalidReport = errors.New("report: invalid report document")

// ErrNoReport is returned by operations that need a current report when
// none exists.
var ErrNoReport = errors.New("report: no current report")

// ErrIssueNotFound is returned when an operation references an unknown issue id.
var ErrIssueNotFound = errors.New("report: issue not found")
