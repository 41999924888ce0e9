// Package export renders a report to its portable forms: the JSON document
// used for file export/import, a self-contained HTML document for offline
// viewing, and a free-text digest of recent issues.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/natefinch/atomic"

	"github.com/hazyhaar/a11yreport/report"
)

// EncodeJSON renders the report as the portable JSON document. The document
// carries the tracker config verbatim when present; see DESIGN.md on the
// credential exposure this implies.
func EncodeJSON(r report.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses a portable report document. Structural validation covers
// only the top-level shape; malformed issues inside an otherwise valid
// document pass through unexamined.
func DecodeJSON(raw []byte) (report.Report, error) {
	if err := report.ValidateStructure(raw); err != nil {
		return report.Report{}, err
	}
	var r report.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", report.ErrInvalidReport, err)
	}
	return r, nil
}

// WriteFile writes an export atomically so a crash mid-write never leaves a
// truncated document behind.
func WriteFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
