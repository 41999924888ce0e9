package report

import (
	"encoding/json"
	"fmt"
)

// ValidateStructure checks the minimal structural shape of a raw report
// document: id and name must be strings, pages and issues must be arrays,
// createdAt and updatedAt must be strings. Issue-level shape is deliberately
// NOT validated; malformed issues inside an otherwise valid report are
// accepted as-is. This matches the permissive import contract.
func ValidateStructure(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: not a JSON object: %v", ErrInvalidReport, err)
	}

	for _, field := range []string{"id", "name", "createdAt", "updatedAt"} {
		v, ok := doc[field]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidReport, field)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("%w: field %q is not a string", ErrInvalidReport, field)
		}
	}

	for _, field := range []string{"pages", "issues"} {
		v, ok := doc[field]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidReport, field)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err != nil {
			return fmt.Errorf("%w: field %q is not an array", ErrInvalidReport, field)
		}
	}

	return nil
}
