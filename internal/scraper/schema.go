package scraper

import (
	"fmt"
	"strings"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
)

// Schema names the columns the notices table is expected to publish, in
// order. Extraction checks the page's headers against it and fails with a
// SchemaError on drift, rather than reading cells by bare index.
type Schema struct {
	// Columns maps position to expected header text.
	Columns []string
	// SkipHeaderCells is the number of leading grouping <th> cells before
	// the per-column headers (the page puts section labels there).
	SkipHeaderCells int
	// SkipHeaderRows is the number of leading <tr> rows that carry headers
	// rather than data.
	SkipHeaderRows int
}

// NoticesSchema describes the GCN GOLD/BRONZE notices table as published:
// two grouping cells and two header rows ahead of ten data columns.
func NoticesSchema() Schema {
	return Schema{
		Columns: []string{
			alert.ColRunEvent,
			alert.ColRev,
			alert.ColDate,
			alert.ColTimeUT,
			alert.ColNoticeType,
			alert.ColRA,
			alert.ColDec,
			alert.ColError90,
			alert.ColError50,
			alert.ColEnergy,
		},
		SkipHeaderCells: 2,
		SkipHeaderRows:  2,
	}
}

// Validate checks page headers against the schema. The headers passed in are
// the per-column headers after the leading grouping cells have been skipped.
func (s Schema) Validate(headers []string) error {
	if len(headers) != len(s.Columns) {
		return &SchemaError{
			Reason: fmt.Sprintf("expected %d columns, page has %d", len(s.Columns), len(headers)),
		}
	}
	for i, want := range s.Columns {
		if !strings.EqualFold(normalizeHeader(headers[i]), normalizeHeader(want)) {
			return &SchemaError{
				Column: want,
				Reason: fmt.Sprintf("position %d: expected %q, page has %q", i, want, headers[i]),
			}
		}
	}
	return nil
}

// normalizeHeader collapses runs of whitespace so header cells that wrap
// across lines on the page still compare equal.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(h), " ")
}

// SchemaError reports a mismatch between the page's table layout and the
// expected column schema.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("table schema mismatch at column %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("table schema mismatch: %s", e.Reason)
}

// RowPolicy selects how extraction treats data rows with fewer cells than
// the schema has columns.
type RowPolicy string

const (
	// RowPolicySkip drops short rows silently.
	RowPolicySkip RowPolicy = "skip"
	// RowPolicyPad fills missing trailing cells with empty strings.
	RowPolicyPad RowPolicy = "pad"
	// RowPolicyFail aborts extraction on the first short row.
	RowPolicyFail RowPolicy = "fail"
)

// ParseRowPolicy validates a policy name from flags or config.
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch RowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case RowPolicySkip:
		return RowPolicySkip, nil
	case RowPolicyPad:
		return RowPolicyPad, nil
	case RowPolicyFail, "":
		return RowPolicyFail, nil
	}
	return "", fmt.Errorf("invalid row policy: %q (must be skip, pad or fail)", s)
}
