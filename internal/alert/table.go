package alert

import "fmt"

// Table is an ordered sequence of notice rows sharing one column schema.
// Row order is the order the rows appear on the page (reverse chronological
// as published). Tables are value-semantics containers: the transforms below
// never mutate their receiver.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable creates a table with the given columns and no rows.
func NewTable(columns []string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0),
	}
}

// Append adds a row. The row must match the column count.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name), or "" if out of range.
func (t *Table) Cell(row int, column string) string {
	ci := t.ColumnIndex(column)
	if ci < 0 || row < 0 || row >= len(t.Rows) || ci >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][ci]
}

// FirstRevisions returns a new table containing only rows whose Rev column
// equals "1" (the original notice for each event), preserving relative row
// order. Later corrections and retractions are dropped. Applying it again to
// its own output returns an equal table.
func (t *Table) FirstRevisions() (*Table, error) {
	ri := t.ColumnIndex(ColRev)
	if ri < 0 {
		return nil, fmt.Errorf("table has no %q column", ColRev)
	}

	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		if row[ri] == FirstRevision {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Drop returns a new table with the named columns removed from the schema
// and from every row. Unknown names are ignored. Row order is preserved.
func (t *Table) Drop(columns ...string) *Table {
	dropped := make(map[int]bool, len(columns))
	for _, name := range columns {
		if i := t.ColumnIndex(name); i >= 0 {
			dropped[i] = true
		}
	}

	keep := make([]int, 0, len(t.Columns))
	for i := range t.Columns {
		if !dropped[i] {
			keep = append(keep, i)
		}
	}

	out := &Table{
		Columns: make([]string, 0, len(keep)),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, row := range t.Rows {
		projected := make([]string, 0, len(keep))
		for _, i := range keep {
			projected = append(projected, row[i])
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// Alerts converts every row into a typed Alert record.
func (t *Table) Alerts() []*Alert {
	alerts := make([]*Alert, 0, len(t.Rows))
	for _, row := range t.Rows {
		alerts = append(alerts, FromRow(t.Columns, row))
	}
	return alerts
}
