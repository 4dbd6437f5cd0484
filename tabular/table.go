package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is a single record keyed by column name. Cell values are one of:
// nil (missing), string, int64, float64, bool, Date or []string.
type Row map[string]any

// Table is an in-memory tabular snapshot. Columns preserves the source
// column order, which matters for exports that must match the input shape.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the schema if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// RenameColumn renames a column in the schema and in every row. Renaming
// an absent column is a no-op.
func (t *Table) RenameColumn(from, to string) {
	if from == to || !t.HasColumn(from) {
		return
	}
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
			break
		}
	}
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
			delete(row, from)
		}
	}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table. Derivation stages annotate rows
// in place, so callers that need the original untouched clone first.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows = append(out.Rows, dup)
	}
	return out
}

// Filter returns a new table containing the rows for which keep returns
// true. Row maps are shared with the receiver, not copied.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Append(row)
		}
	}
	return out
}

// String returns the cell as a string. Missing cells and non-string
// values report false.
func (r Row) String(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return s, true
}

// Float returns the cell as a float64, parsing string cells on demand.
// Missing, empty or unparsable cells report false.
func (r Row) Float(column string) (float64, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int64 returns the cell as an int64. String cells are parsed; float
// cells must be whole numbers.
func (r Row) Int64(column string) (int64, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		return int64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Date returns the cell as a calendar Date. Only cells already converted
// by the temporal stage report true.
func (r Row) Date(column string) (Date, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return Date{}, false
	}
	d, ok := v.(Date)
	if !ok || d.IsZero() {
		return Date{}, false
	}
	return d, true
}

// Bool returns the cell as a boolean. Missing cells report false, false.
func (r Row) Bool(column string) (bool, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// FormatCell renders a cell value for delimited output.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case Date:
		return x.String()
	case []string:
		return strings.Join(x, "; ")
	default:
		return fmt.Sprintf("%v", x)
	}
}
