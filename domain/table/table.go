// Package table holds the in-memory column store the pipeline stages read and derive from.
package table

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"cordex/internal/errors"
)

// ColumnType is the inferred storage type of a column
type ColumnType string

const (
	ColumnNumeric   ColumnType = "numeric"
	ColumnInteger   ColumnType = "integer"
	ColumnText      ColumnType = "text"
	ColumnTimestamp ColumnType = "timestamp"
)

// IsNumeric reports whether describe-style statistics apply to the column type
func (t ColumnType) IsNumeric() bool {
	return t == ColumnNumeric || t == ColumnInteger
}

// Column is a named, typed sequence of cells
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// MissingCount counts the missing cells of the column
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing() {
			n++
		}
	}
	return n
}

// Table is an immutable, ordered set of equally long columns.
// Transformations return new tables; columns that are not touched are shared.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. All columns must have the same length and distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate column %q", col.Name))
		}
		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q has %d rows, expected %d", col.Name, len(col.Values), t.rows))
		}
		t.index[col.Name] = i
	}
	t.columns = columns
	return t, nil
}

// MustNew is New for statically known inputs
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count
func (t *Table) NumColumns() int { return len(t.columns) }

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) { return t.rows, len(t.columns) }

// Columns returns the columns in order. Callers must not mutate them.
func (t *Table) Columns() []*Column { return t.columns }

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table has a column called name
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column or a COLUMN_NOT_FOUND error
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.ColumnNotFound(name)
	}
	return t.columns[i], nil
}

// WithColumn returns a table with col appended, or replacing the column of the same name in place
func (t *Table) WithColumn(col *Column) (*Table, error) {
	if len(t.columns) > 0 && len(col.Values) != t.rows {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q has %d rows, expected %d", col.Name, len(col.Values), t.rows))
	}
	cols := make([]*Column, len(t.columns), len(t.columns)+1)
	copy(cols, t.columns)
	if i, ok := t.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Drop returns a table without the named column. A missing column is an error, not a no-op.
func (t *Table) Drop(name string) (*Table, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.ColumnNotFound(name)
	}
	cols := make([]*Column, 0, len(t.columns)-1)
	cols = append(cols, t.columns[:i]...)
	cols = append(cols, t.columns[i+1:]...)
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// Select projects the named columns in the given order
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// Take returns the rows at the given indices, in that order
func (t *Table) Take(indices []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		values := make([]Value, len(indices))
		for j, idx := range indices {
			values[j] = c.Values[idx]
		}
		cols[i] = &Column{Name: c.Name, Type: c.Type, Values: values}
	}
	return &Table{columns: cols, index: t.index, rows: len(indices)}
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.rows))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}

// Row returns the cells of row i in column order
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Records returns all rows as cells, for rendering
func (t *Table) Records() [][]Value {
	out := make([][]Value, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Info renders the column-info block: index range, per-column non-null counts and types.
func (t *Table) Info() string {
	var buf bytes.Buffer
	if t.rows == 0 {
		fmt.Fprintf(&buf, "RangeIndex: 0 entries\n")
	} else {
		fmt.Fprintf(&buf, "RangeIndex: %d entries, 0 to %d\n", t.rows, t.rows-1)
	}
	fmt.Fprintf(&buf, "Data columns (total %d columns):\n", len(t.columns))

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " #\tColumn\tNon-Null Count\tType")
	fmt.Fprintln(w, "---\t------\t--------------\t----")
	tally := make(map[ColumnType]int)
	for i, c := range t.columns {
		fmt.Fprintf(w, " %d\t%s\t%d non-null\t%s\n", i, c.Name, t.rows-c.MissingCount(), c.Type)
		tally[c.Type]++
	}
	w.Flush()

	types := make([]string, 0, len(tally))
	for typ, n := range tally {
		types = append(types, fmt.Sprintf("%s(%d)", typ, n))
	}
	sort.Strings(types)
	fmt.Fprintf(&buf, "types: %s\n", strings.Join(types, ", "))
	return buf.String()
}
