// pkg/model/table.go
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the value held by a Cell
type CellKind uint8

const (
	// CellMissing marks a null/missing value
	CellMissing CellKind = iota
	// CellNumber holds a float64
	CellNumber
	// CellText holds a string
	CellText
)

// Cell is a single typed value in a column
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// Missing returns a missing cell
func Missing() Cell { return Cell{Kind: CellMissing} }

// Number returns a numeric cell. Negative zero is normalized to zero so that
// value equality matches numeric equality.
func Number(f float64) Cell {
	if f == 0 {
		f = 0
	}
	return Cell{Kind: CellNumber, Num: f}
}

// Text returns a text cell
func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

// IsMissing reports whether the cell is missing
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// IsNumber reports whether the cell holds a number
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// Equal reports value equality. Two missing cells are equal.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Text == o.Text
	default:
		return true
	}
}

// String renders the cell for display and delimited export; missing renders empty
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// key returns an unambiguous encoding of the cell used for row and value keys
func (c Cell) key() string {
	switch c.Kind {
	case CellNumber:
		return "n" + strconv.FormatFloat(c.Num, 'g', -1, 64)
	case CellText:
		return "t" + strconv.Itoa(len(c.Text)) + ":" + c.Text
	default:
		return "m"
	}
}

// Key returns a value key for the cell; equal cells share a key
func (c Cell) Key() string { return c.key() }

// Column is a named, ordered sequence of cells
type Column struct {
	Name  string
	Cells []Cell
}

// Len returns the number of cells in the column
func (col Column) Len() int { return len(col.Cells) }

// Type classifies the column from its current values. It is computed on every
// call so it always reflects the latest cells.
func (col Column) Type() ColumnType {
	if len(col.Cells) == 0 {
		return Categorical
	}
	for _, c := range col.Cells {
		if c.Kind == CellText {
			return Categorical
		}
	}
	return Numeric
}

// MissingCount returns the number of missing cells
func (col Column) MissingCount() int {
	n := 0
	for _, c := range col.Cells {
		if c.IsMissing() {
			n++
		}
	}
	return n
}

// HasMissing reports whether any cell is missing
func (col Column) HasMissing() bool {
	for _, c := range col.Cells {
		if c.IsMissing() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the column
func (col Column) Clone() Column {
	cells := make([]Cell, len(col.Cells))
	copy(cells, col.Cells)
	return Column{Name: col.Name, Cells: cells}
}

var (
	// ErrRaggedTable is returned when columns have different lengths
	ErrRaggedTable = errors.New("all columns must have the same length")
	// ErrDuplicateColumn is returned when two columns share a name
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrEmptyColumnName is returned for a column without a name
	ErrEmptyColumnName = errors.New("column name cannot be empty")
)

// Table is an ordered set of equal-length named columns
type Table struct {
	Columns []Column
}

// NewTable builds a table and validates that column names are unique and
// that every column has the same length
func NewTable(cols ...Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}
		if col.Len() != cols[0].Len() {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrRaggedTable, col.Name, col.Len(), cols[0].Len())
		}
	}
	return &Table{Columns: cols}, nil
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column
func (t *Table) Column(name string) (Column, bool) {
	if i := t.ColumnIndex(name); i >= 0 {
		return t.Columns[i], true
	}
	return Column{}, false
}

// Row returns the cells of row i in column order
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Cells[i]
	}
	return row
}

// RowKey returns a full-row value key; two rows share a key iff every cell is equal
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, col := range t.Columns {
		if j > 0 {
			b.WriteByte('|')
		}
		b.WriteString(col.Cells[i].key())
	}
	return b.String()
}

// RowHasMissing reports whether row i contains at least one missing cell
func (t *Table) RowHasMissing(i int) bool {
	for _, col := range t.Columns {
		if col.Cells[i].IsMissing() {
			return true
		}
	}
	return false
}

// SelectRows returns a new table holding the given rows in the given order,
// indexed contiguously from zero
func (t *Table) SelectRows(rows []int) *Table {
	cols := make([]Column, len(t.Columns))
	for j, col := range t.Columns {
		cells := make([]Cell, len(rows))
		for k, r := range rows {
			cells[k] = col.Cells[r]
		}
		cols[j] = Column{Name: col.Name, Cells: cells}
	}
	return &Table{Columns: cols}
}

// Head returns a copy of the first n rows
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.SelectRows(rows)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	cols := make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = col.Clone()
	}
	return &Table{Columns: cols}
}

// Equal reports whether both tables have the same columns, in the same order,
// holding equal values
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || t.NumRows() != o.NumRows() {
		return false
	}
	for j, col := range t.Columns {
		other := o.Columns[j]
		if col.Name != other.Name {
			return false
		}
		for i, c := range col.Cells {
			if !c.Equal(other.Cells[i]) {
				return false
			}
		}
	}
	return true
}
