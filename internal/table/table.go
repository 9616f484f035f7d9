// Package table provides the ordered-column table underlying triage operations
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	scruberrors "github.com/paveg/scrub/internal/errors"
	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/value"
)

// Table represents a rectangular dataset with named, ordered columns.
// The first column is treated as the row's natural identifier downstream.
type Table struct {
	columns map[string]series.ISeries
	order   []string // Maintains column order
}

// New creates a new Table from a slice of ISeries
func New(cols ...series.ISeries) *Table {
	columns := make(map[string]series.ISeries)
	order := make([]string, 0, len(cols))

	for _, s := range cols {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &Table{
		columns: columns,
		order:   order,
	}
}

// FromMap builds a Table from a mapping of column name to value sequence.
// Column names are sorted for determinism since Go maps carry no order.
// Nil entries become nulls; a column mixing ints and floats is widened to
// float, any other kind mix is rejected.
func FromMap(m map[string][]any, mem memory.Allocator) (*Table, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]series.ISeries, 0, len(names))
	for _, name := range names {
		cells := make([]value.Value, len(m[name]))
		kind := value.KindNull
		for i, raw := range m[name] {
			v, err := value.FromAny(raw)
			if err != nil {
				return nil, scruberrors.NewInvalidInputError("FromMap",
					fmt.Sprintf("column '%s': %v", name, err))
			}
			cells[i] = v
			if v.IsNull() {
				continue
			}
			switch {
			case kind == value.KindNull:
				kind = v.Kind()
			case kind == v.Kind():
			case kind == value.KindInt && v.Kind() == value.KindFloat:
				kind = value.KindFloat
			case kind == value.KindFloat && v.Kind() == value.KindInt:
			default:
				return nil, scruberrors.NewInvalidInputError("FromMap",
					fmt.Sprintf("column '%s' mixes %s and %s values", name, kind, v.Kind()))
			}
		}
		if kind == value.KindFloat {
			for i, c := range cells {
				if c.Kind() == value.KindInt {
					cells[i] = value.Float(float64(c.Int()))
				}
			}
		}
		col, err := series.FromValues(name, kind, cells, mem)
		if err != nil {
			return nil, scruberrors.NewInternalError("FromMap", err)
		}
		cols = append(cols, col)
	}

	t := New(cols...)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Columns returns the names of all columns in order
func (t *Table) Columns() []string {
	if len(t.order) == 0 {
		return []string{}
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (t *Table) Len() int {
	if len(t.order) == 0 {
		return 0
	}
	if s, exists := t.columns[t.order[0]]; exists {
		return s.Len()
	}
	return 0
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Column returns the series for the given column name
func (t *Table) Column(name string) (series.ISeries, bool) {
	s, exists := t.columns[name]
	return s, exists
}

// HasColumn checks if a column exists
func (t *Table) HasColumn(name string) bool {
	_, exists := t.columns[name]
	return exists
}

// Validate checks the equal-length invariant across all columns.
func (t *Table) Validate() error {
	if len(t.order) == 0 {
		return nil
	}
	length := t.Len()
	for _, name := range t.order {
		if t.columns[name].Len() != length {
			return scruberrors.ErrMismatchedLength
		}
	}
	return nil
}

// Select returns a new Table with only the specified columns
func (t *Table) Select(names ...string) *Table {
	newColumns := make(map[string]series.ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if s, exists := t.columns[name]; exists {
			newColumns[name] = s
			newOrder = append(newOrder, name)
		}
	}

	return &Table{
		columns: newColumns,
		order:   newOrder,
	}
}

// Drop returns a new Table without the specified columns
func (t *Table) Drop(names ...string) *Table {
	dropSet := make(map[string]bool)
	for _, name := range names {
		dropSet[name] = true
	}

	newColumns := make(map[string]series.ISeries)
	newOrder := make([]string, 0, len(t.order))

	for _, name := range t.order {
		if !dropSet[name] {
			newColumns[name] = t.columns[name]
			newOrder = append(newOrder, name)
		}
	}

	return &Table{
		columns: newColumns,
		order:   newOrder,
	}
}

// Cell returns the value at the given row of the named column. Missing
// columns and out-of-range rows read as null.
func (t *Table) Cell(row int, name string) value.Value {
	s, exists := t.columns[name]
	if !exists {
		return value.Null()
	}
	arr := s.Array()
	if arr == nil {
		return value.Null()
	}
	defer arr.Release()
	return series.CellAt(arr, row)
}

// ColumnCells reads the named column into tagged cell values.
func (t *Table) ColumnCells(name string) []value.Value {
	s, exists := t.columns[name]
	if !exists {
		return nil
	}
	arr := s.Array()
	if arr == nil {
		return nil
	}
	defer arr.Release()

	cells := make([]value.Value, arr.Len())
	for i := range cells {
		cells[i] = series.CellAt(arr, i)
	}
	return cells
}

// ColumnKind returns the cell kind stored in the named column.
func (t *Table) ColumnKind(name string) (value.Kind, bool) {
	s, exists := t.columns[name]
	if !exists {
		return value.KindNull, false
	}
	return series.KindOf(s.DataType()), true
}

// SetColumn replaces the named column in place, preserving its position,
// or appends it after all existing columns when the name is new.
func (t *Table) SetColumn(s series.ISeries) {
	name := s.Name()
	if old, exists := t.columns[name]; exists {
		old.Release()
		t.columns[name] = s
		return
	}
	t.columns[name] = s
	t.order = append(t.order, name)
}

// Copy creates a deep copy with independent Arrow memory, preserving nulls.
func (t *Table) Copy(mem memory.Allocator) *Table {
	cols := make([]series.ISeries, 0, len(t.order))
	for _, name := range t.order {
		cols = append(cols, t.copySeries(t.columns[name], mem))
	}
	return New(cols...)
}

// FilterRows returns a new Table holding only rows where keep[i] is true.
func (t *Table) FilterRows(keep []bool, mem memory.Allocator) *Table {
	cols := make([]series.ISeries, 0, len(t.order))
	for _, name := range t.order {
		s := t.columns[name]
		arr := s.Array()
		cells := make([]value.Value, 0, len(keep))
		for i := 0; i < arr.Len() && i < len(keep); i++ {
			if keep[i] {
				cells = append(cells, series.CellAt(arr, i))
			}
		}
		arr.Release()

		filtered, err := series.FromValues(name, series.KindOf(s.DataType()), cells, mem)
		if err != nil {
			// Kinds come from the source column, so rebuild cannot mismatch.
			panic(err)
		}
		cols = append(cols, filtered)
	}
	return New(cols...)
}

// copySeries creates a null-preserving copy of a series
func (t *Table) copySeries(s series.ISeries, mem memory.Allocator) series.ISeries {
	arr := s.Array()
	if arr == nil {
		return series.NewNullable(s.Name(), []string{}, nil, mem)
	}
	defer arr.Release()

	cells := make([]value.Value, arr.Len())
	for i := range cells {
		cells[i] = series.CellAt(arr, i)
	}

	copied, err := series.FromValues(s.Name(), series.KindOf(s.DataType()), cells, mem)
	if err != nil {
		panic(err)
	}
	return copied
}

// String returns a string representation of the Table
func (t *Table) String() string {
	if len(t.columns) == 0 {
		return "Table[empty]"
	}

	parts := []string{fmt.Sprintf("Table[%dx%d]", t.Len(), t.Width())}

	for _, name := range t.order {
		s := t.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, s.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// Release releases all underlying Arrow memory
func (t *Table) Release() {
	for _, s := range t.columns {
		s.Release()
	}
}
