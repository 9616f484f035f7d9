// Package format coerces table column values to requested types. Apply is
// the sole mutating operation in the engine: it rewrites columns of the
// table it is given in place and returns it.
package format

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	scruberrors "github.com/paveg/scrub/internal/errors"
	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/table"
	"github.com/paveg/scrub/internal/value"
)

const op = "FormatValues"

// Requested type tags.
const (
	TagString = "str"
	TagInt    = "int"
	TagFloat  = "float"
	TagYesNo  = "yn"
)

// Apply coerces the columns named in dtypes to the requested tags and then
// fills every remaining null cell of the table with fill. No column is
// rewritten until every targeted column has coerced cleanly, so a failed
// call leaves the table untouched.
func Apply(t *table.Table, dtypes map[string]string, fill value.Value, mem memory.Allocator) (*table.Table, error) {
	for name, tag := range dtypes {
		if !t.HasColumn(name) {
			return nil, scruberrors.NewUnknownColumnError(op, name)
		}
		switch tag {
		case TagString, TagInt, TagFloat, TagYesNo:
		default:
			return nil, scruberrors.NewInvalidInputError(op,
				fmt.Sprintf("unknown type tag '%s' for column '%s'", tag, name))
		}
	}

	// Coerce into memory first; mutate only after full success.
	coerced := make(map[string]series.ISeries, len(dtypes))
	for name, tag := range dtypes {
		col, err := coerceColumn(t, name, tag, fill, mem)
		if err != nil {
			for _, s := range coerced {
				s.Release()
			}
			return nil, err
		}
		coerced[name] = col
	}
	for _, col := range coerced {
		t.SetColumn(col)
	}

	fillRemainingNulls(t, fill, mem)
	return t, nil
}

func coerceColumn(t *table.Table, name, tag string, fill value.Value, mem memory.Allocator) (series.ISeries, error) {
	cells := t.ColumnCells(name)
	out := make([]value.Value, len(cells))

	for i, c := range cells {
		// Rule 1: null, empty or NaN-like cells take the fill value,
		// itself carried to the requested tag.
		if c.IsMissing() {
			if fill.IsNull() {
				out[i] = value.Null()
				continue
			}
			fv := fill
			if tagOf(fv) != tag {
				coercedFill, ok := coerce(fv, tag)
				if !ok {
					return nil, scruberrors.NewUnconvertibleValueError(op, name,
						fill.Kind().String(), fill.Render(), tag)
				}
				fv = coercedFill
			}
			out[i] = fv
			continue
		}

		// Rule 2: values already carrying the requested tag pass through.
		if tagOf(c) == tag {
			out[i] = c
			continue
		}

		// Rule 3: first matching coercion rule.
		cv, ok := coerce(c, tag)
		if !ok {
			return nil, scruberrors.NewUnconvertibleValueError(op, name,
				c.Kind().String(), c.Render(), tag)
		}
		out[i] = cv
	}

	col, err := series.FromValues(name, storageKind(tag), out, mem)
	if err != nil {
		return nil, scruberrors.NewInternalError(op, err)
	}
	return col, nil
}

// tagOf reports the current type tag of a cell. Yes/No strings read as yn.
func tagOf(c value.Value) string {
	switch c.Kind() {
	case value.KindBool:
		return "bool"
	case value.KindInt:
		return TagInt
	case value.KindFloat:
		return TagFloat
	case value.KindString:
		if s := c.Str(); s == "Yes" || s == "No" {
			return TagYesNo
		}
		return TagString
	default:
		return "null"
	}
}

// storageKind maps a requested tag to the cell kind backing the column.
func storageKind(tag string) value.Kind {
	switch tag {
	case TagInt:
		return value.KindInt
	case TagFloat:
		return value.KindFloat
	default:
		return value.KindString
	}
}

// coerce bridges a cell to the requested tag. The rules are a total
// function over the closed kind enum; a false return means no rule exists.
func coerce(c value.Value, tag string) (value.Value, bool) {
	switch tag {
	case TagString:
		// Generic textual rendering accepts any value.
		return value.String(c.Render()), true

	case TagInt:
		switch c.Kind() {
		case value.KindString:
			if value.IsIntegerString(c.Str()) {
				n, err := strconv.ParseInt(c.Str(), 10, 64)
				if err == nil {
					return value.Int(n), true
				}
			}
		case value.KindFloat:
			// Floats narrow only when there is no fractional part.
			if c.Float() == float64(int64(c.Float())) {
				return value.Int(int64(c.Float())), true
			}
		}

	case TagFloat:
		switch c.Kind() {
		case value.KindString:
			if value.IsDecimalString(c.Str()) {
				f, err := strconv.ParseFloat(c.Str(), 64)
				if err == nil {
					return value.Float(f), true
				}
			}
		case value.KindInt:
			return value.Float(float64(c.Int())), true
		}

	case TagYesNo:
		switch c.Kind() {
		case value.KindString:
			switch c.Str() {
			case "1", "True":
				return value.String("Yes"), true
			case "0", "False":
				return value.String("No"), true
			}
		case value.KindBool:
			if c.Bool() {
				return value.String("Yes"), true
			}
			return value.String("No"), true
		}
	}

	return value.Null(), false
}

// fillRemainingNulls replaces null cells across the whole table with fill,
// wherever a coercion rule can carry fill to the column's kind. Columns
// the fill cannot represent keep their nulls rather than mixing kinds.
func fillRemainingNulls(t *table.Table, fill value.Value, mem memory.Allocator) {
	if fill.IsNull() {
		return
	}

	for _, name := range t.Columns() {
		kind, ok := t.ColumnKind(name)
		if !ok {
			continue
		}
		fv, ok := coerceToKind(fill, kind)
		if !ok {
			continue
		}

		cells := t.ColumnCells(name)
		dirty := false
		for i, c := range cells {
			if c.IsNull() {
				cells[i] = fv
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		if col, err := series.FromValues(name, kind, cells, mem); err == nil {
			t.SetColumn(col)
		}
	}
}

// coerceToKind carries fill to a column's storage kind.
func coerceToKind(fill value.Value, kind value.Kind) (value.Value, bool) {
	if fill.Kind() == kind {
		return fill, true
	}
	switch kind {
	case value.KindString:
		return coerce(fill, TagString)
	case value.KindInt:
		return coerce(fill, TagInt)
	case value.KindFloat:
		return coerce(fill, TagFloat)
	default:
		return value.Null(), false
	}
}
