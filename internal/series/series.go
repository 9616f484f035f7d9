// Package series provides data structures for column operations
package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/scrub/internal/value"
)

// Series represents a typed data column with Apache Arrow backend
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values with no nulls
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewNullable(name, values, nil, mem)
}

// NewNullable creates a new Series from a slice of values and a validity
// mask. A nil mask means every value is valid; otherwise valid[i] == false
// marks row i as null and values[i] is ignored.
func NewNullable[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	isValid := func(i int) bool {
		return valid == nil || valid[i]
	}

	var arr arrow.Array

	// Use type switching to create appropriate Arrow array
	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if isValid(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for i, val := range v {
			if isValid(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for i, val := range v {
			if isValid(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if isValid(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}

	return &Series[T]{
		name:  name,
		array: arr,
	}
}

// FromValues creates a type-erased series from tagged cell values. The
// column kind decides the backing Arrow array; every cell must be null or
// of that kind.
func FromValues(name string, kind value.Kind, cells []value.Value, mem memory.Allocator) (ISeries, error) {
	valid := make([]bool, len(cells))
	for i, c := range cells {
		valid[i] = !c.IsNull()
	}

	switch kind {
	case value.KindString:
		vals := make([]string, len(cells))
		for i, c := range cells {
			if valid[i] {
				if c.Kind() != value.KindString {
					return nil, fmt.Errorf("column %s: expected str cell, got %s", name, c.Kind())
				}
				vals[i] = c.Str()
			}
		}
		return NewNullable(name, vals, valid, mem), nil
	case value.KindInt:
		vals := make([]int64, len(cells))
		for i, c := range cells {
			if valid[i] {
				if c.Kind() != value.KindInt {
					return nil, fmt.Errorf("column %s: expected int cell, got %s", name, c.Kind())
				}
				vals[i] = c.Int()
			}
		}
		return NewNullable(name, vals, valid, mem), nil
	case value.KindFloat:
		vals := make([]float64, len(cells))
		for i, c := range cells {
			if valid[i] {
				if c.Kind() != value.KindFloat {
					return nil, fmt.Errorf("column %s: expected float cell, got %s", name, c.Kind())
				}
				vals[i] = c.Float()
			}
		}
		return NewNullable(name, vals, valid, mem), nil
	case value.KindBool:
		vals := make([]bool, len(cells))
		for i, c := range cells {
			if valid[i] {
				if c.Kind() != value.KindBool {
					return nil, fmt.Errorf("column %s: expected bool cell, got %s", name, c.Kind())
				}
				vals[i] = c.Bool()
			}
		}
		return NewNullable(name, vals, valid, mem), nil
	case value.KindNull:
		// All-null columns are stored as string arrays with every row null.
		return NewNullable(name, make([]string, len(cells)), make([]bool, len(cells)), mem), nil
	default:
		return nil, fmt.Errorf("column %s: unsupported column kind %s", name, kind)
	}
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Value returns the value at the given index
func (s *Series[T]) Value(index int) T {
	if index < 0 || index >= s.array.Len() {
		var zero T
		return zero
	}

	var result T

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = arr.Value(index)
		}
	}

	return result
}

// Cell returns the value at index as a tagged cell value.
func (s *Series[T]) Cell(index int) value.Value {
	return CellAt(s.array, index)
}

// DataType returns the Arrow data type
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull checks if the value at index is null
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)",
		s.array.DataType().Name(),
		s.name,
		s.Len())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}

// CellAt reads row index of an Arrow array as a tagged cell value.
func CellAt(arr arrow.Array, index int) value.Value {
	if arr == nil || index < 0 || index >= arr.Len() || arr.IsNull(index) {
		return value.Null()
	}

	switch typed := arr.(type) {
	case *array.String:
		return value.String(typed.Value(index))
	case *array.Int64:
		return value.Int(typed.Value(index))
	case *array.Float64:
		return value.Float(typed.Value(index))
	case *array.Boolean:
		return value.Bool(typed.Value(index))
	default:
		return value.Null()
	}
}

// KindOf maps an Arrow data type to the cell kind stored in it.
func KindOf(dt arrow.DataType) value.Kind {
	switch dt.ID() {
	case arrow.STRING:
		return value.KindString
	case arrow.INT64:
		return value.KindInt
	case arrow.FLOAT64:
		return value.KindFloat
	case arrow.BOOL:
		return value.KindBool
	default:
		return value.KindNull
	}
}
