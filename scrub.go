// Package scrub provides automated data-quality triage for in-memory
// rectangular datasets. This package is the sole public API for the
// library: it flags suspect rows, profiles columns statistically, removes
// duplicate records and coerces column values to declared types.
//
// Flag, Describe and Clean work on private copies and never mutate a
// caller-supplied table; FormatValues is the one mutating operation. An
// Engine is not safe for concurrent use.
package scrub

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/scrub/internal/config"
	scruberrors "github.com/paveg/scrub/internal/errors"
	"github.com/paveg/scrub/internal/format"
	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/table"
	"github.com/paveg/scrub/internal/triage"
	"github.com/paveg/scrub/internal/value"
)

// ISeries provides a type-erased interface for Series of any type.
type ISeries = series.ISeries

// Value is a single tagged cell value.
type Value = value.Value

// Kind identifies the type of a cell value.
type Kind = value.Kind

// Cell kinds.
const (
	KindNull   = value.KindNull
	KindBool   = value.KindBool
	KindInt    = value.KindInt
	KindFloat  = value.KindFloat
	KindString = value.KindString
)

// Null returns the null cell value.
func Null() Value { return value.Null() }

// BoolValue wraps a boolean cell value.
func BoolValue(b bool) Value { return value.Bool(b) }

// IntValue wraps an integer cell value.
func IntValue(i int64) Value { return value.Int(i) }

// FloatValue wraps a floating-point cell value.
func FloatValue(f float64) Value { return value.Float(f) }

// StringValue wraps a string cell value.
func StringValue(s string) Value { return value.String(s) }

// Method selects which flag columns Flag appends.
type Method = triage.Method

// Flagging methods.
const (
	MethodDuplicates = triage.MethodDuplicates
	MethodNull       = triage.MethodNull
)

// Names of the appended flag columns.
const (
	DuplicatesColumn = triage.DuplicatesColumn
	NullColumn       = triage.NullColumn
)

// Requested type tags accepted by FormatValues.
const (
	TagString = format.TagString
	TagInt    = format.TagInt
	TagFloat  = format.TagFloat
	TagYesNo  = format.TagYesNo
)

// Description holds the per-column statistical profile of a table.
type Description = triage.Description

// ColumnStats is the fixed per-column record of a Description.
type ColumnStats = triage.ColumnStats

// Config represents engine tunables.
type Config = config.Config

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config { return config.NewConfig() }

// LoadConfigFromFile loads a configuration from a JSON or YAML file.
func LoadConfigFromFile(filename string) (Config, error) {
	return config.LoadFromFile(filename)
}

// LoadConfigFromEnv loads a configuration from SCRUB_* environment variables.
func LoadConfigFromEnv() Config { return config.LoadFromEnv() }

// SetGlobalConfig sets the process-global configuration new engines start from.
func SetGlobalConfig(cfg Config) { config.SetGlobalConfig(cfg) }

// TriageError is the standardized error type returned by all operations.
type TriageError = scruberrors.TriageError

// Error kind predicates.
var (
	IsInvalidInput       = scruberrors.IsInvalidInput
	IsInvalidMethod      = scruberrors.IsInvalidMethod
	IsUnknownColumn      = scruberrors.IsUnknownColumn
	IsUnconvertibleValue = scruberrors.IsUnconvertibleValue
)

// Table is the public type for a rectangular dataset with named, ordered
// columns. It wraps the internal table to hide implementation details.
// The first column is treated as the row's natural identifier.
type Table struct {
	t *table.Table
}

// NewSeries creates a new typed column from values.
func NewSeries[T any](name string, values []T) ISeries {
	return series.New(name, values, memory.NewGoAllocator())
}

// NewNullableSeries creates a typed column with a validity mask;
// valid[i] == false marks row i as null.
func NewNullableSeries[T any](name string, values []T, valid []bool) ISeries {
	return series.NewNullable(name, values, valid, memory.NewGoAllocator())
}

// NewTable creates a new Table from columns.
func NewTable(cols ...ISeries) *Table {
	return &Table{t: table.New(cols...)}
}

// NewTableFromMap builds a Table from a column-name to value-sequence
// mapping. Names are sorted for determinism; nil entries become nulls.
func NewTableFromMap(m map[string][]any) (*Table, error) {
	t, err := table.FromMap(m, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return t.t.Columns() }

// Len returns the number of rows.
func (t *Table) Len() int { return t.t.Len() }

// Width returns the number of columns.
func (t *Table) Width() int { return t.t.Width() }

// HasColumn checks if a column exists.
func (t *Table) HasColumn(name string) bool { return t.t.HasColumn(name) }

// Column returns the series for the given column name.
func (t *Table) Column(name string) (ISeries, bool) { return t.t.Column(name) }

// Cell returns the value at the given row of the named column.
func (t *Table) Cell(row int, name string) Value { return t.t.Cell(row, name) }

// String returns a string representation of the Table.
func (t *Table) String() string { return t.t.String() }

// Release releases all underlying Arrow memory.
func (t *Table) Release() { t.t.Release() }

func (t *Table) unwrap() *table.Table {
	if t == nil {
		return nil
	}
	return t.t
}

func wrapTable(t *table.Table) *Table {
	if t == nil {
		return nil
	}
	return &Table{t: t}
}

// Engine is the public type for the triage engine. It owns a private deep
// copy of its input and never mutates the caller's table except through
// FormatValues.
type Engine struct {
	eng *triage.Engine
}

// New constructs an engine from a *Table or a map[string][]any column
// mapping. Methods default to both duplicates and null detection.
func New(target any, methods ...Method) (*Engine, error) {
	return newEngine(target, methods)
}

// NewWithConfig constructs an engine with an explicit configuration
// instead of the process-global one.
func NewWithConfig(cfg Config, target any, methods ...Method) (*Engine, error) {
	return newEngine(target, methods, triage.WithConfig(cfg))
}

func newEngine(target any, methods []Method, opts ...triage.Option) (*Engine, error) {
	if t, ok := target.(*Table); ok {
		if t == nil {
			return nil, scruberrors.NewInvalidInputError("New", "table must not be nil")
		}
		target = t.t
	}
	eng, err := triage.New(target, methods, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{eng: eng}, nil
}

// Identifiers returns the unique identifier set chosen at construction.
func (e *Engine) Identifiers() []string { return e.eng.Identifiers() }

// Table returns the engine-owned copy of the input table.
func (e *Engine) Table() *Table { return wrapTable(e.eng.Table()) }

// Describe computes the statistical profile of the given table, or of the
// internal table when t is nil.
func (e *Engine) Describe(t *Table) (*Description, error) {
	return e.eng.Describe(t.unwrap())
}

// Flag returns a flagged copy of the given table, or of the internal
// table when t is nil, with the requested flag columns appended.
func (e *Engine) Flag(t *Table) (*Table, error) {
	flagged, err := e.eng.Flag(t.unwrap())
	if err != nil {
		return nil, err
	}
	return wrapTable(flagged), nil
}

// Clean returns the given table, or the internal table when t is nil,
// with duplicate rows removed and flag columns stripped.
func (e *Engine) Clean(t *Table) (*Table, error) {
	cleaned, err := e.eng.Clean(t.unwrap())
	if err != nil {
		return nil, err
	}
	return wrapTable(cleaned), nil
}

// FormatValues coerces the columns named in dtypes to the requested type
// tags, filling missing cells with fillEmpty (nil means null). The target
// table is mutated in place and returned; a nil target formats the
// engine's internal table.
func (e *Engine) FormatValues(dtypes map[string]string, t *Table, fillEmpty any) (*Table, error) {
	fill, err := value.FromAny(fillEmpty)
	if err != nil {
		return nil, scruberrors.NewInvalidInputError("FormatValues", err.Error())
	}

	formatted, err := e.eng.FormatValues(dtypes, t.unwrap(), fill)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	return wrapTable(formatted), nil
}
