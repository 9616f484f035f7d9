// Package triage implements the data-quality triage engine: row flagging,
// statistical description, duplicate-identifier inference and cleaning over
// in-memory tables. Flag, Describe and Clean operate on private copies and
// never mutate a caller-supplied table.
package triage

import (
	"log/slog"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	xxhash "github.com/cespare/xxhash/v2"

	"github.com/paveg/scrub/internal/config"
	scruberrors "github.com/paveg/scrub/internal/errors"
	"github.com/paveg/scrub/internal/format"
	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/table"
	"github.com/paveg/scrub/internal/value"
)

// Method selects which flag columns the engine appends.
type Method string

const (
	// MethodDuplicates appends a 0/1 duplicate indicator per row.
	MethodDuplicates Method = "duplicates"
	// MethodNull appends the count of null cells per row.
	MethodNull Method = "null"
)

// Names of the appended flag columns.
const (
	DuplicatesColumn = "duplicates"
	NullColumn       = "null"
)

// keySeparator joins identifier cell keys into one row key. The unit
// separator keeps adjacent cell renderings from running together.
const keySeparator = "\x1f"

// Engine performs triage over a privately owned copy of its input table.
// It is not safe for concurrent use; callers sharing one instance must
// serialize access or use independent instances.
type Engine struct {
	cfg     config.Config
	mem     memory.Allocator
	methods map[Method]bool

	tbl   *table.Table // engine-owned deep copy of the input
	idSet []string     // unique identifier set, fixed after construction

	// Explicit caches, refreshed only by calls that target the internal
	// table. External-table calls never touch them.
	lastFlagged *table.Table
	lastDesc    *Description
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithConfig overrides the process-global configuration for this engine.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithAllocator sets the Arrow allocator used for derived tables.
func WithAllocator(mem memory.Allocator) Option {
	return func(e *Engine) {
		e.mem = mem
	}
}

// New constructs an engine from a *table.Table or a map[string][]any
// column mapping. Methods default to both duplicates and null detection.
func New(target any, methods []Method, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg: config.GetGlobalConfig(),
		mem: memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, scruberrors.NewInternalError("New", err)
	}

	if len(methods) == 0 {
		methods = []Method{MethodDuplicates, MethodNull}
	}
	e.methods = make(map[Method]bool, len(methods))
	for _, m := range methods {
		if m != MethodDuplicates && m != MethodNull {
			return nil, scruberrors.NewInvalidMethodError("New", string(m))
		}
		e.methods[m] = true
	}

	switch t := target.(type) {
	case *table.Table:
		if t == nil {
			return nil, scruberrors.NewInvalidInputError("New", "table must not be nil")
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		e.tbl = t.Copy(e.mem)
	case map[string][]any:
		built, err := table.FromMap(t, e.mem)
		if err != nil {
			return nil, err
		}
		e.tbl = built
	default:
		return nil, scruberrors.NewInvalidInputError("New",
			"target must be a *table.Table or a map[string][]any column mapping")
	}

	// Initial state: an unflagged copy plus the description it was
	// profiled with, then the identifier set derived from the counts.
	e.lastFlagged = e.tbl.Copy(e.mem)
	desc, err := e.describeTable(e.tbl)
	if err != nil {
		return nil, err
	}
	e.lastDesc = desc
	e.idSet = inferIdentifiers(desc, e.tbl.Columns(), e.cfg.IdentifierCoverage)

	if e.cfg.VerboseLogging {
		slog.Debug("triage engine ready",
			"rows", e.tbl.Len(),
			"columns", e.tbl.Width(),
			"identifiers", strings.Join(e.idSet, ","))
	}

	return e, nil
}

// Identifiers returns the unique identifier set chosen at construction.
func (e *Engine) Identifiers() []string {
	return append([]string(nil), e.idSet...)
}

// Table returns the engine-owned table.
func (e *Engine) Table() *table.Table {
	return e.tbl
}

// LastFlagged returns the cached flagged table.
func (e *Engine) LastFlagged() *table.Table {
	return e.lastFlagged
}

// LastDescription returns the cached description.
func (e *Engine) LastDescription() *Description {
	return e.lastDesc
}

// inferIdentifiers selects the columns usable for duplicate detection:
// every column except the first whose non-null count reaches the coverage
// ratio of the maximum non-null count across all columns, but stays below
// that maximum. Columns with too many nulls are unreliable for matching;
// fully populated columns carry per-row payload data rather than record
// identity and are likewise excluded.
func inferIdentifiers(desc *Description, order []string, coverage float64) []string {
	countMax := 0
	for _, name := range order {
		if cs, ok := desc.Column(name); ok && cs.Count > countMax {
			countMax = cs.Count
		}
	}

	var idSet []string
	if len(order) == 0 {
		return idSet
	}
	for _, name := range order[1:] {
		cs, ok := desc.Column(name)
		if !ok || cs.Count >= countMax {
			continue
		}
		if float64(cs.Count) >= coverage*float64(countMax) {
			idSet = append(idSet, name)
		}
	}
	return idSet
}

// Describe computes the statistical profile of the given table, or of the
// internal table when t is nil. Only the nil-target form refreshes the
// cached description.
func (e *Engine) Describe(t *table.Table) (*Description, error) {
	target := t
	if target == nil {
		target = e.tbl
	}

	desc, err := e.describeTable(target)
	if err != nil {
		return nil, err
	}
	if t == nil {
		e.lastDesc = desc
	}
	return desc, nil
}

// Flag annotates a private copy of the target table with the requested
// flag columns: duplicates (1 for every later occurrence of an identifier
// tuple) and null (count of null cells across the row's data columns).
// Flag columns are appended after all data columns. Only the nil-target
// form refreshes the cached flagged table.
func (e *Engine) Flag(t *table.Table) (*table.Table, error) {
	target := t
	if target == nil {
		target = e.tbl
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	// Work on the data columns only so flagging an already-flagged
	// table yields identical flag values.
	work := target.Drop(DuplicatesColumn, NullColumn).Copy(e.mem)
	n := work.Len()
	dataCols := work.Columns()

	if e.methods[MethodDuplicates] {
		flags := e.duplicateFlags(work, n)
		work.SetColumn(series.New(DuplicatesColumn, flags, e.mem))
	}

	if e.methods[MethodNull] {
		counts := make([]int64, n)
		for i := 0; i < n; i++ {
			for _, name := range dataCols {
				// Same missing-value predicate as duplicate matching:
				// NaN floats count as null.
				if c := work.Cell(i, name); c.IsNull() || c.IsNaN() {
					counts[i]++
				}
			}
		}
		work.SetColumn(series.New(NullColumn, counts, e.mem))
	}

	if t == nil {
		if e.lastFlagged != nil && e.lastFlagged != e.tbl {
			e.lastFlagged.Release()
		}
		e.lastFlagged = work
	}
	return work, nil
}

// duplicateFlags marks every row whose identifier tuple was already seen
// on an earlier row. Row order decides the original: first occurrence
// stays 0. A null identifier cell never matches anything, including
// another null, so such rows are neither flagged nor recorded. An empty
// identifier set flags nothing.
func (e *Engine) duplicateFlags(work *table.Table, n int) []int64 {
	flags := make([]int64, n)
	if len(e.idSet) == 0 {
		return flags
	}

	type entry struct {
		key   string
		index int
	}
	seen := make(map[uint64][]entry)

	duplicates := 0
	for i := 0; i < n; i++ {
		parts := make([]string, 0, len(e.idSet))
		nullSeen := false
		for _, name := range e.idSet {
			c := work.Cell(i, name)
			if c.IsNull() || c.IsNaN() {
				nullSeen = true
				break
			}
			parts = append(parts, c.Key())
		}
		if nullSeen {
			continue
		}

		key := strings.Join(parts, keySeparator)
		hash := xxhash.Sum64String(key)

		matched := false
		for _, prev := range seen[hash] {
			if prev.key == key {
				matched = true
				break
			}
		}
		if matched {
			flags[i] = 1
			duplicates++
			continue
		}
		seen[hash] = append(seen[hash], entry{key: key, index: i})
	}

	if e.cfg.VerboseLogging {
		slog.Debug("duplicate flagging done", "rows", n, "duplicates", duplicates)
	}
	return flags
}

// Clean removes duplicate rows from the target table and strips the flag
// columns: a row survives when its first-column value occurs in the first
// column of some non-duplicate row. Rows with all-null data are not
// removed here; that belongs to a separate null-handling stage.
func (e *Engine) Clean(t *table.Table) (*table.Table, error) {
	external := t != nil

	var flagged *table.Table
	var dataCols []string
	if external {
		f, err := e.Flag(t)
		if err != nil {
			return nil, err
		}
		defer f.Release()
		flagged = f
		dataCols = dropFlagColumns(t.Columns())
	} else {
		flagged = e.lastFlagged
		if flagged == nil || (e.methods[MethodDuplicates] && !flagged.HasColumn(DuplicatesColumn)) {
			f, err := e.Flag(nil)
			if err != nil {
				return nil, err
			}
			flagged = f
		}
		dataCols = dropFlagColumns(e.tbl.Columns())
	}

	data := flagged.Select(dataCols...)
	if !flagged.HasColumn(DuplicatesColumn) || len(dataCols) == 0 {
		return data.Copy(e.mem), nil
	}

	idCol := dataCols[0]
	dup := flagged.ColumnCells(DuplicatesColumn)
	ids := flagged.ColumnCells(idCol)

	// Identifier values of the non-duplicate rows. Null identifiers
	// never participate in membership; an unflagged row with a null
	// identifier still retains itself.
	keep := make(map[string]bool)
	for i, d := range dup {
		if d.Int() == 0 && !ids[i].IsNull() && !ids[i].IsNaN() {
			keep[ids[i].Key()] = true
		}
	}

	mask := make([]bool, len(dup))
	for i := range mask {
		if ids[i].IsNull() || ids[i].IsNaN() {
			mask[i] = dup[i].Int() == 0
			continue
		}
		mask[i] = keep[ids[i].Key()]
	}

	cleaned := data.FilterRows(mask, e.mem)
	if e.cfg.VerboseLogging {
		slog.Debug("clean done", "rows_in", len(mask), "rows_out", cleaned.Len())
	}
	return cleaned, nil
}

// FormatValues coerces the columns named in dtypes to the requested type
// tags, filling missing cells with fill. This is the engine's sole
// mutating operation: the target table is rewritten in place and
// returned. A nil target formats the internal table, in which case the
// cached description and flagged table are rebuilt from the formatted
// data since the old ones no longer describe it.
func (e *Engine) FormatValues(dtypes map[string]string, t *table.Table, fill value.Value) (*table.Table, error) {
	target := t
	if target == nil {
		target = e.tbl
	}

	formatted, err := format.Apply(target, dtypes, fill, e.mem)
	if err != nil {
		return nil, err
	}

	if t == nil {
		if e.lastFlagged != nil {
			e.lastFlagged.Release()
		}
		e.lastFlagged = e.tbl.Copy(e.mem)
		desc, derr := e.describeTable(e.tbl)
		if derr != nil {
			return nil, derr
		}
		e.lastDesc = desc
	}
	return formatted, nil
}

// dropFlagColumns removes the appended flag column names.
func dropFlagColumns(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == DuplicatesColumn || name == NullColumn {
			continue
		}
		out = append(out, name)
	}
	return out
}
