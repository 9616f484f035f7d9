package triage

import (
	"math"

	"github.com/paveg/scrub/internal/table"
	"github.com/paveg/scrub/internal/value"
)

// Type tags reported in a Description's dtype row.
const (
	DTypeString = "str"
	DTypeInt    = "int"
	DTypeFloat  = "float"
	DTypeBool   = "bool"
	DTypeYesNo  = "yn"
	DTypeNull   = "null"
)

// ColumnStats is the fixed per-column record of a Description. Statistics
// are populated only for columns whose values are numeric after boolean
// and yes/no normalization; otherwise the float fields are NaN.
type ColumnStats struct {
	Name   string
	Count  int         // non-null values
	Unique int         // distinct non-null values
	Top    value.Value // most frequent value, first occurrence wins ties
	Freq   int         // frequency of Top

	Numeric bool
	Mean    float64
	Std     float64
	Min     float64
	P5      float64
	Median  float64
	P95     float64
	Max     float64

	DType string // original, pre-normalization type tag
}

// Description holds the per-column statistical profile of a table.
type Description struct {
	stats  []ColumnStats
	byName map[string]int
}

// Columns returns the described column names in table order.
func (d *Description) Columns() []string {
	names := make([]string, len(d.stats))
	for i, cs := range d.stats {
		names[i] = cs.Name
	}
	return names
}

// Column returns the stats record for the named column.
func (d *Description) Column(name string) (ColumnStats, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return ColumnStats{}, false
	}
	return d.stats[idx], true
}

// Stats returns all per-column records in table order.
func (d *Description) Stats() []ColumnStats {
	return append([]ColumnStats(nil), d.stats...)
}

// describeTable computes a Description without touching engine state.
func (e *Engine) describeTable(t *table.Table) (*Description, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	desc := &Description{
		stats:  make([]ColumnStats, 0, t.Width()),
		byName: make(map[string]int, t.Width()),
	}

	for _, name := range t.Columns() {
		cells := t.ColumnCells(name)
		kind, _ := t.ColumnKind(name)
		desc.byName[name] = len(desc.stats)
		desc.stats = append(desc.stats, e.describeColumn(name, kind, cells))
	}

	return desc, nil
}

func (e *Engine) describeColumn(name string, kind value.Kind, cells []value.Value) ColumnStats {
	cs := ColumnStats{
		Name: name,
		Top:  value.Null(),
		Mean: math.NaN(), Std: math.NaN(),
		Min: math.NaN(), P5: math.NaN(), Median: math.NaN(),
		P95: math.NaN(), Max: math.NaN(),
	}

	// count / unique / top / freq over raw (pre-normalization) values
	freqs := make(map[string]int)
	var keys []string // first-seen order, so ties resolve to the earliest value
	vals := make(map[string]value.Value)
	for _, c := range cells {
		if c.IsNull() || c.IsNaN() {
			continue
		}
		cs.Count++
		k := c.Key()
		if _, seen := freqs[k]; !seen {
			keys = append(keys, k)
			vals[k] = c
		}
		freqs[k]++
	}
	cs.Unique = len(freqs)
	for _, k := range keys {
		if freqs[k] > cs.Freq {
			cs.Freq = freqs[k]
			cs.Top = vals[k]
		}
	}

	// normalize to 0/1 for booleans and yes/no values, then aggregate
	nums, numeric := normalizeNumeric(cells)
	if numeric && len(nums) > 0 {
		cs.Numeric = true
		cs.Mean = mean(nums)
		cs.Std = stddev(nums, e.cfg.PopulationStd)
		cs.Min, cs.Max = extremes(nums)
		cs.P5 = percentile(nums, e.cfg.LowerPercentile)
		cs.Median = percentile(nums, 50)
		cs.P95 = percentile(nums, e.cfg.UpperPercentile)
	}

	cs.DType = dtypeOf(kind, cells, cs.Count)
	return cs
}

// normalizeNumeric maps cells to float64s: false/true to 0/1, "No"/"Yes"
// to 0/1, textual "None" to null. Returns false when any remaining value
// resists a numeric reading.
func normalizeNumeric(cells []value.Value) ([]float64, bool) {
	nums := make([]float64, 0, len(cells))
	for _, c := range cells {
		switch c.Kind() {
		case value.KindNull:
		case value.KindBool:
			if c.Bool() {
				nums = append(nums, 1)
			} else {
				nums = append(nums, 0)
			}
		case value.KindInt:
			nums = append(nums, float64(c.Int()))
		case value.KindFloat:
			if !c.IsNaN() {
				nums = append(nums, c.Float())
			}
		case value.KindString:
			switch c.Str() {
			case "Yes":
				nums = append(nums, 1)
			case "No":
				nums = append(nums, 0)
			case "None":
				// textual null
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return nums, true
}

// dtypeOf reports the original type tag of a column. A string column whose
// non-null values are all Yes/No reads as yn; an all-null column as null.
func dtypeOf(kind value.Kind, cells []value.Value, count int) string {
	if count == 0 {
		return DTypeNull
	}

	switch kind {
	case value.KindBool:
		return DTypeBool
	case value.KindInt:
		return DTypeInt
	case value.KindFloat:
		return DTypeFloat
	case value.KindString:
		for _, c := range cells {
			if c.IsNull() {
				continue
			}
			if s := c.Str(); s != "Yes" && s != "No" {
				return DTypeString
			}
		}
		return DTypeYesNo
	default:
		return DTypeNull
	}
}
