package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scruberrors "github.com/paveg/scrub/internal/errors"
	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/table"
	"github.com/paveg/scrub/internal/testutil"
	"github.com/paveg/scrub/internal/value"
)

func TestApplyListingsScenario(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	tbl := testutil.CreateListingsTable(mem.Allocator)
	defer tbl.Release()

	got, err := Apply(tbl, map[string]string{
		"garden":  TagYesNo,
		"surface": TagFloat,
	}, value.Null(), mem.Allocator)
	require.NoError(t, err)

	// Apply mutates and returns the same table.
	assert.Same(t, tbl, got)

	assert.True(t, got.Cell(0, "garden").Equal(value.String("Yes")))
	assert.True(t, got.Cell(1, "garden").Equal(value.String("No")))
	assert.True(t, got.Cell(3, "garden").IsNull())

	assert.True(t, got.Cell(0, "surface").Equal(value.Float(1)))
	assert.True(t, got.Cell(4, "surface").Equal(value.Float(3)))

	kind, ok := got.ColumnKind("surface")
	require.True(t, ok)
	assert.Equal(t, value.KindFloat, kind)
}

func TestApplyCoercionRules(t *testing.T) {
	tests := []struct {
		name string
		col  series.ISeries
		tag  string
		want []value.Value
	}{
		{
			name: "numeric string to int",
			col:  series.New("v", []string{"123", "-5"}, nil),
			tag:  TagInt,
			want: []value.Value{value.Int(123), value.Int(-5)},
		},
		{
			name: "decimal string to float",
			col:  series.New("v", []string{"1.5", "3"}, nil),
			tag:  TagFloat,
			want: []value.Value{value.Float(1.5), value.Float(3)},
		},
		{
			name: "string literals to yn",
			col:  series.New("v", []string{"1", "True", "0", "False"}, nil),
			tag:  TagYesNo,
			want: []value.Value{
				value.String("Yes"), value.String("Yes"),
				value.String("No"), value.String("No"),
			},
		},
		{
			name: "bool to yn",
			col:  series.New("v", []bool{true, false}, nil),
			tag:  TagYesNo,
			want: []value.Value{value.String("Yes"), value.String("No")},
		},
		{
			name: "int widens to float",
			col:  series.New("v", []int64{1, 4}, nil),
			tag:  TagFloat,
			want: []value.Value{value.Float(1), value.Float(4)},
		},
		{
			name: "whole float narrows to int",
			col:  series.New("v", []float64{2.0, -3.0}, nil),
			tag:  TagInt,
			want: []value.Value{value.Int(2), value.Int(-3)},
		},
		{
			name: "anything renders to str",
			col:  series.New("v", []int64{42, 7}, nil),
			tag:  TagString,
			want: []value.Value{value.String("42"), value.String("7")},
		},
		{
			name: "yes-no strings already match yn",
			col:  series.New("v", []string{"Yes", "No"}, nil),
			tag:  TagYesNo,
			want: []value.Value{value.String("Yes"), value.String("No")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New(tt.col)
			defer tbl.Release()

			_, err := Apply(tbl, map[string]string{"v": tt.tag}, value.Null(), nil)
			require.NoError(t, err)

			for i, want := range tt.want {
				got := tbl.Cell(i, "v")
				assert.True(t, want.Equal(got),
					"cell %d: expected %s, got %s", i, want.Render(), got.Render())
			}
		})
	}
}

func TestApplyUnknownColumn(t *testing.T) {
	tbl := table.New(series.New("a", []int64{1}, nil))
	defer tbl.Release()

	_, err := Apply(tbl, map[string]string{"missing": TagInt}, value.Null(), nil)
	require.Error(t, err)
	assert.True(t, scruberrors.IsUnknownColumn(err))
}

func TestApplyUnknownTag(t *testing.T) {
	tbl := table.New(series.New("a", []int64{1}, nil))
	defer tbl.Release()

	_, err := Apply(tbl, map[string]string{"a": "bogus"}, value.Null(), nil)
	require.Error(t, err)
	assert.True(t, scruberrors.IsInvalidInput(err))
}

func TestApplyUnconvertibleValue(t *testing.T) {
	tests := []struct {
		name string
		col  series.ISeries
		tag  string
	}{
		{"word to int", series.New("v", []string{"house"}, nil), TagInt},
		{"word to float", series.New("v", []string{"house"}, nil), TagFloat},
		{"word to yn", series.New("v", []string{"maybe"}, nil), TagYesNo},
		{"fractional float to int", series.New("v", []float64{1.5}, nil), TagInt},
		{"bool to int", series.New("v", []bool{true}, nil), TagInt},
		{"int to yn", series.New("v", []int64{1}, nil), TagYesNo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New(tt.col)
			defer tbl.Release()

			_, err := Apply(tbl, map[string]string{"v": tt.tag}, value.Null(), nil)
			require.Error(t, err)
			assert.True(t, scruberrors.IsUnconvertibleValue(err))
		})
	}
}

func TestApplyFailureLeavesTableUntouched(t *testing.T) {
	tbl := table.New(
		series.New("good", []string{"1", "2"}, nil),
		series.New("bad", []string{"1", "house"}, nil),
	)
	defer tbl.Release()

	_, err := Apply(tbl, map[string]string{"good": TagInt, "bad": TagInt}, value.Null(), nil)
	require.Error(t, err)

	// No column was rewritten, including the convertible one.
	assert.True(t, tbl.Cell(0, "good").Equal(value.String("1")))
	assert.True(t, tbl.Cell(1, "bad").Equal(value.String("house")))
}

func TestApplyFillEmpty(t *testing.T) {
	t.Run("missing cells take the fill value", func(t *testing.T) {
		tbl := table.New(series.NewNullable("v",
			[]string{"1", "", "3"}, []bool{true, false, true}, nil))
		defer tbl.Release()

		_, err := Apply(tbl, map[string]string{"v": TagInt}, value.Int(0), nil)
		require.NoError(t, err)

		assert.True(t, tbl.Cell(0, "v").Equal(value.Int(1)))
		assert.True(t, tbl.Cell(1, "v").Equal(value.Int(0)))
		assert.True(t, tbl.Cell(2, "v").Equal(value.Int(3)))
	})

	t.Run("empty strings and NaN count as missing", func(t *testing.T) {
		tbl := table.New(
			series.New("s", []string{"a", ""}, nil),
			series.New("f", []float64{1.5, math.NaN()}, nil),
		)
		defer tbl.Release()

		_, err := Apply(tbl, map[string]string{"s": TagString, "f": TagFloat}, value.Float(0), nil)
		require.NoError(t, err)

		// The fill value is coerced to each requested tag.
		assert.True(t, tbl.Cell(1, "s").Equal(value.String("0")))
		assert.True(t, tbl.Cell(1, "f").Equal(value.Float(0)))
	})

	t.Run("null fill keeps nulls", func(t *testing.T) {
		tbl := table.New(series.NewNullable("v",
			[]int64{1, 0}, []bool{true, false}, nil))
		defer tbl.Release()

		_, err := Apply(tbl, map[string]string{"v": TagInt}, value.Null(), nil)
		require.NoError(t, err)

		assert.True(t, tbl.Cell(1, "v").IsNull())
	})

	t.Run("remaining nulls in untargeted columns are filled", func(t *testing.T) {
		tbl := table.New(
			series.New("v", []int64{1, 2}, nil),
			series.NewNullable("other", []string{"x", ""}, []bool{true, false}, nil),
		)
		defer tbl.Release()

		_, err := Apply(tbl, map[string]string{"v": TagFloat}, value.String("?"), nil)
		require.NoError(t, err)

		assert.True(t, tbl.Cell(1, "other").Equal(value.String("?")))
	})

	t.Run("unrepresentable fill leaves nulls in place", func(t *testing.T) {
		tbl := table.New(
			series.New("v", []int64{1, 2}, nil),
			series.NewNullable("flag", []bool{true, false}, []bool{true, false}, nil),
		)
		defer tbl.Release()

		// "?" has no path into a boolean column.
		_, err := Apply(tbl, map[string]string{"v": TagInt}, value.String("?"), nil)
		require.NoError(t, err)

		assert.True(t, tbl.Cell(1, "flag").IsNull())
	})
}

func TestApplyIdempotent(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	dtypes := map[string]string{"garden": TagYesNo, "surface": TagFloat}

	once := testutil.CreateListingsTable(mem.Allocator)
	defer once.Release()
	_, err := Apply(once, dtypes, value.Null(), mem.Allocator)
	require.NoError(t, err)

	snapshot := once.Copy(mem.Allocator)
	defer snapshot.Release()

	_, err = Apply(once, dtypes, value.Null(), mem.Allocator)
	require.NoError(t, err)

	testutil.AssertCellsEqual(t, snapshot, once)
}
