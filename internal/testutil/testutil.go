// Package testutil provides common testing utilities to reduce code
// duplication across test files in the scrub triage library.
//
// This package consolidates common patterns:
// - Memory allocator setup and cleanup
// - Standard test table creation
// - Common table assertions
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/scrub/internal/series"
	"github.com/paveg/scrub/internal/table"
)

// TestMemoryContext provides memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator with automatic cleanup for tests.
// Returns a TestMemoryContext that should be released with defer.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	allocator := memory.NewGoAllocator()

	return &TestMemoryContext{
		Allocator: allocator,
		cleanup: func() {
			// Memory allocator cleanup is handled by Go GC
		},
	}
}

// CreateListingsTable creates the standard five-column property-listings
// test table used across triage tests:
//
//   - hyperlink (string): ["http", "htt", "http2", "htt2", "http"]
//   - type_of_property (string): ["house", "apartment", "apartment", null, null]
//   - postcode (string): ["1000", "1050", "1050", null, null]
//   - garden (bool): [true, false, false, null, null]
//   - surface (int64): [1, 2, 2, 4, 3]
//
// Row 2 duplicates row 1 on every identifier column; rows 3 and 4 carry
// three nulls each.
func CreateListingsTable(allocator memory.Allocator) *table.Table {
	tail := []bool{true, true, true, false, false}

	hyperlink := series.New("hyperlink",
		[]string{"http", "htt", "http2", "htt2", "http"}, allocator)
	propertyType := series.NewNullable("type_of_property",
		[]string{"house", "apartment", "apartment", "", ""}, tail, allocator)
	postcode := series.NewNullable("postcode",
		[]string{"1000", "1050", "1050", "", ""}, tail, allocator)
	garden := series.NewNullable("garden",
		[]bool{true, false, false, false, false}, tail, allocator)
	surface := series.New("surface", []int64{1, 2, 2, 4, 3}, allocator)

	return table.New(hyperlink, propertyType, postcode, garden, surface)
}

// CreateSimpleTable creates a simple 2-column table for basic testing.
func CreateSimpleTable(allocator memory.Allocator) *table.Table {
	names := series.New("name", []string{"alice", "bob"}, allocator)
	ages := series.New("age", []int64{25, 30}, allocator)

	return table.New(names, ages)
}

// AssertTableHasColumns verifies that a table has exactly the expected columns.
func AssertTableHasColumns(t *testing.T, tbl *table.Table, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")

	actualColumns := tbl.Columns()
	assert.Len(t, actualColumns, len(expectedColumns), "column count should match")

	for _, col := range expectedColumns {
		assert.True(t, tbl.HasColumn(col), "table should have column %s", col)
	}
}

// AssertTableNotEmpty verifies that a table is not empty.
func AssertTableNotEmpty(t *testing.T, tbl *table.Table) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")
	assert.Positive(t, tbl.Len(), "table should not be empty")
	assert.Positive(t, tbl.Width(), "table should have columns")
}

// AssertCellsEqual compares two tables cell by cell over the columns of expected.
func AssertCellsEqual(t *testing.T, expected, actual *table.Table) {
	t.Helper()

	require.NotNil(t, expected, "expected table should not be nil")
	require.NotNil(t, actual, "actual table should not be nil")

	assert.Equal(t, expected.Len(), actual.Len(), "table lengths should match")
	assert.Equal(t, expected.Columns(), actual.Columns(), "table columns should match")

	for _, name := range expected.Columns() {
		for i := 0; i < expected.Len(); i++ {
			want := expected.Cell(i, name)
			got := actual.Cell(i, name)
			if want.IsNull() {
				assert.True(t, got.IsNull(), "cell [%d,%s] should be null", i, name)
				continue
			}
			assert.True(t, want.Equal(got),
				"cell [%d,%s]: expected %s, got %s", i, name, want.Render(), got.Render())
		}
	}
}
