package featureexpand

import (
	"math"
	"testing"
)

var nan = math.NaN()

func mustTable(t *testing.T, cols ...Column) *Table {
	t.Helper()
	table, err := NewTable(cols...)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func assertFloats(t *testing.T, label string, want, got []float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length mismatch: got=%d want=%d (%v)", label, len(got), len(want), got)
	}
	for i := range want {
		if math.IsNaN(want[i]) && math.IsNaN(got[i]) {
			continue
		}
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Fatalf("%s: index %d: got=%v want=%v (full=%v)", label, i, got[i], want[i], got)
		}
	}
}

func floatsOf(t *testing.T, table *Table, name string) []float64 {
	t.Helper()
	values, err := table.Float64s(name)
	if err != nil {
		t.Fatalf("read column %q: %v", name, err)
	}
	return values
}
