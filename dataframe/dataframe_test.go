package dataframe

import (
	"math"
	"testing"
	"time"
)

func idx(n int) []time.Time {
	base := time.Date(2020, 1, 28, 23, 7, 19, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Second)
	}
	return out
}

// TestNewValidation verifies length and duplicate-name checks.
func TestNewValidation(t *testing.T) {
	if _, err := New(idx(2), Floats("a", []float64{1})); err == nil {
		t.Error("mismatched column length: expected error, got nil")
	}
	if _, err := New(idx(1), Floats("a", []float64{1}), Floats("a", []float64{2})); err == nil {
		t.Error("duplicate column: expected error, got nil")
	}
}

// TestColumnAccess verifies ordered names, lookup, and value access.
func TestColumnAccess(t *testing.T) {
	df, err := New(idx(2),
		Floats("foo", []float64{1, 2}),
		Strings("name", []string{"a", "b"}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	names := df.ColumnNames()
	if len(names) != 2 || names[0] != "foo" || names[1] != "name" {
		t.Errorf("ColumnNames() = %v, want [foo name]", names)
	}
	if !df.HasColumn("foo") || df.HasColumn("bar") {
		t.Error("HasColumn misreported")
	}
	if got := df.At(1, "name"); got != "b" {
		t.Errorf("At(1, name) = %v, want b", got)
	}
}

// TestFloat64s verifies numeric conversion and nil-to-NaN mapping.
func TestFloat64s(t *testing.T) {
	df, err := New(idx(3), Column{Name: "v", Values: []any{1.5, nil, int64(3)}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vals, err := df.Float64s("v")
	if err != nil {
		t.Fatalf("Float64s() error = %v", err)
	}
	if vals[0] != 1.5 || !math.IsNaN(vals[1]) || vals[2] != 3 {
		t.Errorf("Float64s() = %v, want [1.5 NaN 3]", vals)
	}

	bad, err := New(idx(1), Strings("s", []string{"x"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := bad.Float64s("s"); err == nil {
		t.Error("non-numeric column: expected error, got nil")
	}
}

// TestDeriveDoesNotMutate verifies the derive-only contract.
func TestDeriveDoesNotMutate(t *testing.T) {
	src := []float64{3, 1, 2}
	df, err := New([]time.Time{idx(3)[2], idx(3)[0], idx(3)[1]}, Floats("v", src))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sorted := df.SortByIndex()
	got, _ := sorted.Float64s("v")
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("sorted values = %v, want [1 2 3]", got)
	}
	orig, _ := df.Float64s("v")
	if orig[0] != 3 || orig[1] != 1 || orig[2] != 2 {
		t.Errorf("source frame changed: %v", orig)
	}
}

// TestFilterRows verifies predicate-based row selection.
func TestFilterRows(t *testing.T) {
	df, err := New(idx(4), Floats("v", []float64{0, 1, 2, 3}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	odd := df.FilterRows(func(r int) bool { return r%2 == 1 })
	if odd.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", odd.Len())
	}
	vals, _ := odd.Float64s("v")
	if vals[0] != 1 || vals[1] != 3 {
		t.Errorf("filtered values = %v, want [1 3]", vals)
	}
}

// TestConcatUnion verifies row-wise concat with column union and nil fill.
func TestConcatUnion(t *testing.T) {
	a, _ := New(idx(2), Floats("x", []float64{1, 2}))
	b, _ := New(idx(1), Floats("y", []float64{9}))

	out := Concat(a, b)
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
	names := out.ColumnNames()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Fatalf("ColumnNames() = %v, want [x y]", names)
	}
	if out.At(2, "x") != nil {
		t.Errorf("At(2, x) = %v, want nil", out.At(2, "x"))
	}
	if out.At(0, "y") != nil {
		t.Errorf("At(0, y) = %v, want nil", out.At(0, "y"))
	}
	if out.At(2, "y") != 9.0 {
		t.Errorf("At(2, y) = %v, want 9", out.At(2, "y"))
	}
}

// TestSelect verifies column projection preserves requested order.
func TestSelect(t *testing.T) {
	df, _ := New(idx(1), Floats("a", []float64{1}), Floats("b", []float64{2}))
	sel, err := df.Select("b", "a")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	names := sel.ColumnNames()
	if names[0] != "b" || names[1] != "a" {
		t.Errorf("ColumnNames() = %v, want [b a]", names)
	}
	if _, err := df.Select("missing"); err == nil {
		t.Error("Select(missing): expected error, got nil")
	}
}

// TestEmpty verifies the empty-result sentinel normalisation target.
func TestEmpty(t *testing.T) {
	e := Empty()
	if !e.IsEmpty() || e.Len() != 0 || len(e.ColumnNames()) != 0 {
		t.Errorf("Empty() = %d rows, %v columns", e.Len(), e.ColumnNames())
	}
}

// TestWithIndex verifies re-indexing keeps columns and checks length.
func TestWithIndex(t *testing.T) {
	df, _ := New(idx(2), Floats("v", []float64{1, 2}))
	shifted := make([]time.Time, 2)
	for i, ts := range df.Index() {
		shifted[i] = ts.Add(time.Minute)
	}
	out, err := df.WithIndex(shifted)
	if err != nil {
		t.Fatalf("WithIndex() error = %v", err)
	}
	if !out.Index()[0].Equal(df.Index()[0].Add(time.Minute)) {
		t.Error("index not shifted")
	}
	if _, err := df.WithIndex(shifted[:1]); err == nil {
		t.Error("short index: expected error, got nil")
	}
}
