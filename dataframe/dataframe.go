package dataframe

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Column is a named, ordered sequence of values. Missing entries are nil.
type Column struct {
	Name   string
	Values []any
}

// Floats builds a Column from float64 values.
func Floats(name string, values []float64) Column {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Column{Name: name, Values: vals}
}

// Strings builds a Column from string values.
func Strings(name string, values []string) Column {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Column{Name: name, Values: vals}
}

// DataFrame is an ordered set of named columns sharing a time-typed row
// index. Frames are never mutated in place: every operation derives a new
// frame and leaves its inputs untouched.
type DataFrame struct {
	index   []time.Time
	columns []Column
	byName  map[string]int
}

// New builds a frame from an index and columns. Every column must have
// exactly len(index) values and column names must be unique.
func New(index []time.Time, columns ...Column) (*DataFrame, error) {
	df := &DataFrame{
		index:   append([]time.Time(nil), index...),
		columns: make([]Column, 0, len(columns)),
		byName:  make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if len(col.Values) != len(index) {
			return nil, fmt.Errorf(
				"dataframe: column %q has %d values for %d index entries",
				col.Name, len(col.Values), len(index))
		}
		if _, dup := df.byName[col.Name]; dup {
			return nil, fmt.Errorf("dataframe: duplicate column %q", col.Name)
		}
		df.byName[col.Name] = len(df.columns)
		df.columns = append(df.columns, Column{
			Name:   col.Name,
			Values: append([]any(nil), col.Values...),
		})
	}
	return df, nil
}

// Empty returns a frame with no rows and no columns. The query executor
// normalises the backing store's empty-result sentinel to this.
func Empty() *DataFrame {
	return &DataFrame{byName: map[string]int{}}
}

// Len returns the number of rows.
func (df *DataFrame) Len() int { return len(df.index) }

// IsEmpty reports whether the frame has no rows.
func (df *DataFrame) IsEmpty() bool { return len(df.index) == 0 }

// Index returns a copy of the row index.
func (df *DataFrame) Index() []time.Time {
	return append([]time.Time(nil), df.index...)
}

// ColumnNames returns the column names in order.
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.columns))
	for i, col := range df.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.byName[name]
	return ok
}

// Column returns a copy of the named column.
func (df *DataFrame) Column(name string) (Column, bool) {
	i, ok := df.byName[name]
	if !ok {
		return Column{}, false
	}
	col := df.columns[i]
	return Column{Name: col.Name, Values: append([]any(nil), col.Values...)}, true
}

// At returns the value at the given row of the named column.
func (df *DataFrame) At(row int, name string) any {
	i, ok := df.byName[name]
	if !ok {
		return nil
	}
	return df.columns[i].Values[row]
}

// Float64s returns the named column as float64 values. Missing entries map
// to NaN; a non-numeric entry is an error.
func (df *DataFrame) Float64s(name string) ([]float64, error) {
	i, ok := df.byName[name]
	if !ok {
		return nil, fmt.Errorf("dataframe: no column %q", name)
	}
	out := make([]float64, len(df.index))
	for r, v := range df.columns[i].Values {
		f, ok := AsFloat(v)
		if !ok {
			if v == nil {
				out[r] = math.NaN()
				continue
			}
			return nil, fmt.Errorf(
				"dataframe: column %q row %d: %T is not numeric", name, r, v)
		}
		out[r] = f
	}
	return out, nil
}

// Select returns a frame restricted to the named columns, in the given
// order, sharing the same index.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := df.Column(name)
		if !ok {
			return nil, fmt.Errorf("dataframe: no column %q", name)
		}
		cols = append(cols, col)
	}
	return New(df.index, cols...)
}

// FilterRows returns a frame containing only rows for which keep returns
// true, preserving order.
func (df *DataFrame) FilterRows(keep func(row int) bool) *DataFrame {
	var rows []int
	for r := range df.index {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return df.takeRows(rows)
}

// SortByIndex returns a frame with rows stably ordered by ascending index.
func (df *DataFrame) SortByIndex() *DataFrame {
	rows := make([]int, len(df.index))
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return df.index[rows[a]].Before(df.index[rows[b]])
	})
	return df.takeRows(rows)
}

// WithIndex returns a frame with the same columns re-indexed by newIndex,
// which must have one entry per row.
func (df *DataFrame) WithIndex(newIndex []time.Time) (*DataFrame, error) {
	if len(newIndex) != len(df.index) {
		return nil, fmt.Errorf("dataframe: index length %d for %d rows",
			len(newIndex), len(df.index))
	}
	return New(newIndex, df.columns...)
}

// takeRows derives a frame from a row selection.
func (df *DataFrame) takeRows(rows []int) *DataFrame {
	index := make([]time.Time, len(rows))
	cols := make([]Column, len(df.columns))
	for c, col := range df.columns {
		vals := make([]any, len(rows))
		for i, r := range rows {
			vals[i] = col.Values[r]
		}
		cols[c] = Column{Name: col.Name, Values: vals}
	}
	for i, r := range rows {
		index[i] = df.index[r]
	}
	out, err := New(index, cols...)
	if err != nil {
		// Row selection cannot introduce length or name conflicts.
		panic(err)
	}
	return out
}

// Concat appends the rows of each frame in turn, taking the union of their
// columns. Entries absent from a contributing frame are nil. Column order is
// first-seen order across the inputs.
func Concat(frames ...*DataFrame) *DataFrame {
	total := 0
	var names []string
	seen := map[string]bool{}
	for _, f := range frames {
		total += f.Len()
		for _, n := range f.ColumnNames() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	index := make([]time.Time, 0, total)
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Values: make([]any, 0, total)}
	}
	for _, f := range frames {
		index = append(index, f.index...)
		for i, n := range names {
			if j, ok := f.byName[n]; ok {
				cols[i].Values = append(cols[i].Values, f.columns[j].Values...)
			} else {
				cols[i].Values = append(cols[i].Values, make([]any, f.Len())...)
			}
		}
	}
	out, err := New(index, cols...)
	if err != nil {
		panic(err)
	}
	return out
}

// AsFloat converts a numeric value to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
