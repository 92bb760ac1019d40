package efd

import (
	"fmt"
	"sort"
	"time"

	"github.com/lsst-sqre/efd-client-go/dataframe"
)

// Direction selects which side of a left timestamp the rendezvous match may
// come from.
type Direction string

const (
	// DirectionBackward matches the nearest right row at or before the
	// left timestamp.
	DirectionBackward Direction = "backward"

	// DirectionForward matches the nearest right row at or after the left
	// timestamp.
	DirectionForward Direction = "forward"

	// DirectionNearest matches the closest right row in either direction.
	DirectionNearest Direction = "nearest"
)

// DefaultRendezvousTolerance is the default match window for
// RendezvousDataFrames.
const DefaultRendezvousTolerance = 20 * 24 * time.Hour

// RendezvousOptions tunes RendezvousDataFrames. Zero values select the
// backward direction and the default tolerance.
type RendezvousOptions struct {
	Direction Direction
	Tolerance time.Duration
}

// Resample concatenates the columns of two independently indexed frames
// onto the sorted union of their indexes and interpolates the gaps.
//
// Every input row keeps its own output row, including rows sharing a
// timestamp, so the result always has len(a)+len(b) rows. interpKind is
// "time" (time-weighted linear interpolation), or "linear"/"index"
// (position-weighted). Values before the first known sample of a column
// stay missing; values after the last known sample carry it forward.
func Resample(a, b *dataframe.DataFrame, interpKind string) (*dataframe.DataFrame, error) {
	switch interpKind {
	case "time", "linear", "index":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInterpolation, interpKind)
	}

	aCols, bCols := suffixCollisions(a.ColumnNames(), b.ColumnNames())

	index := append(a.Index(), b.Index()...)
	cols := make([]dataframe.Column, 0, len(aCols)+len(bCols))
	for i, name := range a.ColumnNames() {
		col, _ := a.Column(name)
		vals := append(col.Values, make([]any, b.Len())...)
		cols = append(cols, dataframe.Column{Name: aCols[i], Values: vals})
	}
	for i, name := range b.ColumnNames() {
		col, _ := b.Column(name)
		vals := append(make([]any, a.Len()), col.Values...)
		cols = append(cols, dataframe.Column{Name: bCols[i], Values: vals})
	}

	merged, err := dataframe.New(index, cols...)
	if err != nil {
		return nil, err
	}
	return interpolate(merged.SortByIndex(), interpKind)
}

// RendezvousDataFrames extends each row of left with the fields of the
// nearest row of right, when one exists within the tolerance window.
//
// The join is left-preserving: the result always has exactly left's rows
// and index. Rows with no right match inside the tolerance carry missing
// values for right's columns; that is expected, not an error. Columns
// present on both sides are disambiguated with "_x" (left) and "_y"
// (right) suffixes.
func RendezvousDataFrames(left, right *dataframe.DataFrame, opts RendezvousOptions) (*dataframe.DataFrame, error) {
	if opts.Direction == "" {
		opts.Direction = DirectionBackward
	}
	switch opts.Direction {
	case DirectionBackward, DirectionForward, DirectionNearest:
	default:
		return nil, fmt.Errorf("efd: unknown rendezvous direction %q", opts.Direction)
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = DefaultRendezvousTolerance
	}

	// Matching assumes a time-ordered right side.
	right = right.SortByIndex()
	rightIndex := right.Index()
	leftIndex := left.Index()

	matches := make([]int, len(leftIndex))
	for i, ts := range leftIndex {
		matches[i] = matchAsOf(rightIndex, ts, opts.Direction, opts.Tolerance)
	}

	leftNames, rightNames := suffixCollisions(left.ColumnNames(), right.ColumnNames())

	cols := make([]dataframe.Column, 0, len(leftNames)+len(rightNames))
	for i, name := range left.ColumnNames() {
		col, _ := left.Column(name)
		cols = append(cols, dataframe.Column{Name: leftNames[i], Values: col.Values})
	}
	for i, name := range right.ColumnNames() {
		col, _ := right.Column(name)
		vals := make([]any, len(leftIndex))
		for r, m := range matches {
			if m >= 0 {
				vals[r] = col.Values[m]
			}
		}
		cols = append(cols, dataframe.Column{Name: rightNames[i], Values: vals})
	}
	return dataframe.New(leftIndex, cols...)
}

// matchAsOf returns the row of a sorted index matching ts under the given
// direction and tolerance, or -1.
func matchAsOf(index []time.Time, ts time.Time, dir Direction, tol time.Duration) int {
	// First row strictly after ts.
	after := sort.Search(len(index), func(i int) bool { return index[i].After(ts) })
	before := after - 1

	backOK := before >= 0 && ts.Sub(index[before]) <= tol
	fwdOK := after < len(index) && index[after].Sub(ts) <= tol

	switch dir {
	case DirectionForward:
		// A right row exactly at ts sorts as "not after", so check it first.
		if before >= 0 && index[before].Equal(ts) {
			return before
		}
		if fwdOK {
			return after
		}
	case DirectionNearest:
		switch {
		case backOK && fwdOK:
			if ts.Sub(index[before]) <= index[after].Sub(ts) {
				return before
			}
			return after
		case backOK:
			return before
		case fwdOK:
			return after
		}
	default: // backward
		if backOK {
			return before
		}
	}
	return -1
}

// suffixCollisions disambiguates column names shared by both sides,
// appending "_x" on the left and "_y" on the right.
func suffixCollisions(left, right []string) (outLeft, outRight []string) {
	inRight := make(map[string]bool, len(right))
	for _, n := range right {
		inRight[n] = true
	}
	inLeft := make(map[string]bool, len(left))
	for _, n := range left {
		inLeft[n] = true
	}
	outLeft = make([]string, len(left))
	for i, n := range left {
		if inRight[n] {
			outLeft[i] = n + "_x"
		} else {
			outLeft[i] = n
		}
	}
	outRight = make([]string, len(right))
	for i, n := range right {
		if inLeft[n] {
			outRight[i] = n + "_y"
		} else {
			outRight[i] = n
		}
	}
	return outLeft, outRight
}

// interpolate fills missing entries of numeric columns between known
// samples. kind "time" weights by elapsed time, otherwise by row position.
func interpolate(df *dataframe.DataFrame, kind string) (*dataframe.DataFrame, error) {
	index := df.Index()
	cols := make([]dataframe.Column, 0, len(df.ColumnNames()))
	for _, name := range df.ColumnNames() {
		col, _ := df.Column(name)
		if numericColumn(col.Values) {
			col.Values = fillGaps(col.Values, index, kind)
		}
		cols = append(cols, col)
	}
	return dataframe.New(index, cols...)
}

// numericColumn reports whether every present value converts to float64.
func numericColumn(vals []any) bool {
	present := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if _, ok := dataframe.AsFloat(v); !ok {
			return false
		}
		present = true
	}
	return present
}

// fillGaps linearly interpolates nil runs bounded by known values. A
// trailing run carries the last known value forward; a leading run stays
// missing.
func fillGaps(vals []any, index []time.Time, kind string) []any {
	out := append([]any(nil), vals...)
	prev := -1
	for i, v := range out {
		if v == nil {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			pv, _ := dataframe.AsFloat(out[prev])
			cv, _ := dataframe.AsFloat(out[i])
			for j := prev + 1; j < i; j++ {
				var frac float64
				if kind == "time" {
					span := index[i].Sub(index[prev])
					if span > 0 {
						frac = float64(index[j].Sub(index[prev])) / float64(span)
					}
				} else {
					frac = float64(j-prev) / float64(i-prev)
				}
				out[j] = pv + (cv-pv)*frac
			}
		}
		prev = i
	}
	if prev >= 0 {
		for j := prev + 1; j < len(out); j++ {
			out[j] = out[prev]
		}
	}
	return out
}
