package efd

import (
	"fmt"
	"time"

	"github.com/lsst-sqre/efd-client-go/dataframe"
	"github.com/lsst-sqre/efd-client-go/timescale"
)

// DefaultRefTimestampCol is the column most observatory topics use for the
// capture time of the first packed element.
const DefaultRefTimestampCol = "cRIO_timestamp"

// PackedOptions controls packed time-series unpacking.
type PackedOptions struct {
	// Stride emits only every Stride-th packed member. It must evenly
	// divide the packed arity. Zero means 1.
	Stride int

	// RefTimestampCol names the column holding each row's reference
	// timestamp. Empty means DefaultRefTimestampCol.
	RefTimestampCol string

	// RefScale is the time scale of the reference column's epoch-second
	// values. Most internal timestamp columns are TAI.
	RefScale timescale.Scale
}

func (o PackedOptions) withDefaults() PackedOptions {
	if o.Stride == 0 {
		o.Stride = 1
	}
	if o.RefTimestampCol == "" {
		o.RefTimestampCol = DefaultRefTimestampCol
	}
	if o.RefScale != timescale.UTC && o.RefScale != timescale.TAI {
		o.RefScale = timescale.TAI
	}
	return o
}

// MergePackedTimeSeries unpacks the numbered vector members of baseField in
// packed into a long-format frame with one row per (input row x member).
//
// The reference column holds the capture time of the first member of each
// row; member i of row r is stamped ref[r] + i*dt where dt is the delta
// between the first two rows' reference timestamps divided by the arity
// (zero for a single row). The result carries the unpacked values under
// baseField, the raw synthesized epoch seconds under "times", and a UTC
// index built from them.
func MergePackedTimeSeries(packed *dataframe.DataFrame, baseField string, opts PackedOptions) (*dataframe.DataFrame, error) {
	opts = opts.withDefaults()

	members, npack, err := expandFields(packed.ColumnNames(), []string{baseField})
	if err != nil {
		return nil, err
	}
	if npack%opts.Stride != 0 {
		return nil, fmt.Errorf("%w: %d vs. %d", ErrStride, opts.Stride, npack)
	}

	ref, err := packed.Float64s(opts.RefTimestampCol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, opts.RefTimestampCol)
	}

	packedLen := packed.Len()
	nUsed := npack / opts.Stride
	output := make([]float64, nUsed*packedLen)
	times := make([]float64, nUsed*packedLen)

	var dt float64
	if packedLen > 1 {
		dt = (ref[1] - ref[0]) / float64(npack)
	}

	ordered := members[baseField]
	for i := 0; i < npack; i += opts.Stride {
		col, err := packed.Float64s(ordered[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, ordered[i])
		}
		i0 := i / opts.Stride
		for r := 0; r < packedLen; r++ {
			output[r*nUsed+i0] = col[r]
			times[r*nUsed+i0] = ref[r] + float64(i)*dt
		}
	}

	index := make([]time.Time, len(times))
	for j, sec := range times {
		index[j] = timescale.FromUnix(sec, opts.RefScale).UTC().Std()
	}
	return dataframe.New(index,
		dataframe.Floats(baseField, output),
		dataframe.Floats("times", times),
	)
}

// CombinePackedTimeSeries unpacks several base fields from one packed frame
// and joins them into a single long-format frame sharing one "times" column
// and one index.
//
// All bases are unpacked against the same reference column; the shared
// arity guarantees identical row ordering, so the join is positional.
// Column order is the base fields in call order, then "times".
func CombinePackedTimeSeries(packed *dataframe.DataFrame, baseFields []string, opts PackedOptions) (*dataframe.DataFrame, error) {
	if len(baseFields) == 0 {
		return nil, fmt.Errorf("%w: no base fields given", ErrNoPackedFields)
	}
	// Validate consistent arity across bases up front.
	if _, _, err := expandFields(packed.ColumnNames(), baseFields); err != nil {
		return nil, err
	}

	cols := make([]dataframe.Column, 0, len(baseFields)+1)
	var last *dataframe.DataFrame
	for _, base := range baseFields {
		sub, err := MergePackedTimeSeries(packed, base, opts)
		if err != nil {
			return nil, err
		}
		col, _ := sub.Column(base)
		cols = append(cols, col)
		last = sub
	}
	timesCol, _ := last.Column("times")
	cols = append(cols, timesCol)
	return dataframe.New(last.Index(), cols...)
}
