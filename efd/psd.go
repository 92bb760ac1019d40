package efd

import (
	"fmt"
	"time"

	"github.com/lsst-sqre/efd-client-go/dataframe"
)

// Default metadata column names carried by packed power-spectral-density
// topics.
const (
	DefaultSensorNameCol = "sensorName"
	DefaultMinFreqCol    = "minPSDFrequency"
	DefaultMaxFreqCol    = "maxPSDFrequency"
	DefaultNumPointsCol  = "numDataPoints"
)

// PSDOptions names the metadata columns of a packed PSD topic. Zero values
// select the defaults above.
type PSDOptions struct {
	SensorNameCol string
	MinFreqCol    string
	MaxFreqCol    string
	NumPointsCol  string
}

func (o PSDOptions) withDefaults() PSDOptions {
	if o.SensorNameCol == "" {
		o.SensorNameCol = DefaultSensorNameCol
	}
	if o.MinFreqCol == "" {
		o.MinFreqCol = DefaultMinFreqCol
	}
	if o.MaxFreqCol == "" {
		o.MaxFreqCol = DefaultMaxFreqCol
	}
	if o.NumPointsCol == "" {
		o.NumPointsCol = DefaultNumPointsCol
	}
	return o
}

// MergePackedPSD unpacks packed power-spectral-density rows into a
// long-format frame with one row per (input row x frequency bin).
//
// Each raw row carries a sensor name and a frequency range; bin i of a row
// gets frequency min + i*(max-min)/(points-1) and the value of the packed
// member column {base}{i}. Per-row numDataPoints bounds the bins used, so a
// row may use fewer bins than the packed arity.
//
// Sensors are processed in the order they first appear in sensorNames after
// deduplication; that processing position, not the raw input list position,
// is the sensor ordinal. Each sensor's rows are offset by
// 1000us * len(baseFields) * ordinal so sensors sharing a nominal timestamp
// do not collide in the final index. The result is the concatenation of all
// (base field x sensor) sub-frames, sorted ascending by index.
func MergePackedPSD(packed *dataframe.DataFrame, baseFields, sensorNames []string, opts PSDOptions) (*dataframe.DataFrame, error) {
	opts = opts.withDefaults()
	if len(baseFields) == 0 {
		return nil, fmt.Errorf("%w: no base fields given", ErrNoPackedFields)
	}

	members, npack, err := expandFields(packed.ColumnNames(), baseFields)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{opts.SensorNameCol, opts.MinFreqCol, opts.MaxFreqCol, opts.NumPointsCol} {
		if !packed.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, col)
		}
	}

	// Deduplicate while keeping first-appearance order; the position in
	// this processing sequence is the sensor ordinal.
	sensors := make([]string, 0, len(sensorNames))
	seen := make(map[string]bool, len(sensorNames))
	for _, s := range sensorNames {
		if !seen[s] {
			seen[s] = true
			sensors = append(sensors, s)
		}
	}

	var parts []*dataframe.DataFrame
	for _, base := range baseFields {
		for ordinal, sensor := range sensors {
			offset := time.Duration(ordinal*len(baseFields)) * 1000 * time.Microsecond
			sub, err := unpackPSDSensor(packed, base, sensor, offset, members[base], npack, opts)
			if err != nil {
				return nil, err
			}
			if !sub.IsEmpty() {
				parts = append(parts, sub)
			}
		}
	}
	if len(parts) == 0 {
		return dataframe.Empty(), nil
	}
	return dataframe.Concat(parts...).SortByIndex(), nil
}

// unpackPSDSensor expands one (base field, sensor) pair into a long-format
// sub-frame.
func unpackPSDSensor(packed *dataframe.DataFrame, base, sensor string, offset time.Duration, members []string, npack int, opts PSDOptions) (*dataframe.DataFrame, error) {
	rows := packed.FilterRows(func(r int) bool {
		name, _ := packed.At(r, opts.SensorNameCol).(string)
		return name == sensor
	})
	if rows.IsEmpty() {
		return dataframe.Empty(), nil
	}

	minFreq, err := rows.Float64s(opts.MinFreqCol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, opts.MinFreqCol)
	}
	maxFreq, err := rows.Float64s(opts.MaxFreqCol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, opts.MaxFreqCol)
	}
	numPoints, err := rows.Float64s(opts.NumPointsCol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, opts.NumPointsCol)
	}

	values := make([][]float64, npack)
	for i, member := range members {
		col, err := rows.Float64s(member)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, member)
		}
		values[i] = col
	}

	rowIndex := rows.Index()
	var (
		index []time.Time
		freqs []float64
		psd   []float64
		names []string
	)
	for r := 0; r < rows.Len(); r++ {
		bins := int(numPoints[r])
		if bins > npack {
			bins = npack
		}
		if bins <= 0 {
			continue
		}
		step := 0.0
		if bins > 1 {
			step = (maxFreq[r] - minFreq[r]) / float64(bins-1)
		}
		stamped := rowIndex[r].Add(offset)
		for i := 0; i < bins; i++ {
			index = append(index, stamped)
			freqs = append(freqs, minFreq[r]+float64(i)*step)
			psd = append(psd, values[i][r])
			names = append(names, sensor)
		}
	}
	return dataframe.New(index,
		dataframe.Strings(opts.SensorNameCol, names),
		dataframe.Floats("frequency", freqs),
		dataframe.Floats(base, psd),
	)
}
