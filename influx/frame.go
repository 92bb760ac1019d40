package influx

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	influxclient "github.com/influxdata/influxdb1-client/v2"
	"github.com/influxdata/influxdb1-client/models"

	"github.com/lsst-sqre/efd-client-go/dataframe"
)

// frameFromResponse converts a query response into a single dataframe.
// Queries grouped by tags return one series per tag set; their rows are
// concatenated with the tag values carried as extra columns. A response
// with no series is the empty-result sentinel and maps to an empty frame.
func frameFromResponse(resp *influxclient.Response) (*dataframe.DataFrame, error) {
	var frames []*dataframe.DataFrame
	for _, result := range resp.Results {
		if result.Err != "" {
			return nil, fmt.Errorf("%w: %s", ErrQueryFailed, result.Err)
		}
		for _, series := range result.Series {
			frame, err := frameFromSeries(series)
			if err != nil {
				return nil, err
			}
			frames = append(frames, frame)
		}
	}
	switch len(frames) {
	case 0:
		return dataframe.Empty(), nil
	case 1:
		return frames[0], nil
	default:
		return dataframe.Concat(frames...), nil
	}
}

// frameFromSeries converts one series into a frame indexed by its time
// column, with any GROUP BY tags appended as constant string columns.
// Metadata series (SHOW MEASUREMENTS, SHOW FIELD KEYS) carry no time
// column; their rows get zero-valued index entries.
func frameFromSeries(series models.Row) (*dataframe.DataFrame, error) {
	timeCol := -1
	for i, name := range series.Columns {
		if name == "time" {
			timeCol = i
			break
		}
	}

	nrows := len(series.Values)
	index := make([]time.Time, nrows)
	cols := make([]dataframe.Column, 0, len(series.Columns)-1+len(series.Tags))
	colIdx := map[string]int{}
	for i, name := range series.Columns {
		if i == timeCol {
			continue
		}
		colIdx[name] = len(cols)
		cols = append(cols, dataframe.Column{Name: name, Values: make([]any, nrows)})
	}

	for r, row := range series.Values {
		if len(row) != len(series.Columns) {
			return nil, fmt.Errorf("%w: series %q row %d has %d values for %d columns",
				ErrQueryFailed, series.Name, r, len(row), len(series.Columns))
		}
		if timeCol >= 0 {
			ts, err := parseTime(row[timeCol])
			if err != nil {
				return nil, fmt.Errorf("%w: series %q row %d: %w", ErrQueryFailed, series.Name, r, err)
			}
			index[r] = ts
		}
		for i, name := range series.Columns {
			if i == timeCol {
				continue
			}
			cols[colIdx[name]].Values[r] = decodeValue(row[i])
		}
	}

	// Tags from GROUP BY * are constant over the series.
	tagKeys := make([]string, 0, len(series.Tags))
	for k := range series.Tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)
	for _, k := range tagKeys {
		if _, exists := colIdx[k]; exists {
			continue
		}
		vals := make([]any, nrows)
		for r := range vals {
			vals[r] = series.Tags[k]
		}
		cols = append(cols, dataframe.Column{Name: k, Values: vals})
	}

	return dataframe.New(index, cols...)
}

// parseTime decodes the time column. Queries request nanosecond epoch
// precision, but RFC3339 strings are accepted for robustness.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case json.Number:
		ns, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("time value %q: %w", t.String(), err)
		}
		return time.Unix(0, ns).UTC(), nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("time value %q: %w", t, err)
		}
		return ts.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("time value has unexpected type %T", v)
	}
}

// decodeValue maps a JSON response value to a frame value. Numbers become
// float64; anything unparseable stays missing.
func decodeValue(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return f
	default:
		return v
	}
}
