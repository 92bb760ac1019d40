package efd

import (
	"fmt"
	"strings"
	"time"

	"github.com/lsst-sqre/efd-client-go/timescale"
)

// QueryOptions carries the optional knobs shared by the query builders.
type QueryOptions struct {
	// IsWindow makes a duration end span a window centered on the start
	// time instead of extending forward from it. Ignored when the end is
	// an absolute timestamp.
	IsWindow bool

	// Index, when non-zero, appends an equality filter on the topic's
	// index column.
	Index int

	// ConvertInfluxIndex targets legacy deployments whose row index is
	// stored in TAI. It shifts the query time bounds to TAI and, on the
	// result path, converts the returned index back to UTC. One flag
	// controls both sides so bounds and index always agree.
	ConvertInfluxIndex bool

	// UseOldCSCIndexing selects the legacy index column name derived from
	// the topic's subsystem segment ("{subsystem}ID") instead of the
	// uniform "salIndex".
	UseOldCSCIndexing bool
}

// queryScale returns the time scale query bounds are expressed in.
func (o QueryOptions) queryScale() timescale.Scale {
	if o.ConvertInfluxIndex {
		// Index stored in TAI, so the query bounds must be too.
		return timescale.TAI
	}
	return timescale.UTC
}

// indexColumn returns the index column name for a topic. The legacy
// convention appends "ID" to the subsystem name, which is always the
// penultimate dot-separated segment of the topic.
func indexColumn(topicName string, useOldCSCIndexing bool) string {
	if !useOldCSCIndexing {
		return "salIndex"
	}
	parts := strings.Split(topicName, ".")
	if len(parts) < 2 {
		return parts[0] + "ID"
	}
	return parts[len(parts)-2] + "ID"
}

// indexPredicate renders the optional index filter, including its leading
// " AND ". Empty when no index is requested.
func indexPredicate(topicName string, opts QueryOptions) string {
	if opts.Index == 0 {
		return ""
	}
	return fmt.Sprintf(" AND %s = %d", indexColumn(topicName, opts.UseOldCSCIndexing), opts.Index)
}

// BuildTimeRangeQuery constructs an InfluxQL query selecting fields from a
// topic over a time range.
//
// end is either an absolute timescale.Time or a time.Duration offset from
// start. With a duration end, opts.IsWindow selects a range centered on
// start ([start-end/2, start+end/2]) rather than [start, start+end].
//
// Both bounds are expressed on a single scale: UTC normally, TAI when
// opts.ConvertInfluxIndex is set. Identical inputs always produce an
// identical query string.
func BuildTimeRangeQuery(dbName, topicName string, fields []string, start timescale.Time, end any, opts QueryOptions) (string, error) {
	if start.IsZero() {
		return "", ErrInvalidStart
	}
	start = start.Convert(opts.queryScale())

	var startStr, endStr string
	switch e := end.(type) {
	case time.Duration:
		if opts.IsWindow {
			startStr = start.Add(-e / 2).ISOT()
			endStr = start.Add(e / 2).ISOT()
		} else {
			startStr = start.ISOT()
			endStr = start.Add(e).ISOT()
		}
	case timescale.Time:
		if e.IsZero() {
			return "", fmt.Errorf("%w: end timestamp is zero", ErrInvalidRangeEnd)
		}
		startStr = start.ISOT()
		endStr = e.Convert(opts.queryScale()).ISOT()
	default:
		return "", fmt.Errorf("%w: got %T", ErrInvalidRangeEnd, end)
	}

	// InfluxDB requires the time literals to carry the UTC 'Z' marker.
	timespan := fmt.Sprintf("time >= '%sZ' AND time <= '%sZ'%s",
		startStr, endStr, indexPredicate(topicName, opts))

	return fmt.Sprintf(`SELECT %s FROM "%s"."autogen"."%s" WHERE %s`,
		strings.Join(fields, ", "), dbName, topicName, timespan), nil
}

// BuildSelectTopNQuery constructs an InfluxQL query selecting the most
// recent n rows of a topic, optionally bounded above by timeCut (zero for
// no cut) and filtered by opts.Index.
//
// The GROUP BY * clause is required to carry the topic's tag columns into
// the result. Row order of the response is a backing-store detail and must
// not be relied on.
func BuildSelectTopNQuery(dbName, topicName string, fields []string, n int, timeCut timescale.Time, opts QueryOptions) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("efd: top-n row count must be positive, got %d", n)
	}

	limit := fmt.Sprintf("GROUP BY * ORDER BY DESC LIMIT %d", n)

	pstr := ""
	if !timeCut.IsZero() {
		pstr = fmt.Sprintf(" WHERE time < '%sZ'", timeCut.Convert(opts.queryScale()).ISOT())
	}
	if opts.Index != 0 {
		istr := fmt.Sprintf("%s = %d", indexColumn(topicName, opts.UseOldCSCIndexing), opts.Index)
		if pstr != "" {
			pstr += " AND " + istr
		} else {
			pstr = " WHERE " + istr
		}
	}

	return fmt.Sprintf(`SELECT %s FROM "%s"."autogen"."%s"%s %s`,
		strings.Join(fields, ", "), dbName, topicName, pstr, limit), nil
}
