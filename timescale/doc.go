// Package timescale handles the time-scale bookkeeping needed to query the
// Engineering Facilities Database.
//
// Observatory telemetry crosses two clocks: internal sensor timestamp
// columns are recorded in TAI, while the InfluxDB row index is nominally
// UTC. The two differ by the accumulated leap-second offset (37 seconds
// since 2017-01-01). Mixing them silently shifts a query window or a
// reconstructed sample time by that offset, so every instant in this module
// carries its scale explicitly.
//
// # Usage
//
//	start := timescale.New(t, timescale.UTC)
//	ref := timescale.FromUnix(1580252876.0, timescale.TAI)
//	idx := ref.UTC().Std() // civil instant for a dataframe index
//
// # Formatting
//
// ISOT produces the millisecond-precision ISO 8601 form InfluxQL time
// predicates are written in ("2020-01-28T23:07:19.000"); the query builder
// appends the trailing 'Z'.
//
// # Thread Safety
//
// Time values are immutable; all functions are safe for concurrent use.
package timescale
