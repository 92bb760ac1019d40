package influx

import "errors"

// Sentinel errors for InfluxDB query operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influx.ErrConnectionFailed) {
//	    // Handle an unreachable deployment
//	}
var (
	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influx: connection failed")

	// ErrQueryFailed indicates the backing store rejected or failed a query.
	ErrQueryFailed = errors.New("influx: query failed")

	// ErrNotConnected indicates the client has been closed.
	ErrNotConnected = errors.New("influx: not connected")
)
