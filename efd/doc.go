// Package efd is a client for the Engineering Facilities Database, the
// observatory's InfluxDB-backed telemetry store.
//
// # Purpose
//
// The package covers the full query path: resolving a deployment's
// credentials, constructing InfluxQL for time ranges and most-recent-N
// selections, executing queries, and reshaping packed vector and
// power-spectral-density topics into long-format dataframes. Free
// functions (BuildTimeRangeQuery, MergePackedTimeSeries, Resample,
// RendezvousDataFrames) work on local data without a connection; Client
// methods combine them with live queries.
//
// # Usage
//
//	client, err := efd.Connect(ctx, "usdf_efd", efd.Config{})
//	if err != nil { ... }
//	defer client.Close()
//
//	start := timescale.New(t0, timescale.UTC)
//	df, err := client.SelectTimeSeries(ctx, "lsst.sal.ATMCS.mount_AzEl_Encoders",
//	    []string{"azimuthCalculatedAngle0"}, start, 10*time.Minute, efd.QueryOptions{})
//
// Deployments are looked up by name through the credential service;
// DefaultRegistry lists the standing ones.
//
// # Thread Safety
//
// Client and Registry are safe for concurrent use. Dataframe transforms
// are pure functions over immutable inputs.
//
// # Error Handling
//
// Query construction and reshaping failures use the sentinel errors in
// errors.go and support errors.Is. Transport failures wrap the influx
// package's sentinels.
package efd
