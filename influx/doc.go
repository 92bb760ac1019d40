// Package influx executes InfluxQL queries against the InfluxDB 1.x
// deployments backing the Engineering Facilities Database.
//
// It wraps the official influxdb1-client library and normalises query
// responses into the dataframe form the rest of the client consumes: a
// time-typed row index, named columns, GROUP BY tags carried as constant
// string columns, and the empty-result sentinel mapped to an empty frame.
//
// # Usage
//
//	client, err := influx.Connect(ctx, influx.Config{
//	    Addr:     "https://efd.example.org:443/influxdb",
//	    Database: "efd",
//	    Username: "reader",
//	    Password: "...",
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	df, err := client.Query(ctx, `SELECT foo FROM "efd"."autogen"."t" ...`)
//
// # Error Handling
//
// Connection problems wrap ErrConnectionFailed; query rejections and
// malformed responses wrap ErrQueryFailed. An empty result is not an
// error.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package influx
