// Package influxdb provides InfluxDB connectivity for Gadgetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, status transition recording, and health monitoring.
//
// # Purpose
//
// This package records the history of gadget status transitions as
// time-series data, so operators can answer questions like "how many
// gadgets were destroyed last week" without scanning the primary store.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "ghostlab",
//	    Bucket:  "gadgetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteStatusTransition(gadget.ID, "Available", "Deployed")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
package influxdb
