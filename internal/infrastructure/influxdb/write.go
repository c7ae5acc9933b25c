package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStatusTransition records a gadget status transition.
//
// This is the primary method for building up transition history.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - gadgetID: Unique identifier for the gadget
//   - from: Status before the transition (empty for newly created gadgets)
//   - to: Status after the transition
//
// Example:
//
//	client.WriteStatusTransition("7f3a9c12", "Available", "Deployed")
func (c *Client) WriteStatusTransition(gadgetID string, from string, to string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"gadget_status",
		map[string]string{
			"gadget_id": gadgetID,
			"to":        to,
		},
		map[string]interface{}{
			"from": from,
			// A counter field so aggregations can sum transitions.
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
