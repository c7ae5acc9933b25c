// Package mqtt provides MQTT client connectivity for Gadgetry.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Lifecycle event publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Gadgetry publishes gadget lifecycle events (created, updated,
// decommissioned, self-destructed) to the broker so external consumers
// (field dashboards, audit collectors) can react without polling the
// HTTP API.
//
//	Gadgetry Core → MQTT Broker → Consumers
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.GadgetEvent(gadgetID)
//	client.Publish(topic, payload, 1, false)
package mqtt
