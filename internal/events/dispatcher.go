// Package events fans gadget lifecycle events out to the configured
// infrastructure: the MQTT broker, the InfluxDB transition history, and
// the WebSocket live feed.
//
// Delivery is best-effort. A failed publish is logged and dropped; it
// never affects the outcome of the mutation that produced the event.
package events

import (
	"context"
	"encoding/json"

	"github.com/ghostlab/gadgetry/internal/gadget"
	"github.com/ghostlab/gadgetry/internal/infrastructure/logging"
	"github.com/ghostlab/gadgetry/internal/infrastructure/mqtt"
)

// Publisher publishes lifecycle event payloads to the message bus.
// Satisfied by *mqtt.Client.
type Publisher interface {
	PublishEvent(topic string, payload []byte) error
}

// TransitionRecorder records status transitions as time-series points.
// Satisfied by *influxdb.Client.
type TransitionRecorder interface {
	WriteStatusTransition(gadgetID string, from string, to string)
}

// Broadcaster pushes event payloads to connected live-feed clients.
// Satisfied by the API's WebSocket hub.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Dispatcher implements gadget.EventSink by fanning events out to the
// wired infrastructure. Any of the sinks may be nil; nil sinks are
// skipped.
type Dispatcher struct {
	publisher   Publisher
	recorder    TransitionRecorder
	broadcaster Broadcaster
	logger      *logging.Logger
}

// NewDispatcher creates an event dispatcher. Nil sinks are allowed and
// skipped at publish time; logger must not be nil.
func NewDispatcher(publisher Publisher, recorder TransitionRecorder, broadcaster Broadcaster, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		publisher:   publisher,
		recorder:    recorder,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Publish delivers one lifecycle event to every wired sink.
func (d *Dispatcher) Publish(_ context.Context, event gadget.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("marshalling lifecycle event", "type", event.Type, "error", err)
		return
	}

	if d.publisher != nil {
		topic := mqtt.Topics{}.GadgetEvent(event.Gadget.ID)
		if err := d.publisher.PublishEvent(topic, payload); err != nil {
			d.logger.Warn("publishing lifecycle event",
				"topic", topic,
				"type", event.Type,
				"error", err,
			)
		}
	}

	if d.recorder != nil && event.From != event.Gadget.Status {
		d.recorder.WriteStatusTransition(event.Gadget.ID, string(event.From), string(event.Gadget.Status))
	}

	if d.broadcaster != nil {
		d.broadcaster.Broadcast(payload)
	}
}
