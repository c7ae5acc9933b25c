package gadget

import (
	"context"
	"time"
)

// Event types emitted by the lifecycle service.
const (
	EventCreated        = "gadget.created"
	EventUpdated        = "gadget.updated"
	EventDecommissioned = "gadget.decommissioned"
	EventSelfDestructed = "gadget.self_destructed"
)

// Event describes a gadget lifecycle change.
type Event struct {
	Type string `json:"type"`

	// Gadget is the record after the change was applied.
	Gadget Gadget `json:"gadget"`

	// From is the status before the change, empty for newly created gadgets.
	From Status `json:"from,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// EventSink receives lifecycle events after a mutation commits.
//
// Implementations must not block the caller for long; delivery is
// best-effort and failures must not affect the mutation's outcome.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// NopSink discards all events. Used when no event infrastructure is wired.
type NopSink struct{}

// Publish implements EventSink.
func (NopSink) Publish(context.Context, Event) {}
