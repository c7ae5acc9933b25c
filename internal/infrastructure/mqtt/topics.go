package mqtt

import "fmt"

// Topic prefixes for the Gadgetry MQTT namespace.
//
// All topics use the flat scheme: gadgetry/{category}/{subject}
const (
	// TopicPrefix is the base for all Gadgetry topics.
	TopicPrefix = "gadgetry"

	// TopicPrefixEvent is the base for lifecycle event topics.
	TopicPrefixEvent = "gadgetry/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "gadgetry/system"
)

// Topics provides builders for Gadgetry MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.GadgetEvent("7f3a...")
//	// Returns: "gadgetry/event/gadget/7f3a..."
type Topics struct{}

// GadgetEvent returns the lifecycle event topic for a specific gadget.
//
// Example: gadgetry/event/gadget/7f3a9c12
func (Topics) GadgetEvent(gadgetID string) string {
	return fmt.Sprintf("%s/gadget/%s", TopicPrefixEvent, gadgetID)
}

// SystemStatus returns the service status topic.
//
// Example: gadgetry/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
