package gadget

import (
	"fmt"
	"time"
)

// Status represents a gadget's lifecycle state.
//
// The four values form a closed enum. There is no transition table:
// any enum value may be set at any time, but values outside the enum
// are rejected at the boundary.
type Status string

const (
	// StatusAvailable is the initial state of every gadget.
	StatusAvailable Status = "Available"

	// StatusDeployed marks a gadget as out in the field.
	StatusDeployed Status = "Deployed"

	// StatusDestroyed is the terminal state reached via self-destruct.
	StatusDestroyed Status = "Destroyed"

	// StatusDecommissioned is the soft-delete state reached via DELETE.
	StatusDecommissioned Status = "Decommissioned"
)

// ValidStatuses is the set of valid gadget statuses.
var ValidStatuses = []Status{StatusAvailable, StatusDeployed, StatusDestroyed, StatusDecommissioned}

// ParseStatus converts a string into a Status, rejecting anything
// outside the enum.
func ParseStatus(s string) (Status, error) {
	for _, v := range ValidStatuses {
		if Status(s) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsValidStatus returns true if the string is an enum member.
func IsValidStatus(s string) bool {
	_, err := ParseStatus(s)
	return err == nil
}

// Gadget represents a single gadget record.
type Gadget struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Success int    `json:"success"`
	Status  Status `json:"status"`

	// Timestamp is stamped whenever the gadget is decommissioned or
	// destroyed. Nil until the first such transition.
	Timestamp *time.Time `json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Describe renders the gadget's one-line field summary.
//
// Example: "sneaky kiwi 87% success probability. Status Available"
func (g *Gadget) Describe() string {
	return fmt.Sprintf("%s %d%% success probability. Status %s", g.Name, g.Success, g.Status)
}

// View is the list representation of a gadget: its ID plus the
// rendered description line.
type View struct {
	ID     string `json:"id"`
	Gadget string `json:"gadget"`
}

// ViewOf builds the list View for a gadget.
func ViewOf(g *Gadget) View {
	return View{ID: g.ID, Gadget: g.Describe()}
}
