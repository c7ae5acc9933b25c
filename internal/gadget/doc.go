// Package gadget implements the gadget lifecycle for Gadgetry.
//
// A gadget moves through a closed status enum (Available, Deployed,
// Destroyed, Decommissioned). The enum is enforced at the boundary but
// there is no transition graph: any enum value may follow any other.
// Decommission and self-destruct are soft-state transitions; records are
// never physically deleted.
//
// Gadgets are created with a generated codename and a random success
// probability. Codename uniqueness relies on the database's UNIQUE
// constraint rather than application-level pre-checks.
package gadget
