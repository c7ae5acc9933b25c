// Package auth provides authentication for Gadgetry.
//
// It implements account registration and login with:
//   - Deterministic SHA-256 credential digests (verified by recomputation)
//   - JWT bearer tokens (HS256) signed with an injected secret
//   - SQLite-backed account persistence with database-level name uniqueness
//
// Every gadget endpoint requires a valid bearer token; the token subject
// is threaded through the request context so handlers can attribute
// actions to an operator.
package auth
