// Package logging provides structured logging for Gadgetry.
//
// It wraps the standard library's log/slog with configuration-driven
// format and level selection, plus default service/version attributes
// on every record.
package logging
