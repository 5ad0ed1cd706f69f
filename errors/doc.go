// Package errors provides structured error handling for regkit.
// It implements a domain error type with machine-readable codes, a wrapped
// cause, and related (suppressed) secondary causes collected while a shared
// instance is being constructed.
package errors
