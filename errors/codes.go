package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration errors
const (
	// ErrCodeAlreadyBound indicates a name already holds a fully built instance.
	ErrCodeAlreadyBound ErrorCode = "ALREADY_BOUND"
	// ErrCodeNotFound indicates no instance is registered under the name.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Construction errors
const (
	// ErrCodeCurrentlyInCreation indicates re-entrant construction of a name
	// that is not excluded from in-creation checks.
	ErrCodeCurrentlyInCreation ErrorCode = "CURRENTLY_IN_CREATION"
	// ErrCodeCreationNotAllowed indicates construction was attempted while
	// the registry is destroying its instances.
	ErrCodeCreationNotAllowed ErrorCode = "CREATION_NOT_ALLOWED"
	// ErrCodeCreationFailed indicates the construction callback for a name failed.
	ErrCodeCreationFailed ErrorCode = "CREATION_FAILED"
)

// Internal errors
const (
	// ErrCodeConsistency indicates a broken internal invariant, such as a
	// mismatched before/after construction bracket. Treated as a programming
	// error in a collaborator, not a recoverable condition.
	ErrCodeConsistency ErrorCode = "CONSISTENCY"
)
