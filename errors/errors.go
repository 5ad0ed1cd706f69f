package errors

import (
	stderrors "errors"
	"fmt"
)

// RegError is the unified registry error type.
type RegError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Name is the instance name the error relates to, if any.
	Name string `json:"name,omitempty"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
	// Related holds secondary causes that were suppressed while the
	// top-level operation was in progress.
	Related []error `json:"-"`
}

// Error returns the string representation of the error.
func (e *RegError) Error() string {
	switch {
	case e.Cause != nil && e.Name != "":
		return fmt.Sprintf("%s: %s '%s': %v", e.Code, e.Message, e.Name, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	case e.Name != "":
		return fmt.Sprintf("%s: %s '%s'", e.Code, e.Message, e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *RegError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *RegError) WithCause(cause error) *RegError {
	e.Cause = cause
	return e
}

// AddRelated records a secondary cause. Related causes do not participate in
// Unwrap; they are informational context for the top-level failure.
func (e *RegError) AddRelated(related error) {
	e.Related = append(e.Related, related)
}

// RelatedCauses returns the recorded secondary causes, possibly empty.
func (e *RegError) RelatedCauses() []error { return e.Related }

// --- Constructors ---

// AlreadyBound reports an eager registration for a name that already holds
// a fully built instance.
func AlreadyBound(name string, existing any) *RegError {
	return &RegError{
		Code: ErrCodeAlreadyBound, Name: name,
		Message: fmt.Sprintf("instance [%v] already bound under name", existing),
	}
}

// CurrentlyInCreation reports re-entrant construction of the given name.
func CurrentlyInCreation(name string) *RegError {
	return &RegError{
		Code: ErrCodeCurrentlyInCreation, Name: name,
		Message: "requested instance is currently in creation: is there an unresolvable circular reference?",
	}
}

// CreationNotAllowed reports a construction attempt during registry shutdown.
func CreationNotAllowed(name string) *RegError {
	return &RegError{
		Code: ErrCodeCreationNotAllowed, Name: name,
		Message: "instance creation not allowed while the registry is destroying its instances (do not request an instance from a disposal hook)",
	}
}

// CreationFailed wraps a construction callback failure for the given name.
func CreationFailed(name string, cause error) *RegError {
	return &RegError{
		Code: ErrCodeCreationFailed, Name: name,
		Message: "instance creation failed",
		Cause:   cause,
	}
}

// Consistency reports a broken internal invariant.
func Consistency(format string, args ...any) *RegError {
	return &RegError{
		Code:    ErrCodeConsistency,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound reports that no instance is registered under the name.
func NotFound(name string) *RegError {
	return &RegError{
		Code: ErrCodeNotFound, Name: name,
		Message: "no instance registered under name",
	}
}

// --- Inspection helpers ---

// CodeOf returns the error code of err, or the empty string if err does not
// wrap a *RegError.
func CodeOf(err error) ErrorCode {
	var re *RegError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// HasCode reports whether err wraps a *RegError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Related returns the related causes of err if it wraps a *RegError.
func Related(err error) []error {
	var re *RegError
	if stderrors.As(err, &re) {
		return re.Related
	}
	return nil
}
