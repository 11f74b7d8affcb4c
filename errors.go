package treemask

import "fmt"

// ErrorCode identifies the category of a comparison error
type ErrorCode int

const (
	// ErrNilMask means a comparison was asked for without a mask, or a
	// composite mask holds a nil Mask
	ErrNilMask ErrorCode = iota + 1
	// ErrWildcards means a set mask lists more than one WildcardMarker
	ErrWildcards
	// ErrKeyFunc means a set mask has no key function, or it failed
	ErrKeyFunc
	// ErrUnknownPolicy means a type comparer policy name wasn't recognized
	ErrUnknownPolicy
)

// Error is returned when the mask itself is malformed. Mismatches between
// tree and mask are never errors, they are reported as Diffs
type Error struct {
	Code ErrorCode
	// Path locates the offending mask, if known
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("treemask: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("treemask: %s", msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsConfigError returns true if err reports a badly configured mask or
// comparer
func IsConfigError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == ErrWildcards || e.Code == ErrUnknownPolicy || e.Code == ErrNilMask
	}
	return false
}

// IsKeyError returns true if err came from a set mask key function
func IsKeyError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == ErrKeyFunc
	}
	return false
}
