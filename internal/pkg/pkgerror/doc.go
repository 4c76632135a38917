// Package pkgerror defines the structured error carried from use cases to the
// HTTP edge.
//
// An *Error holds a user-facing message, a type, a stable Code that maps to
// an HTTP status, optional per-field details and the wrapped cause. Anything
// that is not an *Error is treated as an internal server error.
package pkgerror
