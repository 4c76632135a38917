package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that the requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	TypeServer     Type = iota // Storage, encoding and other failures the client cannot fix.
	TypeBusiness               // Requests that are well formed but refer to nothing.
	TypeValidation             // Input rejected before any side effect.
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeNotFound
	CodeMethodNotAllowed
)

//nolint:gochecknoglobals // read-only lookup table
var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:         {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:    {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeNotFound:         {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeMethodNotAllowed: {"ERROR_CODE_METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed},
}

func (c Code) String() string {
	if m, ok := codes[c]; ok {
		return m.name
	}
	return codes[CodeInternal].name
}

// StatusCode is the HTTP status answered for c; unknown codes map to 500.
func (c Code) StatusCode() int {
	if m, ok := codes[c]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a high-level type, a stable code and per-field details.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.errType.String()
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Fields: %v, Underlying Error: %v",
		e.errType, e.code, e.msg, e.fields, e.err,
	)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns per-field validation details, keyed by field name.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	return e.code.StatusCode()
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

// Normalize returns err unchanged when it already carries an *Error and wraps
// it as a server error otherwise. Nil stays nil.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return NewServer(err)
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewValidation creates a validation error with a user-facing message, a code
// and optional per-field details.
func NewValidation(msg string, code Code, fields map[string]string) error {
	return &Error{msg: msg, errType: TypeValidation, code: code, fields: fields}
}

// NewNotFound creates a business error for a missing resource.
func NewNotFound(msg string) error {
	return &Error{err: ErrNotFound, msg: msg, errType: TypeBusiness, code: CodeNotFound}
}

// NewMethodNotAllowed reports a known path requested with the wrong method.
func NewMethodNotAllowed(method string) error {
	return &Error{
		msg:     "method not allowed",
		errType: TypeValidation,
		code:    CodeMethodNotAllowed,
		fields:  map[string]string{"method": method},
	}
}
