package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies where an action failed
type ErrorKind int

const (
	// KindTransport means the backend could not be reached or the exchange broke off
	KindTransport ErrorKind = iota
	// KindBackend means the backend answered with a status outside the success range
	KindBackend
	// KindShape means the backend answered successfully but without an expected field
	KindShape
	// KindValidation means the input was rejected before any backend call
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindShape:
		return "shape"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GenericMessage is used when nothing more specific is known about a failure
const GenericMessage = "Something went wrong"

// ActionError is the only error type returned by proxy actions
type ActionError struct {
	Kind    ErrorKind
	Message string
	// Status is the backend HTTP status for KindBackend errors, zero otherwise
	Status int
	Err    error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network or decoding failure
func NewTransportError(message string, err error) *ActionError {
	return &ActionError{Kind: KindTransport, Message: message, Err: err}
}

// NewBackendError records a non-success status from the backend
func NewBackendError(message string, status int) *ActionError {
	return &ActionError{Kind: KindBackend, Message: message, Status: status}
}

// NewShapeError records a successful response missing an expected field
func NewShapeError(message string) *ActionError {
	return &ActionError{Kind: KindShape, Message: message}
}

// NewValidationError records input rejected before calling the backend
func NewValidationError(message string) *ActionError {
	return &ActionError{Kind: KindValidation, Message: message}
}

// ErrorDescriptor is the uniform failure payload exposed to the UI
type ErrorDescriptor struct {
	Error string `json:"error"`
}

// Describe converts any error into an ErrorDescriptor
func Describe(err error) ErrorDescriptor {
	var actionErr *ActionError
	if errors.As(err, &actionErr) && actionErr.Message != "" {
		return ErrorDescriptor{Error: actionErr.Message}
	}
	return ErrorDescriptor{Error: GenericMessage}
}
