// Package errors provides the typed failures a zanatactl invocation can end with.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind labels used in output and metrics.
const (
	KindValidation = "validation"
	KindRemote     = "remote"
	KindTransport  = "transport"
	KindUnexpected = "unexpected"
)

// ValidationError reports parameters that are missing or invalid for an operation.
// It is always raised before any network activity.
type ValidationError struct {
	Operation string
	Missing   []string

	// Param and Reason describe a single invalid value (e.g. an unknown type).
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 && e.Operation == "" {
		return "missing required arguments: " + strings.Join(e.Missing, ", ")
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("[ %s ] operation requires: %s", e.Operation, strings.Join(e.Missing, ", "))
	}
	if e.Param != "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Param, e.Reason)
	}
	return e.Reason
}

// NewMissingParams creates a validation error for absent required parameters.
func NewMissingParams(operation string, missing []string) *ValidationError {
	return &ValidationError{Operation: operation, Missing: missing}
}

// NewInvalidParam creates a validation error for a parameter with a bad value.
func NewInvalidParam(param, reason string) *ValidationError {
	return &ValidationError{Param: param, Reason: reason}
}

// RemoteError is a response from the server with a status outside the accepted set.
type RemoteError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error returns the server message verbatim.
func (e *RemoteError) Error() string {
	return e.Message
}

// NewRemoteError creates a new remote error.
func NewRemoteError(statusCode int, message, body string) *RemoteError {
	return &RemoteError{StatusCode: statusCode, Message: message, Body: body}
}

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedError wraps any other failure during dispatch.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Unexpected wraps err as an UnexpectedError unless it already carries a kind.
func Unexpected(err error) error {
	if err == nil || Kind(err) != KindUnexpected {
		return err
	}
	var ue *UnexpectedError
	if errors.As(err, &ue) {
		return err
	}
	return &UnexpectedError{Err: err}
}

// Kind returns the category label for err.
func Kind(err error) string {
	var (
		ve *ValidationError
		re *RemoteError
		te *TransportError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &re):
		return KindRemote
	case errors.As(err, &te):
		return KindTransport
	default:
		return KindUnexpected
	}
}

// StatusCode returns the HTTP status carried by a RemoteError, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
