package entities

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrGatewayUnreachable       = errors.New("payment gateway unreachable")
	ErrGatewayTimeout           = errors.New("payment gateway timeout")
	ErrGatewayRejected          = errors.New("payment gateway rejected the request")
	ErrMalformedGatewayResponse = errors.New("malformed payment gateway response")
)

type GatewayErrorKind string

const (
	GatewayErrorUnreachable GatewayErrorKind = "unreachable"
	GatewayErrorRejected    GatewayErrorKind = "rejected"
	GatewayErrorMalformed   GatewayErrorKind = "malformed"
)

// GatewayError describes a failed gateway round-trip.
//
// RawPayload holds the gateway body for support diagnostics. Request headers
// (and therefore credentials) are never copied into it.
type GatewayError struct {
	Kind       GatewayErrorKind
	StatusCode int
	Message    string
	RawPayload json.RawMessage
	Timeout    bool
	Err        error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case GatewayErrorRejected:
		return fmt.Sprintf("%s: status=%d message=%q", ErrGatewayRejected, e.StatusCode, e.Message)
	case GatewayErrorMalformed:
		return fmt.Sprintf("%s: %s", ErrMalformedGatewayResponse, e.Message)
	default:
		if e.Timeout {
			return fmt.Sprintf("%s: %v", ErrGatewayTimeout, e.Err)
		}
		return fmt.Sprintf("%s: %v", ErrGatewayUnreachable, e.Err)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is lets callers use errors.Is with the package sentinels.
// A timeout matches both ErrGatewayTimeout and ErrGatewayUnreachable.
func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrGatewayUnreachable:
		return e.Kind == GatewayErrorUnreachable
	case ErrGatewayTimeout:
		return e.Kind == GatewayErrorUnreachable && e.Timeout
	case ErrGatewayRejected:
		return e.Kind == GatewayErrorRejected
	case ErrMalformedGatewayResponse:
		return e.Kind == GatewayErrorMalformed
	}
	return false
}

func NewGatewayUnreachable(err error, timeout bool) *GatewayError {
	return &GatewayError{Kind: GatewayErrorUnreachable, Err: err, Timeout: timeout}
}

func NewGatewayRejected(statusCode int, message string, raw json.RawMessage) *GatewayError {
	return &GatewayError{Kind: GatewayErrorRejected, StatusCode: statusCode, Message: message, RawPayload: raw}
}

func NewMalformedGatewayResponse(message string, raw json.RawMessage) *GatewayError {
	return &GatewayError{Kind: GatewayErrorMalformed, Message: message, RawPayload: raw}
}
