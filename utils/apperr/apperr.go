// Package apperr carries the failure kinds the HTTP layer translates into
// responses: bad input, missing records, failing upstreams.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for retry and response decisions.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a tagged failure. Op names the component or resource involved.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	// Status is the upstream HTTP status for KindUpstream errors, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or absent input.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a lookup miss on a single record.
func NotFound(op string, id uint) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("id %d not found", id)}
}

// Upstream wraps a failing call to a remote service.
func Upstream(op string, status int, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Status: status, Err: err}
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Retryable is true for transient failures: untagged transport errors and
// upstream errors other than a 4xx rejection (429 excepted). Validation and
// lookup misses are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindValidation, KindNotFound, KindUnauthorized:
		return false
	case KindUpstream:
		return e.Status == 0 || e.Status == 429 || e.Status >= 500
	}
	return true
}
