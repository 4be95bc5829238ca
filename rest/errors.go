package rest

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request the way browser AJAX libraries
// report their text status.
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindError   ErrorKind = "error"
	KindParse   ErrorKind = "parsererror"
)

// Error is the failure value reported by HTTPTransport.
//
// A timeout wraps context.DeadlineExceeded, which is also what Await returns
// when the caller's own context expires first. Use IsTimeout to tell a
// transport timeout from an abandoned wait.
type Error struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// StatusText is the status phrase of the response, or the kind when no
	// response was received.
	StatusText string
	// ResponseText is the raw response body, if any.
	ResponseText string
	Kind         ErrorKind
	// Err is the underlying network or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: %d %s", msg, e.Status, e.StatusText)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.Kind == KindTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Status
	}
	return 0
}
