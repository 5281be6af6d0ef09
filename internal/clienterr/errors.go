// Package clienterr classifies the failures of an exchange.
package clienterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the class of a failure. A Kind is itself an error so it can be
// used as an errors.Is target.
type Kind int

const (
	// Resolution means the host/port lookup failed.
	Resolution Kind = iota + 1
	// Connect means no candidate address accepted a connection.
	Connect
	// Transport wraps a send or receive failure on an open connection.
	Transport
	// OutOfData means the stream ended before a required token was complete.
	OutOfData
	// MalformedLine means a status, request or header line lacked required parts.
	MalformedLine
	// UnsupportedStatus means the status code was not accepted.
	UnsupportedStatus
	// Handshake means a WebSocket upgrade reply was refused or did not verify.
	Handshake
)

func (k Kind) Error() string {
	switch k {
	case Resolution:
		return "address resolution failed"
	case Connect:
		return "connect failed"
	case Transport:
		return "transport error"
	case OutOfData:
		return "out of data"
	case MalformedLine:
		return "malformed line"
	case UnsupportedStatus:
		return "unsupported status code"
	case Handshake:
		return "websocket handshake failed"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the step that failed, e.g. "resolve" or "read status line".
	Op  string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind.Error(), e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind.Error(), e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.Error())
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare Kind target.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New classifies err. err may be nil when the kind says it all.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf classifies a freshly formatted message.
func Newf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
