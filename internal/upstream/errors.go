package upstream

import (
	"context"
	"fmt"
	"net"

	"github.com/go-faster/errors"
	"github.com/ogen-go/ogen/validate"
)

// Kind classifies an upstream failure. Callers see the same generic outcome
// for every kind; the distinction exists for logs and metrics.
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindStatus
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a classified upstream failure.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	// Message is the upstream's own error text, if it sent one. It is
	// logged but never shown to the caller.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream %s: status %d", e.Endpoint, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("upstream %s: %s: %v", e.Endpoint, e.Kind, e.Err)
		}
		return fmt.Sprintf("upstream %s: %s", e.Endpoint, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrFailureBody marks a well-formed body whose success flag is false.
var ErrFailureBody = errors.New("upstream reported failure")

// KindOf returns the failure kind of err, or 0 when err is not an upstream error.
func KindOf(err error) Kind {
	if e, ok := errors.Into[*Error](err); ok {
		return e.Kind
	}
	return 0
}

func statusError(endpoint string, code int, message string) *Error {
	return &Error{
		Kind:       KindStatus,
		Endpoint:   endpoint,
		StatusCode: code,
		Message:    message,
		Err:        validate.UnexpectedStatusCode(code),
	}
}

// classify maps a transport-level error to Timeout or Transport.
func classify(endpoint string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Endpoint: endpoint, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Endpoint: endpoint, Err: err}
	}
	return &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
}
