package llm

import (
	"context"
	"fmt"
)

// Completer sends a single-turn prompt to a text-generation API and returns
// the first completion verbatim. Every failure is an *Error.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Kind classifies why a completion failed.
type Kind int

const (
	// KindNetwork covers transport failures: DNS, refused connections, timeouts.
	KindNetwork Kind = iota + 1
	// KindHTTPStatus means the API answered with a non-200 status.
	KindHTTPStatus
	// KindMalformed means a 200 response whose body had no usable completion.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindHTTPStatus:
		return "http status error"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown error"
	}
}

type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus && e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

func StatusError(code int, body string) *Error {
	return &Error{Kind: KindHTTPStatus, StatusCode: code, Message: body}
}

func MalformedError(msg string, err error) *Error {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: KindMalformed, Message: msg, Err: err}
}
