package acme

import "fmt"

// Kind classifies the closed set of failures this module produces. Callers
// should branch on the Kind of a returned *Error rather than matching
// message text.
type Kind int

const (
	// KindNetwork covers transport-level failures and calls that kept
	// failing with a retryable status until the attempt budget ran out.
	KindNetwork Kind = iota + 1
	// KindCall is a terminal rejection by the ACME server. The error
	// carries the HTTP status and response body.
	KindCall
	// KindMissingField is an expected response header or body field that
	// was absent from an otherwise well-formed response.
	KindMissingField
	// KindDecode is malformed JSON, PEM or base64 input.
	KindDecode
	// KindPersist is a failure surfaced unchanged from the persistence
	// backend.
	KindPersist
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindCall:
		return "call"
	case KindMissingField:
		return "missing field"
	case KindDecode:
		return "decode"
	case KindPersist:
		return "persist"
	}
	return "unknown"
}

// Error is the error type returned from every operation in this module.
// Exactly one Kind is set. Status and Body are populated for KindCall and
// for KindNetwork failures that exhausted the retry budget on an HTTP
// status; Field is populated for KindMissingField; Err holds the wrapped
// cause where one exists.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCall:
		return fmt.Sprintf("call failed (%d): %s", e.Status, e.Body)
	case KindNetwork:
		if e.Status != 0 {
			return fmt.Sprintf("call failed (%d) after retries: %s", e.Status, e.Body)
		}
		return fmt.Sprintf("network error: %s", e.Err)
	case KindMissingField:
		return fmt.Sprintf("missing %q", e.Field)
	case KindDecode:
		return fmt.Sprintf("decode error: %s", e.Err)
	case KindPersist:
		return fmt.Sprintf("persist error: %s", e.Err)
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports Kind equality so that errors.Is(err, &acme.Error{Kind: k})
// matches any error of kind k regardless of its other fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and zero
// otherwise.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}

// NetworkError wraps a transport-level failure.
func NetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// RetriesError reports a call that still had a retryable status when the
// attempt budget ran out.
func RetriesError(status int, body string) *Error {
	return &Error{Kind: KindNetwork, Status: status, Body: body}
}

// CallError reports a terminal rejection with the final status and body.
func CallError(status int, body string) *Error {
	return &Error{Kind: KindCall, Status: status, Body: body}
}

// MissingFieldError reports an absent response header or body field.
func MissingFieldError(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field}
}

// DecodeError wraps a JSON, PEM or base64 decoding failure.
func DecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// PersistError wraps a persistence backend failure without interpreting it.
func PersistError(err error) *Error {
	return &Error{Kind: KindPersist, Err: err}
}
