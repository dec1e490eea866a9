package acme

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := CallError(400, "bad nonce")
	if got := KindOf(err); got != KindCall {
		t.Errorf("KindOf returned %v, expected %v", got, KindCall)
	}

	wrapped := fmt.Errorf("creating account: %w", MissingFieldError("Location"))
	if got := KindOf(wrapped); got != KindMissingField {
		t.Errorf("KindOf on wrapped error returned %v, expected %v", got, KindMissingField)
	}

	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf on plain error returned %v, expected 0", got)
	}
	if got := KindOf(nil); got != 0 {
		t.Errorf("KindOf on nil returned %v, expected 0", got)
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := RetriesError(503, "upstream sad")
	if !errors.Is(err, &Error{Kind: KindNetwork}) {
		t.Error("expected RetriesError to match KindNetwork")
	}
	if errors.Is(err, &Error{Kind: KindCall}) {
		t.Error("RetriesError must not match KindCall")
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{CallError(400, "urn:ietf:params:acme:error:badNonce"),
			`call failed (400): urn:ietf:params:acme:error:badNonce`},
		{RetriesError(500, "boom"),
			`call failed (500) after retries: boom`},
		{MissingFieldError("Replay-Nonce"),
			`missing "Replay-Nonce"`},
		{NetworkError(errors.New("connection refused")),
			`network error: connection refused`},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("got message %q, expected %q", got, tc.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := PersistError(cause)
	if !errors.Is(err, cause) {
		t.Error("expected PersistError to unwrap to its cause")
	}
}
