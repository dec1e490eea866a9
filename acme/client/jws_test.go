package client

import (
	"strings"
	"testing"

	"github.com/dkrol/acmecore/acme/keys"
	"github.com/dkrol/acmecore/persist"
)

func TestSignRejectsBadOptions(t *testing.T) {
	ca := newTestCA(t)
	c, err := NewClient(ca.clientConfig(persist.NewMemoryPersist()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	key, err := keys.New()
	if err != nil {
		t.Fatalf("keys.New: %v", err)
	}

	if _, err := c.Sign(ca.url("/new-acct"), nil, nil); err == nil {
		t.Fatal("expected an error signing with no key")
	}

	// An unregistered key has no key ID to fall back on.
	_, err = c.Sign(ca.url("/new-acct"), nil, &SigningOptions{Key: key})
	if err == nil || !strings.Contains(err.Error(), "key ID") {
		t.Fatalf("expected a key ID error for an unregistered key, got: %v", err)
	}

	_, err = c.Sign(ca.url("/new-acct"), nil, &SigningOptions{
		Key:      key,
		EmbedKey: true,
		KeyID:    "https://example.com/acct/1",
	})
	if err == nil {
		t.Fatal("expected an error for EmbedKey combined with KeyID")
	}
}

func TestSignResultRoundTrips(t *testing.T) {
	ca := newTestCA(t)
	c, err := NewClient(ca.clientConfig(persist.NewMemoryPersist()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	key, err := keys.New()
	if err != nil {
		t.Fatalf("keys.New: %v", err)
	}

	data := []byte(`{"hello":"acme"}`)
	result, err := c.Sign(ca.url("/new-acct"), data, &SigningOptions{
		Key:      key,
		EmbedKey: true,
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if result.InputURL != ca.url("/new-acct") {
		t.Fatalf("InputURL = %q", result.InputURL)
	}
	if string(result.InputData) != string(data) {
		t.Fatalf("InputData = %q", result.InputData)
	}
	if len(result.SerializedJWS) == 0 {
		t.Fatal("no serialized JWS")
	}

	// The parsed JWS must carry the same payload that went in.
	payload := result.JWS.UnsafePayloadWithoutVerification()
	if string(payload) != string(data) {
		t.Fatalf("JWS payload = %q, want %q", payload, data)
	}
}
