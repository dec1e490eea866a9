// Package resources provides types for representing ACME protocol
// resources on the wire.
package resources

import (
	"encoding/json"
	"fmt"
)

// NewAccountRequest is the JSON payload POSTed to the newAccount endpoint.
//
// See https://tools.ietf.org/html/rfc8555#section-7.3
type NewAccountRequest struct {
	// Contact URLs for the account, e.g. "mailto:jane@example.com".
	Contact []string `json:"contact,omitempty"`
	// Agreement with the server's terms of service. The server refuses to
	// create accounts without it.
	TermsOfServiceAgreed bool `json:"termsOfServiceAgreed"`
	// If true the server must not create a new account and instead returns
	// the account already registered for the signing key, if any.
	OnlyReturnExisting bool `json:"onlyReturnExisting,omitempty"`
}

// MailTo builds the contact URL form of an email address.
func MailTo(email string) string {
	return fmt.Sprintf("mailto:%s", email)
}

// Account is the server's representation of an account resource, returned
// from newAccount and from POST-as-GET requests to the account URL.
//
// See https://tools.ietf.org/html/rfc8555#section-7.1.2
type Account struct {
	// One of "valid", "deactivated" or "revoked".
	Status string `json:"status,omitempty"`
	// Contact URLs registered for the account.
	Contact []string `json:"contact,omitempty"`
	// URL listing orders the account has created.
	Orders string `json:"orders,omitempty"`
	// Echoed agreement flag, if the server includes it.
	TermsOfServiceAgreed bool `json:"termsOfServiceAgreed,omitempty"`
	// Present when the account is bound to an external (non-ACME) account.
	ExternalAccountBinding json.RawMessage `json:"externalAccountBinding,omitempty"`
}
