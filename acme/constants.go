// Package acme provides ACME protocol constants and error types. See RFC 8555.
package acme

const (
	// Directory constants
	// See https://tools.ietf.org/html/rfc8555#section-9.7.5

	// The ACME directory key for the newNonce endpoint
	NEW_NONCE_ENDPOINT = "newNonce"
	// The ACME directory key for the newAccount endpoint.
	NEW_ACCOUNT_ENDPOINT = "newAccount"
	// The ACME directory key for the newOrder endpoint.
	NEW_ORDER_ENDPOINT = "newOrder"

	// The HTTP response header used by ACME to communicate a fresh nonce. See
	// https://tools.ietf.org/html/rfc8555#section-9.3
	REPLAY_NONCE_HEADER = "Replay-Nonce"
	// The HTTP response header carrying the URL of a created resource. For
	// newAccount responses this is the account URL used as the JWS key ID.
	LOCATION_HEADER = "Location"

	// Content type for JWS request bodies. See
	// https://tools.ietf.org/html/rfc8555#section-6.2
	JOSE_CONTENT_TYPE = "application/jose+json"

	// Directory URLs for the well-known public Let's Encrypt environments.
	// The staging directory issues certificates that chain to an untrusted
	// root and is the right choice for testing and development.
	LETSENCRYPT_DIRECTORY         = "https://acme-v02.api.letsencrypt.org/directory"
	LETSENCRYPT_STAGING_DIRECTORY = "https://acme-staging-v02.api.letsencrypt.org/directory"
)
