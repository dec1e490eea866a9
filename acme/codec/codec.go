// Package codec provides the URL-safe base64 encoding used throughout the
// ACME protocol for JWS segments and thumbprints.
package codec

import (
	"encoding/base64"

	"github.com/dkrol/acmecore/acme"
)

// base64URL is the process-wide codec configuration: the URL-safe alphabet
// with no padding, per RFC 8555 section 6.1. It is read-only and must never
// be swapped after initialization.
var base64URL = base64.RawURLEncoding

// Base64URL encodes data as unpadded URL-safe base64.
func Base64URL(data []byte) string {
	return base64URL.EncodeToString(data)
}

// Unbase64URL decodes an unpadded URL-safe base64 string.
func Unbase64URL(input string) ([]byte, error) {
	data, err := base64URL.DecodeString(input)
	if err != nil {
		return nil, acme.DecodeError(err)
	}
	return data, nil
}
