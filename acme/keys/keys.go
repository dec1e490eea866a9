// Package keys owns the ACME account keypair: generation, PEM
// serialization, the server-assigned key ID, and JWK helpers.
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/dkrol/acmecore/acme"
	"github.com/dkrol/acmecore/acme/codec"
)

const pemKeyHeader = "EC PRIVATE KEY"

// AccountKey is an ACME account keypair plus the key ID the server assigns
// at registration time. A key loaded from PEM or freshly generated has no
// key ID; the ID is established by calling the newAccount endpoint, which
// the protocol defines as idempotent for known keys. The key ID is never
// serialized with the key.
type AccountKey struct {
	privateKey *ecdsa.PrivateKey
	keyID      string
}

// New generates a fresh P-256 account key with no key ID.
func New() (*AccountKey, error) {
	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &AccountKey{privateKey: privKey}, nil
}

// FromPEM parses a PEM-encoded private key saved by a previous session.
// Both SEC1 ("EC PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks are
// accepted; the key must be ECDSA over P-256. The returned AccountKey has
// no key ID.
func FromPEM(pemBytes []byte) (*AccountKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, acme.DecodeError(fmt.Errorf("no PEM block found"))
	}

	var privKey *ecdsa.PrivateKey
	switch block.Type {
	case pemKeyHeader:
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, acme.DecodeError(err)
		}
		privKey = key
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, acme.DecodeError(err)
		}
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, acme.DecodeError(fmt.Errorf("PEM holds a %T, expected an ECDSA key", key))
		}
		privKey = ecKey
	default:
		return nil, acme.DecodeError(fmt.Errorf("unexpected PEM block type %q", block.Type))
	}

	if privKey.Curve != elliptic.P256() {
		return nil, acme.DecodeError(fmt.Errorf("unsupported curve %q, expected P-256", privKey.Params().Name))
	}
	return &AccountKey{privateKey: privKey}, nil
}

// ToPEM serializes the private key (only the key, never the key ID) as
// a SEC1 "EC PRIVATE KEY" PEM block.
func (k *AccountKey) ToPEM() ([]byte, error) {
	keyBytes, err := x509.MarshalECPrivateKey(k.privateKey)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemKeyHeader,
		Bytes: keyBytes,
	}), nil
}

// KeyID returns the server-assigned account URL, or an empty string if the
// key has not been registered this session.
func (k *AccountKey) KeyID() string {
	return k.keyID
}

// SetKeyID records the server-assigned account URL. It is a one-time
// mutation performed after a successful registration call; callers must
// not rely on being able to change an established ID.
func (k *AccountKey) SetKeyID(kid string) {
	k.keyID = kid
}

// Signer exposes the private key for JWS signing.
func (k *AccountKey) Signer() crypto.Signer {
	return k.privateKey
}

// SignatureAlgorithm returns the JWS algorithm for this key.
func (k *AccountKey) SignatureAlgorithm() jose.SignatureAlgorithm {
	return jose.ES256
}

// JWK returns the public half of the keypair as a JSON Web Key.
func (k *AccountKey) JWK() jose.JSONWebKey {
	return jose.JSONWebKey{
		Key:       k.privateKey.Public(),
		Algorithm: "ECDSA",
	}
}

// Thumbprint returns the base64url RFC 7638 SHA-256 thumbprint of the
// public key.
func (k *AccountKey) Thumbprint() (string, error) {
	jwk := k.JWK()
	thumbBytes, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}
	return codec.Base64URL(thumbBytes), nil
}
