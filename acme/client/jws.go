package client

import (
	"fmt"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/dkrol/acmecore/acme/keys"
)

// SigningOptions allows specifying signature related options when
// calling the Client's Sign function.
type SigningOptions struct {
	// If true, embed the signing key's public key as a JWK in the signed
	// JWS instead of using a KeyID header. This is required for the
	// NewAccount endpoint, which is what establishes the key ID in the
	// first place. Setting EmbedKey to true is mutually exclusive with a
	// non-empty KeyID.
	EmbedKey bool
	// If not-empty, a KeyID value to use for the JWS Key ID header to
	// identify the ACME account. If empty the Key's own key ID is used.
	// Providing a KeyID is mutually exclusive with setting EmbedKey to
	// true.
	KeyID string
	// The account key to sign the JWS with. Required.
	Key *keys.AccountKey
	// NonceSource is a jose.NonceSource implementation that provides the
	// Replay-Nonce header value for the produced JWS. If nil the Client
	// is used, fetching a fresh nonce from the ACME server per signature.
	NonceSource jose.NonceSource
}

// validate checks that the SigningOptions are sensible. This enforces
// the mutually exclusive KeyID and EmbedKey options and ensures that the
// NonceSource and Key are not nil. Because it checks fields that Sign
// populates with defaults it must only be called after those defaults
// are applied.
func (opts *SigningOptions) validate() error {
	if opts.KeyID != "" && opts.EmbedKey {
		return fmt.Errorf("SigningOptions validate: cannot specify both KeyID and EmbedKey")
	}
	if opts.KeyID == "" && !opts.EmbedKey {
		return fmt.Errorf("SigningOptions validate: you must specify a KeyID or EmbedKey")
	}
	if opts.NonceSource == nil {
		return fmt.Errorf("SigningOptions validate: you must specify a NonceSource")
	}
	if opts.Key == nil {
		return fmt.Errorf("SigningOptions validate: you must specify a private key")
	}
	return nil
}

// fixedNonce is a jose.NonceSource yielding one predetermined nonce.
type fixedNonce string

func (n fixedNonce) Nonce() (string, error) {
	return string(n), nil
}

// SignResult holds the input and output from a Sign operation.
type SignResult struct {
	// The url argument given to Sign.
	InputURL string
	// The data argument given to sign.
	InputData []byte
	// The JWS produced by signing the given data.
	JWS *jose.JSONWebSignature
	// The JWS in serialized form.
	SerializedJWS []byte
}

// Sign produces a SignResult by signing the provided data (with a
// protected URL header) according to the SigningOptions provided. The
// options must carry the Key to sign with. If the options specify not
// to embed a JWK and give no explicit KeyID the Key's own key ID is
// used, so a registered account key signs in KeyID form by default. If
// the options do not specify an explicit NonceSource the Client is
// used.
func (c *Client) Sign(url string, data []byte, opts *SigningOptions) (*SignResult, error) {
	if opts == nil {
		opts = &SigningOptions{}
	}

	if opts.Key == nil {
		return nil, fmt.Errorf("sign: no Key was specified in SigningOptions")
	}

	// If there is no request to embed a JWK and there is no explicit
	// KeyID provided use the key's registered ID.
	if !opts.EmbedKey && opts.KeyID == "" {
		opts.KeyID = opts.Key.KeyID()
		if opts.KeyID == "" {
			return nil, fmt.Errorf(
				"sign: SigningOptions did not specify EmbedKey and the Key has no key ID")
		}
	}

	// If there is no explicit NonceSource specified, use the client.
	if opts.NonceSource == nil {
		opts.NonceSource = c
	}

	// Now that the defaults are populated check that the resulting options
	// are valid.
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// Fetch the nonce before handing off to the signer. The signer
	// flattens NonceSource failures into its own error text, which would
	// strip the tagged error a nonce fetch returns.
	nonce, err := opts.NonceSource.Nonce()
	if err != nil {
		return nil, err
	}
	sealed := *opts
	sealed.NonceSource = fixedNonce(nonce)

	if c.Output.PrintSignedData {
		c.Printf("Signing:\n%s\n", data)
	}

	var signResult *SignResult
	if opts.EmbedKey {
		signResult, err = signEmbedded(url, data, sealed)
	} else {
		signResult, err = signKeyID(url, data, sealed)
	}

	if err == nil && c.Output.PrintJWS {
		c.Printf("JWS:\n%s\n", string(signResult.SerializedJWS))
	}
	return signResult, err
}

func signEmbedded(url string, data []byte, opts SigningOptions) (*SignResult, error) {
	signingKey := jose.SigningKey{
		Key:       opts.Key.Signer(),
		Algorithm: opts.Key.SignatureAlgorithm(),
	}

	signer, err := jose.NewSigner(signingKey, &jose.SignerOptions{
		NonceSource: opts.NonceSource,
		EmbedJWK:    true,
		ExtraHeaders: map[jose.HeaderKey]any{
			"url": url,
		},
	})
	if err != nil {
		return nil, err
	}

	return sign(signer, url, data)
}

func signKeyID(url string, data []byte, opts SigningOptions) (*SignResult, error) {
	jwk := &jose.JSONWebKey{
		Key:       opts.Key.Signer(),
		Algorithm: "ECDSA",
		KeyID:     opts.KeyID,
	}

	signerKey := jose.SigningKey{
		Key:       jwk,
		Algorithm: opts.Key.SignatureAlgorithm(),
	}

	joseOpts := &jose.SignerOptions{
		NonceSource: opts.NonceSource,
		ExtraHeaders: map[jose.HeaderKey]any{
			"url": url,
		},
	}

	signer, err := jose.NewSigner(signerKey, joseOpts)
	if err != nil {
		return nil, err
	}

	return sign(signer, url, data)
}

func sign(signer jose.Signer, url string, data []byte) (*SignResult, error) {
	signed, err := signer.Sign(data)
	if err != nil {
		return nil, err
	}

	serialized := []byte(signed.FullSerialize())

	// Reparse the serialized body to get a fully populated JWS object
	parsedJWS, err := jose.ParseSigned(string(serialized),
		[]jose.SignatureAlgorithm{jose.ES256})
	if err != nil {
		return nil, err
	}

	return &SignResult{
		InputURL:      url,
		InputData:     data,
		JWS:           parsedJWS,
		SerializedJWS: serialized,
	}, nil
}
