package client

import (
	"net/http"

	"github.com/dkrol/acmecore/acme"
)

// Nonce satisfies the JWS "NonceSource" interface. Every call makes a
// HEAD request to the ACME server's newNonce endpoint and returns the
// Replay-Nonce header value. Nonces are single-use: nothing is cached
// between calls, so every signature carries a nonce no earlier
// signature has seen.
//
// See https://tools.ietf.org/html/rfc8555#section-7.2
func (c *Client) Nonce() (string, error) {
	nonceURL, ok := c.GetEndpointURL(acme.NEW_NONCE_ENDPOINT)
	if !ok {
		return "", acme.MissingFieldError(acme.NEW_NONCE_ENDPOINT)
	}

	if c.Output.PrintNonceUpdates {
		c.Printf("Sending HTTP HEAD request to %q\n", nonceURL)
	}

	resp, err := c.retryCall(func() (*http.Request, error) {
		return c.net.HeadRequest(nonceURL)
	})
	if err != nil {
		return "", err
	}

	nonce := resp.Response.Header.Get(acme.REPLAY_NONCE_HEADER)
	if nonce == "" {
		return "", acme.MissingFieldError(acme.REPLAY_NONCE_HEADER)
	}

	if c.Output.PrintNonceUpdates {
		c.Printf("Got nonce %q\n", nonce)
	}
	return nonce, nil
}
