package client

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/dkrol/acmecore/acme"
	acmenet "github.com/dkrol/acmecore/net"
)

// maxAttempts bounds how many times retryCall will issue a request
// before giving up.
const maxAttempts = 3

// attemptBuilder constructs a fresh *http.Request for one attempt of a
// retried call. Requests carry one-shot state (the nonce inside a JWS,
// the body reader) so each attempt must build its own from scratch;
// a builder that re-signs its payload picks up a fresh nonce every
// time it runs.
type attemptBuilder func() (*http.Request, error)

// retryCall performs an HTTP call against the ACME server, building a
// fresh request for every attempt. A 2xx response is returned
// immediately. A 400 response is terminal: the request itself was
// rejected and is returned as a call error carrying the status and
// body. Anything else is retried until maxAttempts is reached, after
// which the last failure is returned as a network error, carrying the
// last status and body when the server answered and the transport
// error when it did not.
//
// Builder errors are returned as-is; they are not attempts against the
// server.
func (c *Client) retryCall(build attemptBuilder) (*acmenet.NetResponse, error) {
	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		if i > 1 {
			logrus.Debugf("Retrying call, attempt %d of %d", i, maxAttempts)
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := c.net.Do(req)
		if err != nil {
			logrus.Debugf("Attempt %d of %s %q failed: %s",
				i, req.Method, req.URL, err)
			lastErr = acme.NetworkError(err)
			continue
		}

		if c.Output.PrintRequests {
			c.Printf("Request:\n%s\n", resp.ReqDump)
		}
		if c.Output.PrintResponses {
			c.Printf("Response:\n%s\n", resp.RespDump)
		}

		status := resp.Response.StatusCode
		if status >= 200 && status < 300 {
			return resp, nil
		}

		if status == http.StatusBadRequest {
			return nil, acme.CallError(status, string(resp.RespBody))
		}

		logrus.Debugf("Attempt %d of %s %q returned status %d",
			i, req.Method, req.URL, status)
		lastErr = acme.RetriesError(status, string(resp.RespBody))
	}
	return nil, lastErr
}
