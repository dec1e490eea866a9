package client

import (
	"net/http"

	acmenet "github.com/dkrol/acmecore/net"
)

// GetURL performs an unauthenticated GET of the given URL through the
// retrying call path. ACME resources themselves require POST-as-GET;
// this is for the directory and for plain documents like terms of
// service or certificate chains.
func (c *Client) GetURL(url string) (*acmenet.NetResponse, error) {
	return c.retryCall(func() (*http.Request, error) {
		return c.net.GetRequest(url)
	})
}
