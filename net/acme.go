// Package net provides common HTTP utilities.
package net

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime"
	"time"

	"github.com/dkrol/acmecore/acme"
)

const (
	version       = "0.1.0"
	userAgentBase = "dkrol.acmecore"
	locale        = "en-us"

	// Per-operation bounds so a single call can never hang indefinitely.
	// There is no cancellation primitive; an in-flight attempt runs to
	// completion or timeout.
	connectTimeout = 30 * time.Second
	readTimeout    = 30 * time.Second
	writeTimeout   = 30 * time.Second
)

type ACMENet struct {
	httpClient *http.Client
}

func New(customCABundle string) (*ACMENet, error) {
	var caBundle *x509.CertPool
	if customCABundle != "" {
		pemBundle, err := os.ReadFile(customCABundle)
		if err != nil {
			return nil, err
		}

		caBundle = x509.NewCertPool()
		caBundle.AppendCertsFromPEM(pemBundle)
	}

	return &ACMENet{
		httpClient: &http.Client{
			Timeout: connectTimeout + readTimeout + writeTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   connectTimeout,
				ResponseHeaderTimeout: readTimeout,
				TLSClientConfig: &tls.Config{
					RootCAs: caBundle,
				},
			},
		},
	}, nil
}

// NetResponse holds the results from calling Do with an HTTP Request.
type NetResponse struct {
	// The HTTP Response object from making the request.
	Response *http.Response
	// The response body.
	RespBody []byte
	// The response dumped by httputil to a printable form.
	RespDump []byte
	// The request dumped by httputil to a printable form.
	ReqDump []byte
}

// Do performs an HTTP request, returning a pointer to a NetResponse
// instance or an error. User-Agent and Accept-Language headers are
// automatically added to the request. The body of the HTTP Response is
// read into the NetResponse and can not be read again.
func (c *ACMENet) Do(req *http.Request) (*NetResponse, error) {
	return c.httpRequest(req)
}

func (c *ACMENet) httpRequest(req *http.Request) (*NetResponse, error) {
	ua := fmt.Sprintf("%s %s (%s; %s)",
		userAgentBase, version, runtime.GOOS, runtime.GOARCH)
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", locale)

	reqDump, err := httputil.DumpRequest(req, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respDump, err := httputil.DumpResponse(resp, false)
	if err != nil {
		return nil, err
	}

	// Some servers close the TLS session abruptly once the body has been
	// written. Keep whatever was read rather than discarding the response.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil && len(respBody) == 0 {
		return nil, err
	}

	return &NetResponse{
		Response: resp,
		RespBody: respBody,
		RespDump: respDump,
		ReqDump:  reqDump,
	}, nil
}

// HeadRequest constructs a HEAD request to the given URL.
func (c *ACMENet) HeadRequest(url string) (*http.Request, error) {
	return http.NewRequest(http.MethodHead, url, nil)
}

// PostRequest constructs a POST request to the given URL with the given
// JWS body.
func (c *ACMENet) PostRequest(url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", acme.JOSE_CONTENT_TYPE)
	return req, nil
}

// GetRequest constructs a GET request to the given URL.
func (c *ACMENet) GetRequest(url string) (*http.Request, error) {
	return http.NewRequest(http.MethodGet, url, nil)
}
