// Package client provides a low-level ACME v2 client core: directory
// discovery, fresh-nonce management, JWS signing and account bootstrap.
package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	acmenet "github.com/dkrol/acmecore/net"
	"github.com/dkrol/acmecore/persist"
)

// Client talks to a single ACME server. It configures itself with the
// correct URLs for ACME operations using the directory resource accessed
// at DirectoryURL. See
// https://tools.ietf.org/html/rfc8555#section-7.1.1
//
// A Client carries no account state of its own. Account returns bound
// Account objects that hold their keypair and sign their own requests;
// any number of them can share one Client. Internally the Client uses
// the net package to perform HTTP requests to the ACME server, always
// through the retrying call path.
type Client struct {
	// A parsed *url.URL pointer for the ACME server's directory URL.
	DirectoryURL *url.URL
	// Options controlling the Client's output.
	Output OutputOptions
	// the net object is used to make HTTP GET/POST/HEAD requests to the
	// ACME server.
	net *acmenet.ACMENet
	// store keeps account keys between sessions.
	store persist.Persist
	// directory is an in-memory representation of the ACME server's
	// directory object.
	directory map[string]any
}

// OutputOptions holds runtime output settings for a client.
type OutputOptions struct {
	// Print all HTTP requests made to the ACME server.
	PrintRequests bool
	// Print all HTTP responses from the ACME server.
	PrintResponses bool
	// Print all the input to JWS produced.
	PrintSignedData bool
	// Print the JSON serialization of all JWS produced.
	PrintJWS bool
	// Print nonce fetches as they happen.
	PrintNonceUpdates bool
}

// ClientConfig contains configuration options provided to NewClient when
// creating a Client instance.
//
// The DirectoryURL field is a string containing the URL for the
// ACME server's directory endpoint. This field is mandatory and must not
// be empty. It should be a fully qualified URL with a HTTP/HTTPS
// protocol prefix ("http://" or "https://").
//
// The CACert field is an optional string containing a file path to a
// file containing one or more PEM encoded CA certificates that should be
// used as trust roots for HTTPS requests to the ACME server. If empty
// the default system roots are used. For example, if you are using
// Pebble as the ACME server, it should be the file path to the
// "test/certs/pebble.minica.pem" file from the Pebble source directory.
//
// The Store field is the persistence backend used to keep account keys
// between sessions. It is mandatory; use persist.NewMemoryPersist for
// throwaway runs.
type ClientConfig struct {
	// A fully qualified URL for the ACME server's directory resource. Must
	// include an HTTP/HTTPS protocol prefix.
	DirectoryURL string
	// An optional file path to one or more PEM encoded CA certificates to
	// be used as trust roots for HTTPS requests to the ACME server.
	CACert string
	// The persistence backend for account keys.
	Store persist.Persist
	// Initial OutputOptions settings.
	InitialOutput OutputOptions
}

// normalize validates a ClientConfig.
func (conf *ClientConfig) normalize() error {
	// Clean up any junk whitespace that might have snuck in
	conf.DirectoryURL = strings.TrimSpace(conf.DirectoryURL)

	if conf.DirectoryURL == "" {
		return fmt.Errorf("DirectoryURL must not be empty")
	}

	if _, err := url.Parse(conf.DirectoryURL); err != nil {
		return fmt.Errorf("DirectoryURL invalid: %s", err.Error())
	}

	if conf.Store == nil {
		return fmt.Errorf("Store must not be nil")
	}

	return nil
}

// NewClient creates a Client instance from the given ClientConfig. The
// ACME server's directory is fetched before returning so the client
// knows its endpoint URLs. If the config is not valid or if another
// error occurs it will be returned along with a nil Client.
func NewClient(config ClientConfig) (*Client, error) {
	// Validate the ClientConfig has no errors when normalized.
	if err := config.normalize(); err != nil {
		return nil, err
	}

	// Create the ACME net client
	net, err := acmenet.New(config.CACert)
	if err != nil {
		return nil, fmt.Errorf("unable to create ACME net client: %s", err)
	}

	// NOTE: Its safe to throw away the returned err here because we check
	// that `url.Parse` will succeed in `config.normalize()` above.
	dirURL, _ := url.Parse(config.DirectoryURL)

	client := &Client{
		DirectoryURL: dirURL,
		Output:       config.InitialOutput,
		net:          net,
		store:        config.Store,
	}

	if err := client.UpdateDirectory(); err != nil {
		return nil, err
	}

	logrus.Debugf("Client ready for ACME server at %q", config.DirectoryURL)
	return client, nil
}

// Printf prints client output, e.g. request and JWS dumps enabled
// through OutputOptions.
func (c *Client) Printf(format string, vals ...any) {
	logrus.Printf(format, vals...)
}
