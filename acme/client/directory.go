package client

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/dkrol/acmecore/acme"
)

func (c *Client) fetchDirectory() (map[string]any, error) {
	resp, err := c.GetURL(c.DirectoryURL.String())
	if err != nil {
		return nil, err
	}

	var directory map[string]any
	if err := json.Unmarshal(resp.RespBody, &directory); err != nil {
		return nil, acme.DecodeError(err)
	}

	return directory, nil
}

// Directory returns the ACME server's directory resource deserialized as
// a map, fetching it from the server first if the client has no cached
// copy.
//
// See https://tools.ietf.org/html/rfc8555#section-7.1.1
func (c *Client) Directory() (map[string]any, error) {
	if c.directory == nil {
		if err := c.UpdateDirectory(); err != nil {
			return nil, err
		}
	}

	return c.directory, nil
}

// UpdateDirectory refetches the directory resource and replaces the
// Client's cached copy used when referencing the endpoints for updating
// nonces and creating accounts.
func (c *Client) UpdateDirectory() error {
	newDir, err := c.fetchDirectory()
	if err != nil {
		return err
	}

	c.directory = newDir
	logrus.Debugf("Updated directory from %q", c.DirectoryURL)
	return nil
}

// GetEndpointURL gets a URL for a specific ACME endpoint by checking the
// directory resource for a key with the given name. If the key is found
// its value is returned along with a true bool. If the key is not found
// an empty string is returned with a false bool.
func (c *Client) GetEndpointURL(name string) (string, bool) {
	dir, err := c.Directory()
	if err != nil {
		return "", false
	}
	rawURL, ok := dir[name]
	if !ok {
		return "", false
	}
	switch v := rawURL.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}
