package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sirupsen/logrus"

	"github.com/dkrol/acmecore/acme"
	"github.com/dkrol/acmecore/acme/keys"
	"github.com/dkrol/acmecore/acme/resources"
	acmenet "github.com/dkrol/acmecore/net"
	"github.com/dkrol/acmecore/persist"
)

// persistRealm namespaces account keys in the persistence store.
const persistRealm = "acme_account"

// Account binds a registered ACME account to the Client that produced
// it. The Key's key ID is the account URL assigned by the server and is
// used for the JWS Key ID header on every request the Account signs.
// Get one from Client.Account; the zero value is not usable.
type Account struct {
	// The contact email the account was registered with. Also the name
	// the account key is persisted under.
	Email string
	// The account keypair.
	Key *keys.AccountKey

	data   resources.Account
	client *Client
}

func storeKey(email string) persist.Key {
	return persist.Key{
		Realm: persistRealm,
		Kind:  persist.KindAccountKey,
		Name:  email,
	}
}

// Account returns the ACME account for the given contact email,
// registering it with the ACME server's newAccount endpoint. If the
// persistence store holds a key for this email it is reused, and
// because newAccount is idempotent for a known key the server answers
// with the existing account's URL; otherwise a fresh keypair is
// generated and persisted once registration succeeds. Nothing is
// written to the store on failure.
//
// See https://tools.ietf.org/html/rfc8555#section-7.3
func (c *Client) Account(email string) (*Account, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, fmt.Errorf("contact email invalid: %s", err.Error())
	}
	email = addr.Address

	key, isNew, err := c.accountKey(email)
	if err != nil {
		return nil, err
	}

	record, err := c.registerAccount(email, key)
	if err != nil {
		return nil, err
	}

	if isNew {
		pemBytes, err := key.ToPEM()
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(storeKey(email), pemBytes); err != nil {
			return nil, acme.PersistError(err)
		}
		logrus.Debugf("Persisted account key for %q", email)
	}

	return &Account{
		Email:  email,
		Key:    key,
		data:   record,
		client: c,
	}, nil
}

// accountKey loads the persisted key for email, or generates a fresh
// one. The bool result is true when the key is newly generated and has
// not been persisted yet.
func (c *Client) accountKey(email string) (*keys.AccountKey, bool, error) {
	pemBytes, found, err := c.store.Get(storeKey(email))
	if err != nil {
		return nil, false, acme.PersistError(err)
	}
	if found {
		key, err := keys.FromPEM(pemBytes)
		if err != nil {
			return nil, false, err
		}
		logrus.Debugf("Restored account key for %q", email)
		return key, false, nil
	}

	key, err := keys.New()
	if err != nil {
		return nil, false, err
	}
	logrus.Debugf("Created account key for %q", email)
	return key, true, nil
}

// registerAccount calls the newAccount endpoint with the given key. The
// request embeds the public key as a JWK since the account URL that
// serves as the key ID is exactly what this call establishes. On
// success the Location header is recorded on the key as its key ID and
// the account record from the response body is returned.
func (c *Client) registerAccount(email string, key *keys.AccountKey) (resources.Account, error) {
	var record resources.Account

	newAcctReq := resources.NewAccountRequest{
		Contact:              []string{resources.MailTo(email)},
		TermsOfServiceAgreed: true,
	}
	reqBody, err := json.Marshal(&newAcctReq)
	if err != nil {
		return record, err
	}

	newAcctURL, ok := c.GetEndpointURL(acme.NEW_ACCOUNT_ENDPOINT)
	if !ok {
		return record, acme.MissingFieldError(acme.NEW_ACCOUNT_ENDPOINT)
	}

	logrus.Debugf("Sending %q request (contact: %s) to %q",
		acme.NEW_ACCOUNT_ENDPOINT, email, newAcctURL)

	resp, err := c.retryCall(func() (*http.Request, error) {
		signResult, err := c.Sign(newAcctURL, reqBody, &SigningOptions{
			EmbedKey: true,
			Key:      key,
		})
		if err != nil {
			return nil, err
		}
		return c.net.PostRequest(newAcctURL, signResult.SerializedJWS)
	})
	if err != nil {
		return record, err
	}

	kid := resp.Response.Header.Get(acme.LOCATION_HEADER)
	if kid == "" {
		return record, acme.MissingFieldError(acme.LOCATION_HEADER)
	}

	if err := json.Unmarshal(resp.RespBody, &record); err != nil {
		return record, acme.DecodeError(err)
	}

	key.SetKeyID(kid)
	logrus.Debugf("Registered account %q", kid)
	return record, nil
}

// KeyID returns the account URL the server assigned at registration.
func (a *Account) KeyID() string {
	return a.Key.KeyID()
}

// Data returns the server's account record from registration or the
// most recent Refresh.
func (a *Account) Data() resources.Account {
	return a.data
}

// PrivateKeyPEM serializes the account's private key as PEM. The key ID
// is not part of the serialization; it is re-established by registering
// the key again.
func (a *Account) PrivateKeyPEM() ([]byte, error) {
	return a.Key.ToPEM()
}

// PostSigned signs the given payload in KeyID form and POSTs it to url
// through the retrying call path. Each attempt re-signs the payload
// with a fresh nonce.
func (a *Account) PostSigned(url string, payload []byte) (*acmenet.NetResponse, error) {
	return a.client.retryCall(func() (*http.Request, error) {
		signResult, err := a.client.Sign(url, payload, &SigningOptions{
			Key: a.Key,
		})
		if err != nil {
			return nil, err
		}
		return a.client.net.PostRequest(url, signResult.SerializedJWS)
	})
}

// PostAsGet makes a POST-as-GET request to url: a signed POST with an
// empty payload.
//
// See https://tools.ietf.org/html/rfc8555#section-6.3
func (a *Account) PostAsGet(url string) (*acmenet.NetResponse, error) {
	return a.PostSigned(url, []byte{})
}

// Refresh fetches the current account record from the account URL with
// a POST-as-GET request and replaces the local copy.
func (a *Account) Refresh() error {
	resp, err := a.PostAsGet(a.KeyID())
	if err != nil {
		return err
	}

	var record resources.Account
	if err := json.Unmarshal(resp.RespBody, &record); err != nil {
		return acme.DecodeError(err)
	}

	a.data = record
	return nil
}
