package client

import (
	"crypto"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/dkrol/acmecore/acme/codec"
	"github.com/dkrol/acmecore/persist"
)

// testCA is an in-process ACME server covering the directory, newNonce,
// newAccount and account endpoints. It issues sequential nonces and
// refuses reused or invented ones the way a real CA would, keys
// accounts by JWK thumbprint so re-registering a known key yields the
// same account URL, and records the protected header and payload of
// every JWS it receives so tests can assert on what the client sent.
type testCA struct {
	t      *testing.T
	server *httptest.Server

	mu             sync.Mutex
	nonceCounter   int
	issuedNonces   map[string]bool
	redeemedNonces map[string]bool

	accountCounter  int
	accountsByThumb map[string]string   // JWK thumbprint -> account URL
	accountContacts map[string][]string // account URL -> contact

	newAccountCalls []capturedCall
	accountCalls    []capturedCall

	// Statuses for the next newAccount POSTs to fail with before
	// behaving normally. Failure responses carry scriptedBody.
	scriptedStatuses []int
	scriptedBody     string

	// When true newNonce responses omit the Replay-Nonce header.
	dropNonceHeader bool
	// When true newAccount responses omit the Location header.
	dropLocation bool
	// When true the directory endpoint returns junk.
	badDirectory bool
	// When true newAccount succeeds but returns a junk body.
	badAccountBody bool
	// Entries to leave out of the directory document.
	stripDirectoryKeys []string
}

// capturedCall is one JWS-authenticated request the CA received.
type capturedCall struct {
	header  protectedHeader
	payload []byte
}

// protectedHeader is the decoded JWS protected header of a captured
// call.
type protectedHeader struct {
	Alg   string          `json:"alg"`
	Nonce string          `json:"nonce"`
	URL   string          `json:"url"`
	KID   string          `json:"kid"`
	JWK   json.RawMessage `json:"jwk"`
}

func newTestCA(t *testing.T) *testCA {
	ca := &testCA{
		t:               t,
		issuedNonces:    map[string]bool{},
		redeemedNonces:  map[string]bool{},
		accountsByThumb: map[string]string{},
		accountContacts: map[string][]string{},
		scriptedBody:    `{"type":"urn:ietf:params:acme:error:serverInternal","detail":"the CA fell over","status":500}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/dir", ca.directoryHandler)
	mux.HandleFunc("/nonce", ca.nonceHandler)
	mux.HandleFunc("/new-acct", ca.newAccountHandler)
	mux.HandleFunc("/acct/", ca.accountHandler)
	ca.server = httptest.NewServer(mux)
	t.Cleanup(ca.server.Close)
	return ca
}

func (ca *testCA) url(path string) string {
	return ca.server.URL + path
}

// clientConfig builds a ClientConfig pointed at the test CA.
func (ca *testCA) clientConfig(store persist.Persist) ClientConfig {
	return ClientConfig{
		DirectoryURL: ca.url("/dir"),
		Store:        store,
	}
}

// failNext scripts the next n newAccount POSTs to answer with status.
func (ca *testCA) failNext(n int, status int) {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	for i := 0; i < n; i++ {
		ca.scriptedStatuses = append(ca.scriptedStatuses, status)
	}
}

// newAccountAttempts reports how many newAccount POSTs the CA has seen.
func (ca *testCA) newAccountAttempts() int {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return len(ca.newAccountCalls)
}

// newAccountNonces returns the nonce from each captured newAccount POST
// in order.
func (ca *testCA) newAccountNonces() []string {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	var nonces []string
	for _, call := range ca.newAccountCalls {
		nonces = append(nonces, call.header.Nonce)
	}
	return nonces
}

// newAccountCall returns the i-th captured newAccount POST.
func (ca *testCA) newAccountCall(i int) capturedCall {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.newAccountCalls[i]
}

// accountCall returns the i-th captured POST to an account URL.
func (ca *testCA) accountCall(i int) capturedCall {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.accountCalls[i]
}

// accountCount reports how many distinct accounts the CA has created.
func (ca *testCA) accountCount() int {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.accountCounter
}

func (ca *testCA) directoryHandler(w http.ResponseWriter, r *http.Request) {
	if ca.badDirectory {
		fmt.Fprint(w, "this is not a directory")
		return
	}
	dir := map[string]any{
		"newNonce":   ca.url("/nonce"),
		"newAccount": ca.url("/new-acct"),
		"newOrder":   ca.url("/new-order"),
		"meta": map[string]any{
			"termsOfService": ca.url("/terms"),
		},
	}
	for _, key := range ca.stripDirectoryKeys {
		delete(dir, key)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dir)
}

func (ca *testCA) nonceHandler(w http.ResponseWriter, r *http.Request) {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	if !ca.dropNonceHeader {
		w.Header().Set("Replay-Nonce", ca.mintNonce())
	}
	w.WriteHeader(http.StatusOK)
}

// mintNonce issues a fresh nonce. Callers must hold ca.mu.
func (ca *testCA) mintNonce() string {
	ca.nonceCounter++
	nonce := fmt.Sprintf("nonce-%04d", ca.nonceCounter)
	ca.issuedNonces[nonce] = true
	return nonce
}

// redeemNonce marks a nonce used, reporting a problem detail string if
// the nonce was never issued or has been seen before. Callers must hold
// ca.mu.
func (ca *testCA) redeemNonce(nonce string) string {
	if !ca.issuedNonces[nonce] {
		return fmt.Sprintf("nonce %q was never issued", nonce)
	}
	if ca.redeemedNonces[nonce] {
		return fmt.Sprintf("nonce %q was already used", nonce)
	}
	ca.redeemedNonces[nonce] = true
	return ""
}

// captureJWS decodes the JWS envelope of an authenticated request.
func (ca *testCA) captureJWS(r *http.Request) (capturedCall, bool) {
	var envelope struct {
		Protected string `json:"protected"`
		Payload   string `json:"payload"`
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		ca.t.Errorf("request body is not a JWS envelope: %v", err)
		return capturedCall{}, false
	}

	headerBytes, err := codec.Unbase64URL(envelope.Protected)
	if err != nil {
		ca.t.Errorf("protected header is not base64url: %v", err)
		return capturedCall{}, false
	}
	var header protectedHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		ca.t.Errorf("protected header is not JSON: %v", err)
		return capturedCall{}, false
	}

	payload, err := codec.Unbase64URL(envelope.Payload)
	if err != nil {
		ca.t.Errorf("payload is not base64url: %v", err)
		return capturedCall{}, false
	}
	if envelope.Signature == "" {
		ca.t.Error("JWS envelope has no signature")
		return capturedCall{}, false
	}

	return capturedCall{header: header, payload: payload}, true
}

func problem(w http.ResponseWriter, status int, typ, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"type":%q,"detail":%q,"status":%d}`, typ, detail, status)
}

func (ca *testCA) newAccountHandler(w http.ResponseWriter, r *http.Request) {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	call, ok := ca.captureJWS(r)
	if !ok {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed", "bad JWS")
		return
	}
	ca.newAccountCalls = append(ca.newAccountCalls, call)

	if len(ca.scriptedStatuses) > 0 {
		status := ca.scriptedStatuses[0]
		ca.scriptedStatuses = ca.scriptedStatuses[1:]
		w.WriteHeader(status)
		fmt.Fprint(w, ca.scriptedBody)
		return
	}

	if detail := ca.redeemNonce(call.header.Nonce); detail != "" {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:badNonce", detail)
		return
	}

	if len(call.header.JWK) == 0 {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed",
			"newAccount requires an embedded JWK")
		return
	}

	var jwk jose.JSONWebKey
	if err := json.Unmarshal(call.header.JWK, &jwk); err != nil {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed", "unparseable JWK")
		return
	}
	thumbBytes, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		ca.t.Errorf("thumbprint: %v", err)
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed", "unthumbable JWK")
		return
	}
	thumb := fmt.Sprintf("%x", thumbBytes)

	var req struct {
		Contact              []string `json:"contact"`
		TermsOfServiceAgreed bool     `json:"termsOfServiceAgreed"`
	}
	if err := json.Unmarshal(call.payload, &req); err != nil {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed", "unparseable payload")
		return
	}

	status := http.StatusOK
	acctURL, existing := ca.accountsByThumb[thumb]
	if !existing {
		status = http.StatusCreated
		ca.accountCounter++
		acctURL = ca.url(fmt.Sprintf("/acct/%d", ca.accountCounter))
		ca.accountsByThumb[thumb] = acctURL
		ca.accountContacts[acctURL] = req.Contact
	}

	if !ca.dropLocation {
		w.Header().Set("Location", acctURL)
	}
	w.Header().Set("Replay-Nonce", ca.mintNonce())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if ca.badAccountBody {
		fmt.Fprint(w, "this is not an account")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "valid",
		"contact": ca.accountContacts[acctURL],
		"orders":  acctURL + "/orders",
	})
}

// accountHandler serves POST-as-GET requests for registered accounts.
// It requires KeyID-form JWS authentication matching the account URL.
func (ca *testCA) accountHandler(w http.ResponseWriter, r *http.Request) {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	call, ok := ca.captureJWS(r)
	if !ok {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed", "bad JWS")
		return
	}
	ca.accountCalls = append(ca.accountCalls, call)

	if detail := ca.redeemNonce(call.header.Nonce); detail != "" {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:badNonce", detail)
		return
	}

	acctURL := ca.url("/acct/" + strings.TrimPrefix(r.URL.Path, "/acct/"))
	contact, registered := ca.accountContacts[acctURL]
	if !registered {
		problem(w, http.StatusNotFound,
			"urn:ietf:params:acme:error:accountDoesNotExist", "who are you")
		return
	}
	if call.header.KID != acctURL {
		problem(w, http.StatusForbidden,
			"urn:ietf:params:acme:error:unauthorized",
			"JWS key ID does not match the account URL")
		return
	}
	if len(call.header.JWK) != 0 {
		problem(w, http.StatusBadRequest,
			"urn:ietf:params:acme:error:malformed",
			"account requests must use a key ID, not an embedded JWK")
		return
	}

	w.Header().Set("Replay-Nonce", ca.mintNonce())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "valid",
		"contact": contact,
		"orders":  acctURL + "/orders",
	})
}
