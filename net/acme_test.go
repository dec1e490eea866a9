package net

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkrol/acmecore/acme"
)

func TestDoSetsClientHeaders(t *testing.T) {
	// The handler echoes the request headers back so the test can assert
	// on them from the response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s|%s",
			r.Header.Get("User-Agent"), r.Header.Get("Accept-Language"))
	}))
	defer srv.Close()

	client, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := client.GetRequest(srv.URL)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	parts := strings.SplitN(string(resp.RespBody), "|", 2)
	if len(parts) != 2 {
		t.Fatalf("RespBody was %q", resp.RespBody)
	}
	if gotUA := parts[0]; !strings.HasPrefix(gotUA, userAgentBase) {
		t.Errorf("User-Agent was %q, expected %q prefix", gotUA, userAgentBase)
	}
	if gotLang := parts[1]; gotLang != locale {
		t.Errorf("Accept-Language was %q, expected %q", gotLang, locale)
	}
	if len(resp.ReqDump) == 0 || len(resp.RespDump) == 0 {
		t.Error("request/response dumps were empty")
	}
}

func TestPostRequestContentType(t *testing.T) {
	client, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := client.PostRequest("http://example.com/acme/new-acct", []byte("{}"))
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	if got := req.Header.Get("Content-Type"); got != acme.JOSE_CONTENT_TYPE {
		t.Errorf("Content-Type was %q, expected %q", got, acme.JOSE_CONTENT_TYPE)
	}
}

func TestHeadRequestMethod(t *testing.T) {
	client, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := client.HeadRequest("http://example.com/acme/new-nonce")
	if err != nil {
		t.Fatalf("HeadRequest: %v", err)
	}
	if req.Method != http.MethodHead {
		t.Errorf("method was %q, expected HEAD", req.Method)
	}
}
