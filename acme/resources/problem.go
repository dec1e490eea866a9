package resources

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Problem is an RFC 7807 problem document from the server. ACME servers
// return one as the body of most error responses.
//
// See https://tools.ietf.org/html/rfc8555#section-6.7
type Problem struct {
	Type   string `json:"type,omitempty"`
	Detail string `json:"detail,omitempty"`
	Status int    `json:"status,omitempty"`
}

func (p Problem) String() string {
	if p.Detail == "" {
		return p.Type
	}
	return fmt.Sprintf("%s: %s", p.Type, p.Detail)
}

// ProblemFromBody tries to parse a response body as a problem document.
// The bool result is false when the body is not one, which is common for
// proxies and load balancers answering in place of the ACME server.
func ProblemFromBody(body []byte) (Problem, bool) {
	var prob Problem
	if err := json.Unmarshal(body, &prob); err != nil {
		return Problem{}, false
	}
	if !strings.Contains(prob.Type, "urn:") && prob.Detail == "" {
		return Problem{}, false
	}
	return prob, true
}
