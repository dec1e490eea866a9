// Package post implements a shell command for POSTing signed requests
// to an ACME server.
package post

import (
	"flag"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

type postOptions struct {
	body         string
	printHeaders bool
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "post",
			Aliases: []string{"postURL"},
			Func:    postHandler,
			Help:    "Send a signed POST to an ACME endpoint or a URL",
			LongHelp: `
	post [acme endpoint]:
		Send a signed POST request to the URL that is contained in the
		ACME server's directory object under the specified endpoint
		name. You will be prompted interactively for the POST body
		(unless specified with -body). An empty body sends
		a POST-as-GET request.

		Examples:
			post -body='{"identifiers":[{"type":"dns","value":"localhost"}]}' newOrder
				Send a signed POST with the given JSON body to the
				"newOrder" URL from the ACME server's directory.

	post [url]:
		Send a signed POST request to the URL specified.

		Examples:
			post -body=null https://acme-staging-v02.api.letsencrypt.org/acme/acct/123
				Send a POST-as-GET to the given account URL.`,
		},
		commands.DirectoryAutocompleter)
}

func postHandler(c *ishell.Context) {
	opts := postOptions{}
	postFlags := flag.NewFlagSet("post", flag.ContinueOnError)
	postFlags.StringVar(&opts.body, "body", "",
		"POST request body (use null for an empty POST-as-GET body)")
	postFlags.BoolVar(&opts.printHeaders, "headers", false,
		"Print HTTP response headers")

	leftovers, err := commands.ParseFlagSetArgs(c.Args, postFlags)
	if err != nil {
		return
	}

	if len(leftovers) < 1 {
		c.Printf("post: you must specify an endpoint or a URL to POST\n")
		return
	}

	client := commands.GetClient(c)

	targetURL := strings.TrimSpace(leftovers[0])
	if endpointURL, ok := client.GetEndpointURL(targetURL); ok {
		targetURL = endpointURL
	} else if !commands.OkURL(targetURL) {
		c.Printf("post: %q is not a directory endpoint or a valid URL\n", targetURL)
		return
	}

	var body []byte
	if trimmedBody := strings.TrimSpace(opts.body); trimmedBody != "" {
		// "null" POSTs an empty payload (can't pass "" as a flag value).
		if trimmedBody != "null" {
			body = []byte(trimmedBody)
		}
	} else {
		body = []byte(commands.ReadJSON(c))
	}

	acct := commands.GetActiveAccount(c).Get()
	if acct == nil {
		c.Printf("post: no account registered; run 'register' first\n")
		return
	}

	resp, err := acct.PostSigned(targetURL, body)
	if err != nil {
		commands.PrintServerError(c, "post: error POSTing signed request body", err)
		return
	}

	c.Printf("Status: %d\n", resp.Response.StatusCode)
	if opts.printHeaders {
		for name, values := range resp.Response.Header {
			for _, value := range values {
				c.Printf("%s: %s\n", name, value)
			}
		}
	}
	c.Printf("%s\n", resp.RespBody)
}
