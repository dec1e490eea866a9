// Package sign implements a shell command for producing JWS with the
// active account's key.
package sign

import (
	"flag"
	"strings"

	"github.com/abiosoft/ishell"

	acmeclient "github.com/dkrol/acmecore/acme/client"
	"github.com/dkrol/acmecore/shell/commands"
)

type signOptions struct {
	embedKey   bool
	dataString string
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name: "sign",
			Func: signHandler,
			Help: "Sign JSON for a URL with the active account key and a fresh nonce",
			LongHelp: `
	sign [endpoint or url]:
		Sign data for the given URL (or directory endpoint name) with
		the active account's key, fetching a fresh nonce for the JWS
		protected header. The data is read interactively unless -data
		is given. Use -data null to sign an empty payload (the
		POST-as-GET form).`,
		},
		commands.DirectoryAutocompleter)
}

func signHandler(c *ishell.Context) {
	opts := signOptions{}
	signFlags := flag.NewFlagSet("sign", flag.ContinueOnError)
	signFlags.BoolVar(&opts.embedKey, "embedKey", false,
		"Embed JWK in JWS instead of a Key ID header")
	signFlags.StringVar(&opts.dataString, "data", "", "Data to sign")

	leftovers, err := commands.ParseFlagSetArgs(c.Args, signFlags)
	if err != nil {
		return
	}

	if len(leftovers) < 1 {
		c.Printf("sign: you must specify a URL for the JWS header\n")
		return
	}

	client := commands.GetClient(c)

	targetURL := strings.TrimSpace(leftovers[0])
	if endpointURL, ok := client.GetEndpointURL(targetURL); ok {
		targetURL = endpointURL
	} else if !commands.OkURL(targetURL) {
		c.Printf("sign: %q is not a directory endpoint or a valid URL\n", targetURL)
		return
	}

	var data []byte
	if trimmedData := strings.TrimSpace(opts.dataString); trimmedData != "" {
		// "null" signs an empty payload (can't pass "" as a flag value).
		if trimmedData == "null" {
			data = []byte("")
		} else {
			data = []byte(trimmedData)
		}
	} else {
		data = []byte(commands.ReadJSON(c))
	}

	acct := commands.GetActiveAccount(c).Get()
	if acct == nil {
		c.Printf("sign: no account registered; run 'register' first\n")
		return
	}

	signResult, err := client.Sign(targetURL, data, &acmeclient.SigningOptions{
		Key:      acct.Key,
		EmbedKey: opts.embedKey,
	})
	if err != nil {
		c.Printf("sign: error signing data: %s\n", err)
		return
	}

	c.Printf("sign: Result JWS: \n%s\n", signResult.SerializedJWS)
}
