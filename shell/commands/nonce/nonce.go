// Package nonce implements a shell command that fetches a fresh nonce.
package nonce

import (
	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "nonce",
			Aliases: []string{"newNonce"},
			Func:    nonceHandler,
			Help:    "Fetch a fresh nonce from the ACME server",
			LongHelp: `
	nonce:
		Send a HEAD request to the ACME server's newNonce endpoint and
		print the Replay-Nonce header value. Every invocation fetches
		a new nonce; nothing is cached.`,
		},
		nil)
}

func nonceHandler(c *ishell.Context) {
	client := commands.GetClient(c)

	nonce, err := client.Nonce()
	if err != nil {
		c.Printf("nonce: error fetching nonce: %s\n", err)
		return
	}
	c.Printf("%s\n", nonce)
}
