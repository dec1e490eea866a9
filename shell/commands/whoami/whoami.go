// Package whoami implements a shell command that prints the session's
// active account.
package whoami

import (
	"flag"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

type whoamiOptions struct {
	refresh bool
	showPEM bool
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "whoami",
			Aliases: []string{"account", "acct"},
			Func:    whoamiHandler,
			Help:    "Show the active account",
			LongHelp: `
	whoami:
		Print the active account's contact email, key ID and the account
		record from the ACME server.

	whoami -refresh:
		Fetch the current account record from the server with
		a POST-as-GET request before printing.

	whoami -pem:
		Also print the account's private key as PEM.`,
		},
		nil)
}

func whoamiHandler(c *ishell.Context) {
	opts := whoamiOptions{}
	whoamiFlags := flag.NewFlagSet("whoami", flag.ContinueOnError)
	whoamiFlags.BoolVar(&opts.refresh, "refresh", false,
		"Refresh the account record from the server before printing")
	whoamiFlags.BoolVar(&opts.showPEM, "pem", false,
		"Also print the account private key as PEM")

	if _, err := commands.ParseFlagSetArgs(c.Args, whoamiFlags); err != nil {
		return
	}

	acct := commands.GetActiveAccount(c).Get()
	if acct == nil {
		c.Printf("whoami: no account registered; run 'register' first\n")
		return
	}

	if opts.refresh {
		if err := acct.Refresh(); err != nil {
			commands.PrintServerError(c, "whoami: error refreshing account", err)
			return
		}
	}

	record, err := commands.PrintJSON(acct.Data())
	if err != nil {
		c.Printf("whoami: error marshaling account record: %s\n", err)
		return
	}

	c.Printf("Email  : %s\n", acct.Email)
	c.Printf("Key ID : %s\n", acct.KeyID())
	c.Printf("Record : %s\n", record)

	if opts.showPEM {
		pemBytes, err := acct.PrivateKeyPEM()
		if err != nil {
			c.Printf("whoami: error serializing private key: %s\n", err)
			return
		}
		c.Printf("%s", pemBytes)
	}
}
