// Package register implements a shell command for registering an ACME
// account and making it the session's active account.
package register

import (
	"flag"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

type registerOptions struct {
	contact string
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "register",
			Aliases: []string{"newAccount", "newAcct"},
			Func:    registerHandler,
			Help:    "Register an ACME account for a contact email",
			LongHelp: `
	register -contact jane@example.com:
		Register an account for the given contact email with the ACME
		server's newAccount endpoint. If the persistence store already
		holds a key for this email it is reused and the server returns
		the existing account. The account becomes the session's active
		account.`,
		},
		nil)
}

func registerHandler(c *ishell.Context) {
	opts := registerOptions{}
	registerFlags := flag.NewFlagSet("register", flag.ContinueOnError)
	registerFlags.StringVar(&opts.contact, "contact", "",
		"Contact email address for the account")

	leftovers, err := commands.ParseFlagSetArgs(c.Args, registerFlags)
	if err != nil {
		return
	}

	// Allow "register jane@example.com" without the flag.
	if opts.contact == "" && len(leftovers) > 0 {
		opts.contact = leftovers[0]
	}
	if opts.contact == "" {
		c.Printf("register: you must provide a contact email (-contact jane@example.com)\n")
		return
	}

	client := commands.GetClient(c)
	acct, err := client.Account(opts.contact)
	if err != nil {
		commands.PrintServerError(c, "register: error registering account", err)
		return
	}

	commands.GetActiveAccount(c).Bind(acct)
	c.Printf("Registered account %q for %q\n", acct.KeyID(), acct.Email)
}
