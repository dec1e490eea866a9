// Package shell provides an interactive command shell for working with
// an ACME server.
package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/abiosoft/readline"
	"github.com/sirupsen/logrus"

	acmeclient "github.com/dkrol/acmecore/acme/client"
	acmecmd "github.com/dkrol/acmecore/cmd"
	"github.com/dkrol/acmecore/shell/commands"

	_ "github.com/dkrol/acmecore/shell/commands/b64url"
	_ "github.com/dkrol/acmecore/shell/commands/directory"
	_ "github.com/dkrol/acmecore/shell/commands/echo"
	_ "github.com/dkrol/acmecore/shell/commands/get"
	_ "github.com/dkrol/acmecore/shell/commands/jwsDecode"
	_ "github.com/dkrol/acmecore/shell/commands/nonce"
	_ "github.com/dkrol/acmecore/shell/commands/post"
	_ "github.com/dkrol/acmecore/shell/commands/register"
	_ "github.com/dkrol/acmecore/shell/commands/sign"
	_ "github.com/dkrol/acmecore/shell/commands/whoami"
)

// Options allows specifying options for creating a Shell. This includes
// all of the acmeclient.ClientConfig options in addition to the account
// auto-registration settings.
type Options struct {
	acmeclient.ClientConfig
	// An optional contact email address used to register an account at
	// startup when AutoRegister is true.
	ContactEmail string
	// If AutoRegister is true and ContactEmail is provided the shell
	// registers (or restores) the account for that email at startup and
	// makes it the session's active account.
	AutoRegister bool
}

// Shell is an ishell.Shell instance tailored for ACME. At its core
// a Shell is an acme/client.Client instance stashed in the shell
// context together with the session's active account for commands to
// access.
type Shell struct {
	*ishell.Shell
}

// NewShell creates a Shell instance by building an *ishell.Shell, an
// *acmeclient.Client and the session's account holder. The shell will
// not accept input until its Run() function is called.
func NewShell(opts *Options) *Shell {
	// Create an interactive shell
	shell := ishell.NewWithConfig(&readline.Config{
		// The base prompt used for the ishell instance.
		Prompt: commands.BasePrompt,
	})

	// Create an ACME client
	client, err := acmeclient.NewClient(opts.ClientConfig)
	acmecmd.FailOnError(err, "Unable to create ACME client")

	// Stash the ACME client in the shell for commands to access
	shell.Set(commands.ClientKey, client)

	// Stash the account holder commands bind the active account into
	holder := &commands.ActiveAccount{}
	shell.Set(commands.ActiveAccountKey, holder)

	if opts.AutoRegister && opts.ContactEmail != "" {
		acct, err := client.Account(opts.ContactEmail)
		acmecmd.FailOnError(err, "Unable to auto-register an ACME account")
		holder.Bind(acct)
		logrus.Printf("Registered account %q (contact %q)",
			acct.KeyID(), opts.ContactEmail)
	} else if opts.AutoRegister {
		logrus.Printf("AutoRegister is enabled but no contact email was " +
			"provided. Use the 'register' command to create an account")
	} else {
		logrus.Printf("AutoRegister is disabled")
	}

	commands.AddCommands(shell, client)

	return &Shell{
		Shell: shell,
	}
}

// Run starts the Shell, dropping into an interactive session that
// blocks on user input until it is time to exit.
func (s *Shell) Run() {
	s.Println("Welcome to ACME Shell")
	s.Shell.Run()
	s.Println("Goodbye!")
}
