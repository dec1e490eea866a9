// Package directory implements a shell command that prints the ACME
// server's directory.
package directory

import (
	"flag"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

type directoryOptions struct {
	refresh bool
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "directory",
			Aliases: []string{"dir"},
			Func:    directoryHandler,
			Help:    "Show the ACME server's directory",
			LongHelp: `
	directory:
		Print the cached copy of the ACME server's directory resource.

	directory -refresh:
		Refetch the directory from the server before printing.`,
		},
		nil)
}

func directoryHandler(c *ishell.Context) {
	opts := directoryOptions{}
	directoryFlags := flag.NewFlagSet("directory", flag.ContinueOnError)
	directoryFlags.BoolVar(&opts.refresh, "refresh", false,
		"Refetch the directory from the server before printing")

	if _, err := commands.ParseFlagSetArgs(c.Args, directoryFlags); err != nil {
		return
	}

	client := commands.GetClient(c)

	if opts.refresh {
		if err := client.UpdateDirectory(); err != nil {
			c.Printf("directory: error refetching directory: %s\n", err)
			return
		}
	}

	dir, err := client.Directory()
	if err != nil {
		c.Printf("directory: error getting directory: %s\n", err)
		return
	}

	out, err := commands.PrintJSON(dir)
	if err != nil {
		c.Printf("directory: error marshaling directory: %s\n", err)
		return
	}
	c.Printf("%s\n", out)
}
