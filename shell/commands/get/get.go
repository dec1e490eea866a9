package get

import (
	"flag"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/shell/commands"
)

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:     "get",
			Aliases:  []string{"getURL"},
			Func:     getHandler,
			Help:     "Send an HTTP GET to a URL or directory endpoint",
			LongHelp: `TODO(@dkrol): Write this!`,
		},
		commands.DirectoryAutocompleter)
}

func getHandler(c *ishell.Context) {
	getFlags := flag.NewFlagSet("get", flag.ContinueOnError)

	leftovers, err := commands.ParseFlagSetArgs(c.Args, getFlags)
	if err != nil {
		return
	}

	if len(leftovers) == 0 {
		c.Printf("get: you must specify a URL or a directory endpoint\n")
		return
	}
	argument := strings.TrimSpace(leftovers[0])

	client := commands.GetClient(c)

	var targetURL string
	if argument == "directory" {
		targetURL = client.DirectoryURL.String()
	} else if endpointURL, ok := client.GetEndpointURL(argument); ok {
		targetURL = endpointURL
	} else if commands.OkURL(argument) {
		targetURL = argument
	} else {
		c.Printf("get: illegal url argument %q\n", argument)
		return
	}

	resp, err := client.GetURL(targetURL)
	if err != nil {
		commands.PrintServerError(c, "get: error getting URL", err)
		return
	}

	c.Printf("%s\n", resp.RespBody)
}
