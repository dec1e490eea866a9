// Package commands holds types and functions common across all shell
// commands.
package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/acme"
	acmeclient "github.com/dkrol/acmecore/acme/client"
	"github.com/dkrol/acmecore/acme/resources"
)

const (
	// The base prompt used for shell commands
	BasePrompt = "[ ACME ] > "
	// The ishell context key that we store a client instance under.
	ClientKey = "client"
	// The ishell context key that we store the session's account holder
	// under.
	ActiveAccountKey = "activeAccount"
)

// ActiveAccount holds the shell session's registered account. One
// holder is stashed in the shell context at startup; commands bind an
// account into it after registering and read it back to sign requests.
type ActiveAccount struct {
	acct *acmeclient.Account
}

// Bind replaces the held account.
func (a *ActiveAccount) Bind(acct *acmeclient.Account) {
	a.acct = acct
}

// Get returns the held account, or nil if none has been bound.
func (a *ActiveAccount) Get() *acmeclient.Account {
	return a.acct
}

func OkURL(urlStr string) bool {
	result, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	if result.Scheme != "http" && result.Scheme != "https" {
		return false
	}
	return true
}

// shellContext is a common interface that can be used to retrieve
// objects from a ishell.Shell or an ishell.Context.
type shellContext interface {
	Get(string) interface{}
}

// GetClient reads a *acmeclient.Client from the shellContext or panics.
func GetClient(c shellContext) *acmeclient.Client {
	if c.Get(ClientKey) == nil {
		panic(fmt.Sprintf("nil %q value in shellContext", ClientKey))
	}

	rawClient := c.Get(ClientKey)
	switch c := rawClient.(type) {
	case *acmeclient.Client:
		return c
	}

	panic(fmt.Sprintf(
		"%q value in shellContext was not an *acmeclient.Client",
		ClientKey))
}

// GetActiveAccount reads the session's *ActiveAccount holder from the
// shellContext or panics.
func GetActiveAccount(c shellContext) *ActiveAccount {
	if c.Get(ActiveAccountKey) == nil {
		panic(fmt.Sprintf("nil %q value in shellContext", ActiveAccountKey))
	}

	rawHolder := c.Get(ActiveAccountKey)
	switch h := rawHolder.(type) {
	case *ActiveAccount:
		return h
	}

	panic(fmt.Sprintf(
		"%q value in shellContext was not an *ActiveAccount",
		ActiveAccountKey))
}

func ReadJSON(c *ishell.Context) string {
	c.SetPrompt(BasePrompt + "JSON > ")
	defer c.SetPrompt(BasePrompt)
	terminator := "."
	c.Printf("Input JSON POST request body. End by sending '%s'\n", terminator)
	return strings.TrimSuffix(c.ReadMultiLines(terminator), terminator)
}

func PrintJSON(ob interface{}) (string, error) {
	bytes, err := json.MarshalIndent(ob, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), err
}

// PrintServerError prints err on the shell. When the error carries a
// response body that parses as an RFC 7807 problem document the type
// and detail are printed instead of the raw body.
func PrintServerError(c *ishell.Context, prefix string, err error) {
	var acmeErr *acme.Error
	if errors.As(err, &acmeErr) && acmeErr.Body != "" {
		if prob, ok := resources.ProblemFromBody([]byte(acmeErr.Body)); ok {
			c.Printf("%s: server returned a problem (status %d): %s\n",
				prefix, acmeErr.Status, prob)
			return
		}
	}
	c.Printf("%s: %s\n", prefix, err)
}

var commands []commandRegistry

type commandRegistry struct {
	Cmd           *ishell.Cmd
	Autocompleter NewCommandAutocompleter
}

type NewCommandAutocompleter func(c *acmeclient.Client) func(args []string) []string

// RegisterCommand adds a command to the registry that AddCommands
// installs into a shell. Commands parse their own FlagSets inside
// their handler with ParseFlagSetArgs.
func RegisterCommand(cmd *ishell.Cmd, completerFunc NewCommandAutocompleter) {
	commands = append(commands, commandRegistry{
		Cmd:           cmd,
		Autocompleter: completerFunc,
	})
}

// AddCommands installs every registered command into the shell, wiring
// up autocompleters with the given client.
func AddCommands(shell *ishell.Shell, client *acmeclient.Client) {
	for _, cmdReg := range commands {
		if cmdReg.Autocompleter != nil {
			cmdReg.Cmd.Completer = cmdReg.Autocompleter(client)
		}
		shell.AddCmd(cmdReg.Cmd)
	}
}

// ParseFlagSetArgs parses a command's args with its FlagSet, returning
// the leftover positional args. A returned error means the handler
// should stop: for flag.ErrHelp the usage was already printed, for
// anything else the FlagSet printed the parse problem.
func ParseFlagSetArgs(args []string, flags *flag.FlagSet) ([]string, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return flags.Args(), nil
}

// DirectoryAutocompleter completes arguments using the endpoint names
// from the client's directory.
func DirectoryAutocompleter(c *acmeclient.Client) func(args []string) []string {
	dir, err := c.Directory()
	if err != nil {
		return nil
	}
	var keys []string
	for key := range dir {
		if key == "meta" {
			continue
		}
		keys = append(keys, key)
	}
	return func(args []string) []string {
		return keys
	}
}
