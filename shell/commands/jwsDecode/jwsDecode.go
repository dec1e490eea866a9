// Package jwsDecode implements a shell command for picking apart JWS
// envelopes.
package jwsDecode

import (
	"encoding/json"
	"flag"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/acme/codec"
	"github.com/dkrol/acmecore/shell/commands"
)

type jwsDecodeOptions struct {
	data string
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "jwsDecode",
			Aliases: []string{"jws"},
			Func:    jwsDecodeHandler,
			Help:    "Decode a JWS and its raw Base64URL encoded fields",
			LongHelp: `
	jwsDecode -data [jws]:
		Decode the protected header, payload and signature of a JWS
		envelope. The input is read interactively when -data is not
		given.`,
		},
		nil)
}

func jwsDecodeHandler(c *ishell.Context) {
	opts := jwsDecodeOptions{}
	jwsDecodeFlags := flag.NewFlagSet("jwsDecode", flag.ContinueOnError)
	jwsDecodeFlags.StringVar(&opts.data, "data", "", "JWS envelope to decode")

	if _, err := commands.ParseFlagSetArgs(c.Args, jwsDecodeFlags); err != nil {
		return
	}

	input := opts.data
	if input == "" {
		input = readData(c)
	}

	var jws struct {
		Protected string `json:"protected"`
		Payload   string `json:"payload"`
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal([]byte(input), &jws); err != nil {
		c.Printf("error unmarshaling input JWS: %s\n", err)
		return
	}

	protected, err := codec.Unbase64URL(jws.Protected)
	if err != nil {
		c.Printf("error decoding input JWS protected field: %s\n", err)
		return
	}

	payload, err := codec.Unbase64URL(jws.Payload)
	if err != nil {
		c.Printf("error decoding input JWS payload field: %s\n", err)
		return
	}

	signature, err := codec.Unbase64URL(jws.Signature)
	if err != nil {
		c.Printf("error decoding input JWS signature field: %s\n", err)
		return
	}

	c.Printf("Protected: %s\n", protected)
	c.Printf("Payload: %s\n", payload)
	c.Printf("Signature: %X\n", signature)
}

func readData(c *ishell.Context) string {
	c.SetPrompt(commands.BasePrompt + "JWS > ")
	defer c.SetPrompt(commands.BasePrompt)
	terminator := "."
	c.Printf("Input JWS to decode. End by sending '%s'\n", terminator)
	return strings.TrimSuffix(c.ReadMultiLines(terminator), terminator)
}
