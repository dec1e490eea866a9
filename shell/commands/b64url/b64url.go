// Package b64url implements a base64url encode/decode utility command.
package b64url

import (
	"errors"
	"flag"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/dkrol/acmecore/acme/codec"
	"github.com/dkrol/acmecore/shell/commands"
)

type b64urlOptions struct {
	encode bool
	decode bool
	data   string
	hex    bool
}

func (opts b64urlOptions) validate() error {
	if opts.encode && opts.decode {
		return errors.New("both -encode and -decode can not be provided at once")
	}
	if !opts.encode && !opts.decode {
		return errors.New("one of -encode or -decode must be provided")
	}
	return nil
}

func init() {
	commands.RegisterCommand(
		&ishell.Cmd{
			Name:    "b64url",
			Aliases: []string{"base64url", "base64"},
			Func:    b64urlHandler,
			Help:    "Base64URL encode/decode utility",
			LongHelp: `
	b64url -encode -data [data]:
		Encode the given data with the unpadded URL-safe base64 alphabet
		that ACME uses for JWS fields.

	b64url -decode -data [data]:
		Decode the given base64url data. Use -hex to print the result as
		hex instead of a string.`,
		},
		nil)
}

func b64urlHandler(c *ishell.Context) {
	opts := b64urlOptions{}
	b64urlFlags := flag.NewFlagSet("b64url", flag.ContinueOnError)
	b64urlFlags.BoolVar(&opts.encode, "encode", false,
		"Encode the input string as a raw base64 URL encoded string")
	b64urlFlags.BoolVar(&opts.decode, "decode", false,
		"Decode the input string from base64 URL encoding")
	b64urlFlags.StringVar(&opts.data, "data", "", "Data to encode/decode")
	b64urlFlags.BoolVar(&opts.hex, "hex", false,
		"Output result in hex instead of as a string")

	if _, err := commands.ParseFlagSetArgs(c.Args, b64urlFlags); err != nil {
		return
	}

	if err := opts.validate(); err != nil {
		c.Printf("Invalid options: %s\n", err)
		return
	}

	input := opts.data
	if input == "" {
		input = readData(c)
	}

	var output []byte
	if opts.decode {
		result, err := codec.Unbase64URL(input)
		if err != nil {
			c.Printf("Error decoding input: %s\n", err)
			return
		}
		output = result
	} else {
		output = []byte(codec.Base64URL([]byte(input)))
	}

	if opts.hex {
		c.Printf("Result:\n%X\n", output)
	} else {
		c.Printf("Result:\n%s\n", output)
	}
}

func readData(c *ishell.Context) string {
	c.SetPrompt(commands.BasePrompt + "b64url data > ")
	defer c.SetPrompt(commands.BasePrompt)
	terminator := "."
	c.Printf("Input data to encode/decode. End by sending '%s'\n", terminator)
	return strings.TrimSuffix(c.ReadMultiLines(terminator), terminator)
}
