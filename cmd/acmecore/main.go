// acmecore provides a developer-oriented command-line shell for
// bootstrapping accounts with an ACME server.
package main

import (
	"flag"
	"os"

	"github.com/dkrol/acmecore/acme"
	acmeclient "github.com/dkrol/acmecore/acme/client"
	acmecmd "github.com/dkrol/acmecore/cmd"
	"github.com/dkrol/acmecore/logger"
	"github.com/dkrol/acmecore/persist"
	acmeshell "github.com/dkrol/acmecore/shell"
)

const (
	DIRECTORY_DEFAULT    = acme.LETSENCRYPT_STAGING_DIRECTORY
	CA_DEFAULT           = ""
	AUTOREGISTER_DEFAULT = true
	CONTACT_DEFAULT      = ""
	DATA_DEFAULT         = ""
	REDIS_DEFAULT        = ""
	REDIS_DB_DEFAULT     = 0
	REDIS_PREFIX_DEFAULT = "acmecore"
)

func main() {
	directory := flag.String(
		"directory",
		DIRECTORY_DEFAULT,
		"Directory URL for ACME server")

	caCert := flag.String(
		"ca",
		CA_DEFAULT,
		"CA certificate(s) for verifying ACME server HTTPS (empty to use system roots)")

	autoRegister := flag.Bool(
		"autoregister",
		AUTOREGISTER_DEFAULT,
		"Register an ACME account automatically at startup")

	email := flag.String(
		"contact",
		CONTACT_DEFAULT,
		"Contact email address for the auto-registered ACME account")

	dataDir := flag.String(
		"data",
		DATA_DEFAULT,
		"Optional directory to persist account keys under (empty for in-memory)")

	redisAddr := flag.String(
		"redis",
		REDIS_DEFAULT,
		"Optional redis host:port to persist account keys in (overrides -data)")

	redisDB := flag.Int(
		"redisDB",
		REDIS_DB_DEFAULT,
		"Redis database number to use with -redis")

	redisPrefix := flag.String(
		"redisPrefix",
		REDIS_PREFIX_DEFAULT,
		"Key prefix to use with -redis")

	pebble := flag.Bool(
		"pebble",
		false,
		"Use Pebble defaults")

	verbose := flag.Bool(
		"verbose",
		false,
		"Log protocol chatter (nonce fetches, retries, directory updates)")

	flag.Parse()

	logger.Init(*verbose)

	if *pebble {
		pebbleDirectory := "https://localhost:14000/dir"
		directory = &pebbleDirectory
		pebbleBaseDir := os.Getenv("GOPATH")
		pebbleCA := pebbleBaseDir + "/src/github.com/letsencrypt/pebble/test/certs/pebble.minica.pem"
		caCert = &pebbleCA
	}

	var store persist.Persist = persist.NewMemoryPersist()
	switch {
	case *redisAddr != "":
		redisStore, err := persist.NewRedisPersist(
			*redisAddr, os.Getenv("REDIS_PASSWORD"), *redisDB, *redisPrefix)
		acmecmd.FailOnError(err, "Unable to create redis persistence")
		store = redisStore
	case *dataDir != "":
		fileStore, err := persist.NewFilePersist(*dataDir)
		acmecmd.FailOnError(err, "Unable to create file persistence")
		store = fileStore
	}

	config := &acmeshell.Options{
		ClientConfig: acmeclient.ClientConfig{
			DirectoryURL: *directory,
			CACert:       *caCert,
			Store:        store,
		},
		ContactEmail: *email,
		AutoRegister: *autoRegister,
	}

	shell := acmeshell.NewShell(config)
	go acmecmd.CatchSignals(shell.Stop)
	shell.Run()
}
