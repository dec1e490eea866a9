// Package cmd provides common command line tools for the acmecore
// binaries.
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func FailOnError(err error, msg string) {
	// If there wasn't an error, return
	if err == nil {
		return
	}

	// Otherwise, print the error and fail
	logrus.Fatalf("[!] %s - %s", msg, err)
}

var signalToName = map[os.Signal]string{
	syscall.SIGTERM: "SIGTERM",
	syscall.SIGHUP:  "SIGHUP",
}

// CatchSignals catches SIGTERM and SIGHUP and executes a callback
// method before exiting. SIGINT is left alone so interactive shells can
// keep their own interrupt handling.
func CatchSignals(callback func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, syscall.SIGHUP)

	sig := <-sigChan
	logrus.Printf("Caught %s", signalToName[sig])

	if callback != nil {
		callback()
	}

	logrus.Printf("Exiting")
	os.Exit(0)
}
