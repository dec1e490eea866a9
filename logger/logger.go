// Package logger configures process-wide logging.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init sets up logrus for the process. Protocol chatter (nonce fetches,
// retries, directory updates) is logged at debug level and stays hidden
// unless verbose is set.
func Init(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
