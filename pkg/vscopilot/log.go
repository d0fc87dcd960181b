package vscopilot

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger. The engine logs skipped files
// and roots here; it never writes to stdout.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}
