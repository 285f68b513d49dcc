// Package logging configures the process-wide logger. Commands call Setup
// once; packages tag their output through Component.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. Unknown level names fall back
// to info rather than failing startup.
func Setup(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// Component returns a logger tagged with the originating component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

// Verbose reports whether debug-or-finer logging is active.
func Verbose() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}
