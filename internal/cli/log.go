package cli

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the logrus logger handed to the resolver. Unknown levels
// fall back to warn; --verbose forces debug.
func newLogger(opts Options, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if opts.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}
