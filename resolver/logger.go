package resolver

// Logger is an optional package logger used for non-fatal warnings and
// debug traces. *logrus.Logger and *logrus.Entry satisfy it.
type Logger interface {
	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)
	// Debugf logs a formatted debug message.
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Debugf(string, ...any) {}
