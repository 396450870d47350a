// Package zlog provides the global leveled logger for zarc. All packages log
// through the package-level functions here so verbosity and output destination
// are controlled in one place. Messages carry structured key-value pairs and
// are rendered with severity-colored prefixes when a terminal is attached.
package zlog

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)
}

// SetVerbose switches the logger between info-level (default) and debug-level
// output.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the logger's output, primarily for testing. Colors are
// disabled since the writer is not a terminal.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
}

// fields converts alternating key-value arguments into logrus fields. A
// trailing key without a value is dropped.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

// Debug logs a debug message, visible only in verbose mode.
func Debug(msg string, args ...any) {
	logger.WithFields(fields(args)).Debug(msg)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	logger.WithFields(fields(args)).Info(msg)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	logger.WithFields(fields(args)).Warn(msg)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	logger.WithFields(fields(args)).Error(msg)
}
