package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It writes to stderr so stdout stays
// reserved for reports and the MCP stdio protocol.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.WarnLevel)
	Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// SetLogLevel sets the level of Log from a string such as "debug" or "warn".
func SetLogLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn", "":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error, fatal", level)
	}
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Log.WithError(err).Error("Fatal " + msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Log.WithError(err).Warn(msg)
}
