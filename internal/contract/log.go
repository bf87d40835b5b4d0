package contract

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the application-wide structured logger (writes to stderr).
var Logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
	Prefix:          "testid",
})

// SetLogLevel applies a level name such as "debug" or "warn" to Logger.
func SetLogLevel(level string) error {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log-level '%s'. must be debug, info, warn, error", level)
	}
	Logger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.Warn(msg, "err", err)
}
