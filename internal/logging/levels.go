package logging

import "fmt"

// ValidLogLevels defines the set of log levels accepted by --log-level and
// the client config file.
//
// SUPPORTED LOG LEVELS:
//   - DEBUG: request/response tracing, including raw gateway payloads
//   - INFO:  which master and location a command is talking to
//   - WARN:  conditions that should be noted but don't stop the command
//   - ERROR: failures that abort the command
//
// Level strings are case-sensitive and uppercase.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
