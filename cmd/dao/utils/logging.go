// Package utils provides utility functions for the dao CLI.
// This file contains logging setup and Resty logger integration utilities.
package utils

import (
	"os"

	"github.com/concave-dev/dao/cmd/dao/config"
	"github.com/concave-dev/dao/internal/logging"
)

// RestyLogger implements resty.Logger interface and routes logs through structured logging
type RestyLogger struct{}

// Errorf routes error messages through structured logging.
func (RestyLogger) Errorf(format string, v ...interface{}) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (RestyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (RestyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug(format, v...)
}

// SetupLogging configures CLI logging from the global options. --debug or
// DEBUG=true enables everything down to DEBUG; otherwise the --log-level
// applies, and the default ERROR level keeps normal runs quiet.
func SetupLogging(opts *config.Options) {
	if opts.Debug || os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	if opts.LogLevel == "" || opts.LogLevel == "ERROR" {
		logging.SuppressOutput()
		return
	}
	logging.SetLevel(opts.LogLevel)
}
