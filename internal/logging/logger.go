// Package logging provides structured, colorful logging utilities for the DAO
// client, ensuring consistent log formatting and visual clarity for operators.
//
// Implements a unified logging interface over charmbracelet/log used by the
// CLI front end, the remote call gateway (including the Resty HTTP client's
// internal logs) and configuration loading. Uses color-coded log levels and
// consistent timestamp formatting.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Unix conventions: INFO/SUCCESS on stdout, WARN/ERROR/DEBUG on stderr
//     by default; the dao binary points both at stderr via SetWriters
//   - Output suppression: CLI runs show only errors unless debugging is requested
//
// Command results are never written through this package; they go to the
// command's output writer so that `--format json` output stays parseable.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for INFO/SUCCESS messages (stdout by default, follows Unix conventions)
	stdoutLogger = newLogger(os.Stdout)

	// Logger for WARN/ERROR/DEBUG messages (stderr by default, follows Unix conventions)
	stderrLogger = newLogger(os.Stderr)

	// Current output destination for INFO/SUCCESS, used by Success
	currentStdoutOutput io.Writer = os.Stdout
)

// setupCustomStyles creates custom color styling for log levels. Colors work
// in both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// Info logs informational messages about client operations.
// Uses stdout following Unix conventions.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-critical issues requiring attention.
// Uses stderr following Unix conventions.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs error messages for failures.
// Uses stderr following Unix conventions.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom
// styling. It respects INFO level filtering.
func Success(format string, v ...any) {
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return
	}

	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281")) // Light green

	tempLogger := log.NewWithOptions(currentStdoutOutput, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information for troubleshooting.
// Uses stderr following Unix conventions.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// SetLevel configures the minimum logging level. Accepts DEBUG, INFO, WARN
// and ERROR; anything else falls back to INFO.
func SetLevel(level string) {
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetWriters redirects both loggers, keeping the current level. Tests use it
// to capture output; nil writers restore stdout/stderr.
func SetWriters(stdout, stderr io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	level := stdoutLogger.GetLevel()
	stdoutLogger = newLogger(stdout)
	stderrLogger = newLogger(stderr)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
	currentStdoutOutput = stdout
}

// SuppressOutput disables INFO/WARN/DEBUG logs while keeping ERROR logs
// visible. Used by the CLI to keep normal runs quiet.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
}

// RestoreOutput re-enables logging at INFO level and above on the current
// writers.
func RestoreOutput() {
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)
}
