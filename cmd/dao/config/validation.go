// Package config provides configuration management for the dao CLI.
package config

import (
	"fmt"

	"github.com/concave-dev/dao/internal/logging"
	"github.com/concave-dev/dao/internal/validate"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(opts *Options) error {
	if err := ValidateOutputFormat(opts.Format); err != nil {
		return err
	}

	if err := logging.ValidateLogLevel(opts.LogLevel); err != nil {
		return fmt.Errorf("%w - valid levels are: DEBUG, INFO, WARN, ERROR", err)
	}

	if opts.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	if opts.MasterURL != "" {
		if _, err := validate.ParseMasterURL(opts.MasterURL); err != nil {
			return err
		}
	}

	return nil
}

// ValidateOutputFormat validates the --format flag
func ValidateOutputFormat(format string) error {
	if err := validate.ValidateField(format, "required,oneof=print json"); err != nil {
		return fmt.Errorf("invalid output format '%s' - valid formats are: print, json", format)
	}
	return nil
}
