package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// locationPattern matches canonical (upper-cased) location names such as
// "PHX2" or "ASH2-B".
var locationPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_.-]*$`)

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// A zero timeout would make every request wait forever on an unreachable
// master.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// CanonicalLocation upper-cases a location name and checks its format.
// Location names are all-caps on the master side.
func CanonicalLocation(location string) (string, error) {
	canonical := strings.ToUpper(strings.TrimSpace(location))
	if canonical == "" {
		return "", fmt.Errorf("location cannot be empty")
	}
	if !locationPattern.MatchString(canonical) {
		return "", fmt.Errorf("location '%s' must contain only letters, digits, '.', '-' and '_'", location)
	}
	return canonical, nil
}
