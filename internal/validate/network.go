// Package validate provides input validation for the DAO client, ensuring
// operator input is rejected before any request reaches the master.
//
// Implements master URL, IP address, MAC address and location validation
// using the go-playground/validator library, plus eager checks for the
// structured fragments some operations embed in flag values (JSON documents
// and lambda expressions).
//
// VALIDATION FEATURES:
//   - Master URL: absolute http(s) URL for the task endpoint
//   - IP Address: IPv4 and IPv6, normalised to canonical text
//   - MAC Address: BMC MAC addresses for manual discovery
//   - Location: deployment location names
//
// Failures on operator-supplied values are reported as *InputError so they
// can be told apart from transport failures.
package validate

import (
	"fmt"
	"net/netip"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	// Using built-in validators: url, ip, mac, min, oneof - no custom registration needed
}

// ValidateField validates individual values against validator tags.
//
// Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct using its `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ParseMasterURL parses and validates the base URL of the DAO master. Only
// absolute http and https URLs are accepted.
func ParseMasterURL(raw string) (*url.URL, error) {
	if err := ValidateField(raw, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid master URL '%s': must be an absolute URL", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid master URL '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid master URL '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid master URL '%s': missing host", raw)
	}
	return u, nil
}

// NormalizeIP validates an IP address given for flag and returns its
// canonical text form ("010.0.0.1" is rejected, "::FFFF:10.0.0.1" becomes
// "::ffff:10.0.0.1").
func NormalizeIP(flag, raw string) (string, error) {
	if err := ValidateField(raw, "required,ip"); err != nil {
		return "", &InputError{Flag: flag, Reason: fmt.Sprintf("'%s' is not a valid IP address", raw)}
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "", &InputError{Flag: flag, Reason: fmt.Sprintf("'%s' is not a valid IP address", raw)}
	}
	return addr.String(), nil
}

// ValidateMAC validates a MAC address given for flag.
func ValidateMAC(flag, raw string) error {
	if err := ValidateField(raw, "required,mac"); err != nil {
		return &InputError{Flag: flag, Reason: fmt.Sprintf("'%s' is not a valid MAC address (expected XX:XX:XX:XX:XX:XX)", raw)}
	}
	return nil
}
