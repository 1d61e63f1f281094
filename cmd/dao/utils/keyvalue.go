package utils

import (
	"fmt"
	"strings"

	"github.com/concave-dev/dao/internal/validate"
)

// ParseKeyValue splits a "key=value" argument given for flag. The value may
// itself contain '='.
func ParseKeyValue(flag, item string) (string, string, error) {
	key, value, ok := strings.Cut(item, "=")
	if !ok || key == "" {
		return "", "", &validate.InputError{
			Flag:   flag,
			Reason: fmt.Sprintf("'%s' must be in key=value format", item),
		}
	}
	return key, value, nil
}

// ParseKeyValues parses repeated "key=value" arguments into a map. Later
// occurrences of a key win.
func ParseKeyValues(flag string, items []string) (map[string]string, error) {
	pairs := make(map[string]string, len(items))
	for _, item := range items {
		key, value, err := ParseKeyValue(flag, item)
		if err != nil {
			return nil, err
		}
		pairs[key] = value
	}
	return pairs, nil
}
