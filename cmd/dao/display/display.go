// Package display renders operation results for the dao CLI.
//
// Two formats are supported:
//   - print: block YAML for operators, keys in the order the master sent
//     them; a plain string result (such as "Accepted") is printed as-is
//   - json: indented JSON for scripts
//
// Results always go to the writer handed in by the caller, never through the
// logging package, so json output stays parseable when logging is enabled.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/concave-dev/dao/internal/logging"
	"github.com/concave-dev/dao/internal/result"
	"gopkg.in/yaml.v3"
)

const (
	FormatPrint = "print"
	FormatJSON  = "json"
)

// Print writes v to w in format.
func Print(w io.Writer, format string, v result.Value) error {
	switch format {
	case FormatJSON:
		return printJSON(w, v)
	case FormatPrint, "":
		return printYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func printJSON(w io.Writer, v result.Value) error {
	if v == nil {
		v = result.Null
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func printYAML(w io.Writer, v result.Value) error {
	if s, ok := v.(result.Scalar); ok {
		if text, ok := s.V.(string); ok {
			_, err := fmt.Fprintln(w, text)
			return err
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result.Node(v)); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return encoder.Close()
}

// Inline renders v on a single line, used where a nested structure is shown
// as one field value.
func Inline(v result.Value) (string, error) {
	if v == nil {
		v = result.Null
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
