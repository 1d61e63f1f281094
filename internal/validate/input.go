package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/concave-dev/dao/internal/result"
	"github.com/tidwall/jsonc"
)

// InputError reports a malformed operator-supplied value. It is raised before
// any request is sent and is distinct from gateway failures.
type InputError struct {
	Flag   string
	Reason string
}

func (e *InputError) Error() string {
	if e.Flag == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Flag, e.Reason)
}

// ParseJSONFragment parses a JSON value embedded in a flag. Comments and
// trailing commas are allowed so topology documents can be annotated; the
// value may also be read from a file with "@path". The result keeps the key
// order of the input.
func ParseJSONFragment(flag, raw string) (result.Value, error) {
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &InputError{Flag: flag, Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
		}
		data = content
	}

	stripped := jsonc.ToJSON(data)
	if !json.Valid(stripped) {
		return nil, &InputError{Flag: flag, Reason: "is not a valid json"}
	}

	v, err := result.Decode(stripped)
	if err != nil {
		return nil, &InputError{Flag: flag, Reason: fmt.Sprintf("is not a valid json: %v", err)}
	}
	return v, nil
}

var (
	lambdaKeyword = regexp.MustCompile(`^\s*lambda\b`)
	lambdaHeader  = regexp.MustCompile(`^\s*lambda\b([^:]*):(.*)$`)
	lambdaParam   = regexp.MustCompile(`^\*{0,2}[A-Za-z_][A-Za-z0-9_]*(\s*=\s*\S.*)?$`)

	// callableRef matches a dotted name, optionally applied to arguments:
	// "int", "operator.neg", "functools.partial(f, 1)".
	callableRef = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*(\(.*\))?$`)
)

// ValidateLambda checks that raw is a one-line callable the master can apply
// to a number: either a lambda such as "lambda port: port - 1" or a callable
// reference such as "int" or "operator.neg". The master evaluates the
// expression; this check catches typos before the request is sent: missing
// header, bad parameter names, an empty body, unbalanced brackets and
// unterminated strings.
func ValidateLambda(flag, raw string) error {
	invalid := func(reason string) error {
		return &InputError{Flag: flag, Reason: "is not a valid lambda expression: " + reason}
	}

	expr := strings.TrimSpace(raw)
	if expr == "" {
		return invalid("empty expression")
	}
	if !lambdaKeyword.MatchString(expr) {
		if !callableRef.MatchString(expr) {
			return invalid("expected 'lambda <args>: <expression>' or a callable name")
		}
		if reason := checkBalanced(expr); reason != "" {
			return invalid(reason)
		}
		return nil
	}

	m := lambdaHeader.FindStringSubmatch(expr)
	if m == nil {
		return invalid("expected 'lambda <args>: <expression>'")
	}

	if params := strings.TrimSpace(m[1]); params != "" {
		for _, p := range strings.Split(params, ",") {
			if !lambdaParam.MatchString(strings.TrimSpace(p)) {
				return invalid(fmt.Sprintf("bad parameter '%s'", strings.TrimSpace(p)))
			}
		}
	}

	body := strings.TrimSpace(m[2])
	if body == "" {
		return invalid("empty body")
	}
	if reason := checkBalanced(body); reason != "" {
		return invalid(reason)
	}
	return nil
}

// checkBalanced scans an expression for matching brackets and closed string
// literals. It returns an empty string when the expression is balanced.
func checkBalanced(expr string) string {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune
	var quote rune
	escaped := false

	for _, r := range expr {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}

		switch r {
		case '\'', '"':
			quote = r
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Sprintf("unexpected '%c'", r)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if quote != 0 {
		return "unterminated string"
	}
	if len(stack) > 0 {
		return fmt.Sprintf("unclosed '%c'", stack[len(stack)-1])
	}
	return ""
}
