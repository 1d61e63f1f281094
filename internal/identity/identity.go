// Package identity resolves the operator's login name. The name is sent to
// the master as the first argument of every call, so a missing or superuser
// identity stops the command before anything else runs.
package identity

import (
	"errors"
	"fmt"
	"os"
	"os/user"
)

// Superuser is the login name the client refuses to run as.
const Superuser = "root"

// ErrSuperuser is returned by Check when the caller is the superuser.
var ErrSuperuser = errors.New("dao must not be run as root")

// loginEnvVars are consulted in order before falling back to the user
// database.
var loginEnvVars = []string{"LOGNAME", "USER", "LNAME", "USERNAME"}

// Lookup returns the current login name.
type Lookup func() (string, error)

// Current returns the login name of the operator: the first non-empty login
// environment variable, then the user database entry for the process uid.
func Current() (string, error) {
	for _, name := range loginEnvVars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to determine current user: %w", err)
	}
	return u.Username, nil
}

// Check resolves the login name through lookup and rejects the superuser.
func Check(lookup Lookup) (string, error) {
	if lookup == nil {
		lookup = Current
	}

	name, err := lookup()
	if err != nil {
		return "", err
	}
	if name == Superuser {
		return "", ErrSuperuser
	}
	return name, nil
}
