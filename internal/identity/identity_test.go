package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPrefersLoginEnv(t *testing.T) {
	t.Setenv("LOGNAME", "")
	t.Setenv("USER", "alice")
	t.Setenv("LNAME", "bob")
	t.Setenv("USERNAME", "")

	name, err := Current()
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestCurrentLognameFirst(t *testing.T) {
	t.Setenv("LOGNAME", "carol")
	t.Setenv("USER", "alice")

	name, err := Current()
	require.NoError(t, err)
	assert.Equal(t, "carol", name)
}

func TestCheck(t *testing.T) {
	name, err := Check(func() (string, error) { return "ops", nil })
	require.NoError(t, err)
	assert.Equal(t, "ops", name)

	_, err = Check(func() (string, error) { return "root", nil })
	assert.ErrorIs(t, err, ErrSuperuser)

	lookupErr := errors.New("no passwd entry")
	_, err = Check(func() (string, error) { return "", lookupErr })
	assert.ErrorIs(t, err, lookupErr)
}
