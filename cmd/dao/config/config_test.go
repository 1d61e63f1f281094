package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadFileMissingDefault(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), cfg)
}

func TestLoadFileMissingExplicit(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
client:
  master_url: http://master.example.com:5000/v1.0/
  location: phx2
`)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://master.example.com:5000/v1.0/", cfg.Client.MasterURL)
	assert.Equal(t, "phx2", cfg.Client.Location)
	assert.Equal(t, DefaultLocationVar, cfg.Client.LocationVar)
	assert.Equal(t, DefaultTimeout, cfg.Client.Timeout)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "client: [",
		"bad url":      "client:\n  master_url: not-a-url\n",
		"zero timeout": "client:\n  timeout: 0\n",
		"empty var":    "client:\n  location_var: \"\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, content), true)
			assert.Error(t, err)
		})
	}
}

func TestResolveLocationPrecedence(t *testing.T) {
	client := ClientSection{LocationVar: "DAO_LOCATION", Location: "ash2"}

	loc, err := ResolveLocation("phx2", client, env(map[string]string{"DAO_LOCATION": "sjc1"}))
	require.NoError(t, err)
	assert.Equal(t, "PHX2", loc)

	loc, err = ResolveLocation("", client, env(map[string]string{"DAO_LOCATION": "sjc1"}))
	require.NoError(t, err)
	assert.Equal(t, "SJC1", loc)

	loc, err = ResolveLocation("", client, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "ASH2", loc)
}

func TestResolveLocationCustomVariable(t *testing.T) {
	client := ClientSection{LocationVar: "SITE"}

	loc, err := ResolveLocation("", client, env(map[string]string{"SITE": "dfw3", "DAO_LOCATION": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "DFW3", loc)
}

func TestResolveLocationMissing(t *testing.T) {
	_, err := ResolveLocation("", ClientSection{LocationVar: "DAO_LOCATION"}, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DAO_LOCATION")
}

func TestResolveMergesFlags(t *testing.T) {
	opts := &Options{Location: "phx2"}
	settings, err := Resolve(opts, DefaultFile(), env(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultMasterURL, settings.MasterURL)
	assert.Equal(t, 8*time.Second, settings.Timeout)
	assert.Equal(t, "PHX2", settings.Location)

	opts = &Options{Location: "phx2", MasterURL: "http://other:5000/", Timeout: 30}
	settings, err = Resolve(opts, DefaultFile(), env(nil))
	require.NoError(t, err)
	assert.Equal(t, "http://other:5000/", settings.MasterURL)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}

func TestNewInvocation(t *testing.T) {
	inv := NewInvocation(&Options{Format: "json", Filter: "asset.serial, pxe_ip"}, "ops", "PHX2")
	assert.Equal(t, Invocation{
		User:     "ops",
		Location: "PHX2",
		Format:   "json",
		Fields:   []string{"asset.serial", "pxe_ip"},
	}, inv)
}

func TestValidateGlobalFlags(t *testing.T) {
	valid := &Options{Format: "print", LogLevel: "ERROR"}
	assert.NoError(t, ValidateGlobalFlags(valid))

	tests := map[string]*Options{
		"format":    {Format: "csv", LogLevel: "ERROR"},
		"log level": {Format: "json", LogLevel: "verbose"},
		"timeout":   {Format: "json", LogLevel: "ERROR", Timeout: -1},
		"master":    {Format: "json", LogLevel: "ERROR", MasterURL: "localhost"},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateGlobalFlags(opts))
		})
	}
}
