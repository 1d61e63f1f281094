package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/concave-dev/dao/internal/gateway"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type master struct {
	status int
	body   string
	delay  time.Duration
	calls  []gateway.Envelope
}

func (m *master) start(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/v1.0/tasks", func(c *gin.Context) {
		var env gateway.Envelope
		if err := c.ShouldBindJSON(&env); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		m.calls = append(m.calls, env)
		if m.delay > 0 {
			time.Sleep(m.delay)
		}
		c.Data(m.status, "application/json", []byte(m.body))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// clientConfig writes a config file pointing at srv.
func clientConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	content := "client:\n  master_url: " + srv.URL + "/v1.0/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func as(name string) func() (string, error) {
	return func() (string, error) { return name, nil }
}

func invoke(whoami func() (string, error), args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, whoami)
	return code, stdout.String(), stderr.String()
}

func cleanEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DAO_LOCATION", "")
	t.Setenv("DEBUG", "")
}

func TestRunSuccess(t *testing.T) {
	cleanEnv(t)
	m := &master{status: http.StatusOK, body: `{"result": {"w1": {"name": "worker1"}}}`}
	srv := m.start(t)

	code, stdout, stderr := invoke(as("alice"),
		"--config", clientConfig(t, srv), "--location", "phx2", "--format", "json", "worker-list")

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.JSONEq(t, `{"w1": {"name": "worker1"}}`, stdout)
	require.Len(t, m.calls, 1)
	assert.Equal(t, "worker_list", m.calls[0].Func)
	assert.Equal(t, []any{"alice", "PHX2"}, m.calls[0].Args)
}

func TestRunJSONOutputStaysParseableWithLogging(t *testing.T) {
	for _, flags := range [][]string{{"--debug"}, {"--log-level", "INFO"}} {
		cleanEnv(t)
		m := &master{status: http.StatusOK, body: `{"result": {"a": 1}}`}
		srv := m.start(t)

		args := append([]string{"--config", clientConfig(t, srv), "--location", "phx2", "--format", "json"}, flags...)
		code, stdout, stderr := invoke(as("alice"), append(args, "worker-list")...)

		require.Equal(t, 0, code, "flags %v stderr: %s", flags, stderr)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &out), "flags %v stdout: %q", flags, stdout)
		assert.Equal(t, map[string]any{"a": float64(1)}, out)
		assert.Contains(t, stderr, "Using DAO master")
	}
}

func TestRunLocationFromEnvironment(t *testing.T) {
	cleanEnv(t)
	t.Setenv("DAO_LOCATION", "ash2")
	m := &master{status: http.StatusOK, body: `{"result": null}`}
	srv := m.start(t)

	code, stdout, _ := invoke(as("alice"), "--config", clientConfig(t, srv), "sku-list")

	require.Equal(t, 0, code)
	assert.Equal(t, "Accepted\n", stdout)
	require.Len(t, m.calls, 1)
	assert.Equal(t, []any{"alice", "ASH2"}, m.calls[0].Args)
}

func TestRunRejectsRoot(t *testing.T) {
	cleanEnv(t)
	m := &master{status: http.StatusOK, body: `{"result": null}`}
	srv := m.start(t)

	code, _, stderr := invoke(as("root"),
		"--config", clientConfig(t, srv), "--location", "phx2", "worker-list")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "root account")
	assert.Empty(t, m.calls)
}

func TestRunNonSuccessPrintsBody(t *testing.T) {
	cleanEnv(t)
	m := &master{status: http.StatusInternalServerError, body: `{"message": "rack PHX2-Z9 not found"}`}
	srv := m.start(t)

	code, stdout, _ := invoke(as("alice"),
		"--config", clientConfig(t, srv), "--location", "phx2", "rack-renumber", "PHX2-Z9")

	assert.Equal(t, 1, code)
	assert.Equal(t, "{\"message\": \"rack PHX2-Z9 not found\"}\n", stdout)
}

func TestRunMissingLocation(t *testing.T) {
	cleanEnv(t)
	m := &master{status: http.StatusOK, body: `{"result": null}`}
	srv := m.start(t)

	code, _, stderr := invoke(as("alice"), "--config", clientConfig(t, srv), "worker-list")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "DAO_LOCATION")
	assert.Empty(t, m.calls)
}

func TestRunTimeout(t *testing.T) {
	cleanEnv(t)
	m := &master{status: http.StatusOK, body: `{"result": null}`, delay: 2 * time.Second}
	srv := m.start(t)

	code, stdout, stderr := invoke(as("alice"),
		"--config", clientConfig(t, srv), "--location", "phx2", "--timeout", "1", "worker-list")

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "DAO Master at "+srv.URL+"/v1.0/ could not be reached: timeout")
}

func TestRunInvalidGlobalFlag(t *testing.T) {
	cleanEnv(t)
	code, _, stderr := invoke(as("alice"), "--location", "phx2", "--format", "csv", "worker-list")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid output format")
}

func TestRunUnknownCommand(t *testing.T) {
	cleanEnv(t)
	code, _, _ := invoke(as("alice"), "no-such-command")
	assert.Equal(t, 1, code)
}

func TestRunHelpNeedsNoLocation(t *testing.T) {
	cleanEnv(t)
	code, stdout, _ := invoke(as("alice"), "rack-trigger", "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "rack-trigger RACK")
	assert.Contains(t, stdout, "--set-target-status")
}
