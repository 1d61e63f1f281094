package display

import (
	"bytes"
	"testing"

	"github.com/concave-dev/dao/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) result.Value {
	t.Helper()
	v, err := result.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestPrintJSONKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, decode(t, `{"srv2": {"name": "b"}, "srv1": {"name": "a"}}`)))

	assert.Equal(t, `{
  "srv2": {
    "name": "b"
  },
  "srv1": {
    "name": "a"
  }
}
`, buf.String())
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatPrint, decode(t, `{"rack": "PHX2-A1", "servers": [1, 2], "meta": {"env": "prod"}}`)))

	assert.Equal(t, `rack: PHX2-A1
servers:
  - 1
  - 2
meta:
  env: prod
`, buf.String())
}

func TestPrintPlainString(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatPrint, result.String("Accepted")))
	assert.Equal(t, "Accepted\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, FormatJSON, result.String("Accepted")))
	assert.Equal(t, "\"Accepted\"\n", buf.String())
}

func TestPrintUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Print(&buf, "csv", result.String("x")))
	assert.Empty(t, buf.String())
}

func TestInline(t *testing.T) {
	s, err := Inline(decode(t, `{"name": "eth0", "mac": "aa:bb:cc:dd:ee:ff"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"eth0","mac":"aa:bb:cc:dd:ee:ff"}`, s)
}
