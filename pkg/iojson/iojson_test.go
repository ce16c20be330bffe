package iojson

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, map[string]any{"lines": []string{"a < b && c"}})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"lines\": [\n    \"a < b && c\"\n  ]\n}\n", buf.String())
}

func TestWrite_UnsupportedValue(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, math.Inf(1))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"message":"encode output"`)
	assert.Contains(t, buf.String(), "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "render failed", map[string]any{"doc": "seek"}))

	assert.JSONEq(t, `{"message":"render failed","data":{"doc":"seek"}}`, buf.String())
}
