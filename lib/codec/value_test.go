package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvmirror/kvmirror/lib/errors"
)

func TestEncodeJSONIndentation(t *testing.T) {
	payload, ct, err := Encode(map[string]any{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, ct)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(payload))
}

func TestEncodeStringPassthrough(t *testing.T) {
	payload, ct, err := Encode("x", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "x", string(payload))
}

func TestEncodeBytesPassthrough(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10}
	payload, ct, err := Encode(raw, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
	assert.Equal(t, raw, payload)
}

func TestEncodeNilWithoutContentType(t *testing.T) {
	_, _, err := Encode(nil, "")
	require.Error(t, err)
	assert.True(t, errors.IsEncoding(err))
}

func TestEncodeCyclicValue(t *testing.T) {
	type node struct {
		Next *node `json:"next"`
	}
	n := &node{}
	n.Next = n

	_, _, err := Encode(n, "")
	require.Error(t, err)
	assert.True(t, errors.IsEncoding(err))
	assert.Contains(t, err.Error(), "cannot be stringified to JSON")
}

func TestEncodeRejectsStructuredValueWithContentType(t *testing.T) {
	for _, value := range []any{42, map[string]any{"a": 1}, []string{"x"}, 3.14} {
		_, _, err := Encode(value, "text/plain")
		require.Error(t, err)
		assert.True(t, errors.IsParameter(err), "value %v should be rejected", value)
		assert.Contains(t, err.Error(), "string or []byte")
	}
}

func TestDecodeJSON(t *testing.T) {
	value, err := Decode([]byte(`{"a": 1}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, value)
}

func TestDecodeEmptyContentTypeDefaultsToJSON(t *testing.T) {
	value, err := Decode([]byte(`[1, 2]`), "")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, value)
}

func TestDecodeRawPassthrough(t *testing.T) {
	raw := []byte("plain text")
	value, err := Decode(raw, "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, raw, value)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"), "application/json")
	require.Error(t, err)
	assert.True(t, errors.IsEncoding(err))
}

func TestRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":  "record",
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}

	payload, ct, err := Encode(original, "")
	require.NoError(t, err)

	decoded, err := Decode(payload, ct)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestNormalizeCharset(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"text/plain", "text/plain; charset=utf-8"},
		{"application/json", "application/json; charset=utf-8"},
		{"text/plain; charset=iso-8859-1", "text/plain; charset=iso-8859-1"},
		{"text/plain; CHARSET=UTF-16", "text/plain; CHARSET=UTF-16"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCharset(tt.in), "input %q", tt.in)
	}
}

func TestIsJSON(t *testing.T) {
	assert.True(t, IsJSON(""))
	assert.True(t, IsJSON("application/json"))
	assert.True(t, IsJSON("application/json; charset=utf-8"))
	assert.False(t, IsJSON("text/plain"))
	assert.False(t, IsJSON("application/octet-stream"))
}
