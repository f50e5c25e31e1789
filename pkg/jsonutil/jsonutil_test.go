package jsonutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name     string         `json:"name"`
	Severity string         `json:"severity"`
	Counts   map[string]int `json:"counts"`
	Tags     []string       `json:"tags"`
}

func TestMarshal_Deterministic(t *testing.T) {
	t.Parallel()

	v := record{Name: "libfoo", Counts: map[string]int{"Low": 1, "Critical": 2, "High": 3}}
	first, err := Marshal(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Contains(t, string(first), `"counts":{"Critical":2,"High":3,"Low":1}`)
	assert.Contains(t, string(first), `"tags":[]`)
}

func TestMarshalIndent(t *testing.T) {
	t.Parallel()

	data, err := MarshalIndent(map[string]int{"b": 1, "a": 2}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}", string(data))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, record{Name: "x"}))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
	assert.True(t, Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestWriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.json")
	in := record{Name: "libfoo", Severity: "High", Counts: map[string]int{"High": 1}, Tags: []string{"npm"}}
	require.NoError(t, WriteFile(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out record
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid([]byte(`{"a":1}`)))
	assert.False(t, Valid([]byte(`{"a":`)))
}
