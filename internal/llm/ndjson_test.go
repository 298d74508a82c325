package llm

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r io.Reader) []string {
	t.Helper()
	reader := NewNDJSONReader(r)
	var out []string
	for {
		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, string(raw))
	}
}

func TestNDJSONReader_OneValuePerLine(t *testing.T) {
	got := readAll(t, strings.NewReader("{\"a\":1}\n{\"b\":2}\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestNDJSONReader_SkipsMalformedAndBlankLines(t *testing.T) {
	input := "{\"a\":1}\n\n   \n{broken\n{\"b\":2}\r\nnot json at all\n"
	got := readAll(t, strings.NewReader(input))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestNDJSONReader_ParsesUnterminatedFinalLine(t *testing.T) {
	got := readAll(t, strings.NewReader("{\"a\":1}\n  {\"type\":\"end\"}  "))
	assert.Equal(t, []string{`{"a":1}`, `{"type":"end"}`}, got)
}

func TestNDJSONReader_SkipsMalformedFinalLine(t *testing.T) {
	got := readAll(t, strings.NewReader("{\"a\":1}\n{\"type\":"))
	assert.Equal(t, []string{`{"a":1}`}, got)
}

func TestNDJSONReader_HandlesSplitChunks(t *testing.T) {
	input := "{\"type\":\"token\",\"content\":\"안녕\"}\n{\"type\":\"token\",\"content\":\"하세요\"}\n"
	got := readAll(t, iotest.OneByteReader(strings.NewReader(input)))
	assert.Equal(t, []string{
		`{"type":"token","content":"안녕"}`,
		`{"type":"token","content":"하세요"}`,
	}, got)
}

func TestNDJSONReader_DropsOversizedLine(t *testing.T) {
	huge := "{\"x\":\"" + strings.Repeat("a", maxLineSize) + "\"}"
	got := readAll(t, strings.NewReader(huge+"\n{\"ok\":true}\n"))
	assert.Equal(t, []string{`{"ok":true}`}, got)
}

func TestNDJSONReader_EmptyStream(t *testing.T) {
	assert.Empty(t, readAll(t, strings.NewReader("")))
}

func TestNDJSONReader_PropagatesReadErrors(t *testing.T) {
	reader := NewNDJSONReader(iotest.ErrReader(errors.New("connection reset")))
	_, err := reader.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
