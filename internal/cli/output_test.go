package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad flag")
	assert.Equal(t, "bad flag", err.Error())
	assert.Equal(t, ExitCommandError, err.Code)
}

func TestExitError_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitFailure, "failed to open database", cause)

	assert.Contains(t, err.Error(), "failed to open database")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	// Wrapped ExitError is still found.
	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestPrintResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string]int{"count": 3}

	err := printResult(&buf, "json", payload, func(w io.Writer) {
		t.Error("text renderer must not run for json format")
	})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["count"])
}

func TestPrintResult_Text(t *testing.T) {
	var buf bytes.Buffer

	err := printResult(&buf, "text", nil, func(w io.Writer) {
		fmt.Fprintf(w, "a\tbb\n")
		fmt.Fprintf(w, "ccc\td\n")
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "ccc")
	assert.NotContains(t, out, "\t", "tabwriter should align columns with spaces")
}
