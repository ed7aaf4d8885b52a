package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad flag")
	assert.Equal(t, "bad flag", err.Error())

	wrapped := WrapExitError(ExitFailure, "operation failed", errors.New("disk full"))
	assert.Equal(t, "operation failed: disk full", wrapped.Error())
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := errors.New("disk full")
	err := WrapExitError(ExitFailure, "operation failed", underlying)
	assert.ErrorIs(t, err, underlying)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))

	// Wrapped ExitErrors are still found
	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "x"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	// Plain errors default to failure
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Print("hello", map[string]int{"n": 1}))
	assert.Equal(t, "hello\n", buf.String())
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Print("ignored", map[string]int{"n": 1}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]int{"n": 1}, decoded)
	assert.NotContains(t, buf.String(), "ignored")
}
