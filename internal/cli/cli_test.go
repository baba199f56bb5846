package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		config, shouldExit, err := Parse(nil, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, config)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("help flag exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, shouldExit, err := Parse([]string{"-h"}, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
	})

	t.Run("positional package path", func(t *testing.T) {
		config, shouldExit, err := Parse([]string{"./pkg"}, &bytes.Buffer{})

		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "./pkg", config.PackagePath)
		assert.Equal(t, "user", config.PackageName)
		assert.Equal(t, "text", config.LogFormat)
		assert.Equal(t, "info", config.LogLevel)
	})

	t.Run("flags populate the config", func(t *testing.T) {
		args := []string{
			"-p", "./pkg",
			"-name", "knausj",
			"-find", "hello world",
			"-fullmatch",
			"-strict",
			"-output", "kb.json",
			"-log-level", "debug",
		}
		config, shouldExit, err := Parse(args, &bytes.Buffer{})

		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "./pkg", config.PackagePath)
		assert.Equal(t, "knausj", config.PackageName)
		assert.Equal(t, "hello world", config.Find)
		assert.True(t, config.FullMatch)
		assert.True(t, config.Strict)
		assert.Equal(t, "kb.json", config.Output)
		assert.Equal(t, "debug", config.LogLevel)
	})

	t.Run("invalid log level is an exit error", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-level", "loud", "./pkg"}, &bytes.Buffer{})
		require.Error(t, err)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log format is an exit error", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-format", "xml", "./pkg"}, &bytes.Buffer{})
		require.Error(t, err)

		var exitErr *ExitError
		assert.True(t, errors.As(err, &exitErr))
	})

	t.Run("unknown flag is an exit error", func(t *testing.T) {
		_, _, err := Parse([]string{"-bogus"}, &bytes.Buffer{})
		require.Error(t, err)

		var exitErr *ExitError
		assert.True(t, errors.As(err, &exitErr))
	})
}
