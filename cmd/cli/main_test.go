package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, io.Discard, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ExportsKnowledgeBase(t *testing.T) {
	tempDir := t.TempDir()
	declarations := `
local mod = voice.module("Test module.")
mod:list("user.colors", { values = { "red" } })
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "mod.lua"), []byte(declarations), 0o644))

	out := &bytes.Buffer{}
	err := run(out, io.Discard, []string{tempDir})

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"user.colors"`)
	assert.Contains(t, out.String(), `"Package"`)
}

func TestRun_FindsCommands(t *testing.T) {
	tempDir := t.TempDir()
	binding := `
command "hello world" {
  script = "key(\"h\")"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "main.voice"), []byte(binding), 0o644))

	out := &bytes.Buffer{}
	err := run(out, io.Discard, []string{"-find", "hello world", "-fullmatch", tempDir})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "Press h.")
}
