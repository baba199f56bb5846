package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/registry"
	"github.com/voxkit/voxdoc/internal/script"
)

const declarationFile = `
local mod = voice.module("Bar module.")

mod:action("self.bar", {
  desc = "Bar the <x>.\n\nArgs:\n  x: The thing to bar.",
  impl = function(x) return x end,
})

mod:list("user.colors", {
  desc = "Color names.",
  values = { "red", "green" },
})

mod:capture("user.color", { rule = "{user.colors}" })

mod:tag("user.terminal", "Terminal is focused.")

voice.register("ready", function() return "ready" end)
`

const bindingFile = `
description = "VS Code bindings"

matches = {
  "app.name" = "Code"
}

settings = {
  "user.speed" = 2
}

command "bar {user.colors}" {
  script = "user.bar(y)"
}

command "copy that" {
  script      = "edit.copy()"
  description = "Copies the selection."
}
`

func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestSession_Analyze(t *testing.T) {
	root := writePackage(t, map[string]string{
		"bar.lua":    declarationFile,
		"code.voice": bindingFile,
	})

	reg := registry.New()
	session := NewSession(reg, "user", root, false)
	defer session.Close()
	require.NoError(t, session.Analyze(context.Background()))

	t.Run("files register under the package namespace", func(t *testing.T) {
		for _, name := range []string{"user.bar.lua", "user.code.voice"} {
			_, ok := reg.Lookup(entry.KindFile, name)
			assert.True(t, ok, "missing file %s", name)
		}
	})

	t.Run("self names resolve to the package", func(t *testing.T) {
		def := reg.LookupDefault(entry.KindAction, "user.bar")
		require.NotNil(t, def)
		assert.True(t, def.IsDeclaration())
	})

	t.Run("declared functions stay callable", func(t *testing.T) {
		call, ok := reg.LookupDefaultFunction(entry.KindAction, "user.bar")
		require.True(t, ok)

		ret, err := call(lua.LString("hi"))
		require.NoError(t, err)
		assert.Equal(t, lua.LString("hi"), ret)
	})

	t.Run("arity mismatches are rejected", func(t *testing.T) {
		call, ok := reg.LookupDefaultFunction(entry.KindAction, "user.bar")
		require.True(t, ok)

		_, err := call()
		assert.Error(t, err)
	})

	t.Run("binding context carries its matches", func(t *testing.T) {
		d, ok := reg.Lookup(entry.KindContext, "user.code.voice.context.0")
		require.True(t, ok)

		ctx := d.(*entry.Context)
		assert.Equal(t, []entry.Match{{Key: "app.name", Pattern: "Code"}}, ctx.Matches)
		assert.False(t, ctx.AlwaysOn())
		assert.Len(t, ctx.Commands, 2)
	})

	t.Run("setting overrides attach to the binding context", func(t *testing.T) {
		group := reg.LookupGroup(entry.KindSetting, "user.speed")
		require.Len(t, group, 1)
		assert.False(t, group[0].IsDeclaration())
	})

	t.Run("commands match and describe end to end", func(t *testing.T) {
		found := reg.FindCommands([]string{"bar", "red"}, true, nil)
		require.Len(t, found, 1)
		assert.Equal(t, "Bar the y.", script.DescribeCommand(found[0], reg))

		found = reg.FindCommands([]string{"copy", "that"}, true, nil)
		require.Len(t, found, 1)
		assert.Equal(t, "Copies the selection.", script.DescribeCommand(found[0], reg))
	})

	t.Run("callbacks register under their event code", func(t *testing.T) {
		callbacks := reg.Callbacks("ready")
		require.Len(t, callbacks, 1)

		ret, err := callbacks[0].Call()
		require.NoError(t, err)
		assert.Equal(t, lua.LString("ready"), ret)
	})

	t.Run("tags register against the module", func(t *testing.T) {
		d, ok := reg.Lookup(entry.KindTag, "user.terminal")
		require.True(t, ok)
		assert.Equal(t, "user.bar.lua.module.0", d.(*entry.Tag).Module)
	})

	t.Run("focus is cleared after analysis", func(t *testing.T) {
		_, err := reg.ActivePackage()
		assert.ErrorIs(t, err, registry.ErrNoActivePackage)
		_, err = registry.Current()
		assert.ErrorIs(t, err, registry.ErrNoActiveRegistry)
	})
}

func TestSession_PartialFailure(t *testing.T) {
	files := map[string]string{
		"broken.lua": "this is not lua (",
		"ok.voice":   `command "stop" { script = "key(\"escape\")" }`,
	}

	t.Run("default mode skips the broken file", func(t *testing.T) {
		reg := registry.New()
		session := NewSession(reg, "user", writePackage(t, files), false)
		defer session.Close()

		require.NoError(t, session.Analyze(context.Background()))
		assert.Len(t, reg.FindCommands([]string{"stop"}, true, nil), 1)
	})

	t.Run("strict mode aborts", func(t *testing.T) {
		reg := registry.New(registry.WithStrict(true))
		session := NewSession(reg, "user", writePackage(t, files), true)
		defer session.Close()

		assert.Error(t, session.Analyze(context.Background()))
	})
}
