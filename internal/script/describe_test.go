package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	luaast "github.com/yuin/gopher-lua/ast"
	luaparse "github.com/yuin/gopher-lua/parse"

	"github.com/voxkit/voxdoc/internal/entry"
)

type fakeActions map[string]string

func (f fakeActions) ActionDocstring(name string) (string, bool) {
	doc, ok := f[name]
	return doc, ok
}

func parseScript(t *testing.T, src string) []luaast.Stmt {
	t.Helper()
	stmts, err := luaparse.Parse(strings.NewReader(src), "script")
	require.NoError(t, err)
	return stmts
}

func TestDescribeScript(t *testing.T) {
	actions := fakeActions{
		"user.bar":   "Bar the <x>.\n\nArgs:\n  x: The thing to bar.",
		"user.fetch": "Returns the fetched value",
		"edit.copy":  "Copy the current selection.",
	}
	describer := NewDescriber(actions)

	t.Run("template interpolates folded arguments", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "user.bar(y)"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bar the y."}, desc.Lines())
	})

	t.Run("string argument interpolates its text", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, `user.bar("it")`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bar the it."}, desc.Lines())
	})

	t.Run("nested call interpolates its value", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "user.bar(user.fetch())"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bar the Returns the fetched value."}, desc.Lines())
	})

	t.Run("key presses fold to a step", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, `key("ctrl-c")`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Press ctrl-c."}, desc.Lines())
	})

	t.Run("sleeps say nothing", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "sleep(100)\nuser.bar(y)"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bar the y."}, desc.Lines())
	})

	t.Run("assignments fold to let-steps", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "local x = 5"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Let <x> be 5"}, desc.Lines())
	})

	t.Run("return folds its expression", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, `return "hello"`))
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, desc.Lines())
	})

	t.Run("undocumented action yields nothing", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "user.unknown()"))
		require.NoError(t, err)
		assert.Nil(t, desc)
	})

	t.Run("multi-line argument fails interpolation", func(t *testing.T) {
		multiLine := fakeActions{
			"user.bar":   actions["user.bar"],
			"user.steps": "Line one\nLine two",
		}
		_, err := NewDescriber(multiLine).DescribeScript(parseScript(t, "user.bar(user.steps())"))
		require.Error(t, err)
	})

	t.Run("consecutive steps stack", func(t *testing.T) {
		desc, err := describer.DescribeScript(parseScript(t, "edit.copy()\nkey(\"ctrl-v\")"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Copy the current selection.", "Press ctrl-v."}, desc.Lines())
	})
}

func TestDescribeCommand(t *testing.T) {
	actions := fakeActions{
		"user.bar": "Bar the <x>.\n\nArgs:\n  x: The thing to bar.",
	}

	command := func(t *testing.T, script, description string) *entry.Command {
		t.Helper()
		return &entry.Command{
			RuleSource:   "bar",
			ScriptSource: script,
			Description:  description,
			Script:       parseScript(t, script),
		}
	}

	t.Run("explicit description wins", func(t *testing.T) {
		cmd := command(t, "user.bar(y)", "Does the thing.")
		assert.Equal(t, "Does the thing.", DescribeCommand(cmd, actions))
	})

	t.Run("folded description otherwise", func(t *testing.T) {
		cmd := command(t, "user.bar(y)", "")
		assert.Equal(t, "Bar the y.", DescribeCommand(cmd, actions))
	})

	t.Run("raw script when no description can be folded", func(t *testing.T) {
		cmd := command(t, "user.unknown()\n", "")
		assert.Equal(t, "user.unknown()", DescribeCommand(cmd, actions))
	})
}
