package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocstring(t *testing.T) {
	t.Run("returns-style docstring becomes a value", func(t *testing.T) {
		desc := FromDocstring("Returns the current selection")
		assert.Equal(t, &Value{Text: "Returns the current selection"}, desc)
	})

	t.Run("lowercase return is accepted", func(t *testing.T) {
		desc := FromDocstring("returns the word under the cursor")
		assert.Equal(t, &Value{Text: "returns the word under the cursor"}, desc)
	})

	t.Run("short description with parameters becomes a template", func(t *testing.T) {
		desc := FromDocstring("Bar the <x>.\n\nArgs:\n  x: The thing to bar.")
		require.IsType(t, &Template{}, desc)

		template := desc.(*Template)
		assert.Equal(t, "Bar the <x>.", template.Text)
		assert.Equal(t, []string{"x"}, template.Params)
	})

	t.Run("typed parameters keep only the name", func(t *testing.T) {
		desc := FromDocstring("Move <n> lines.\n\nArgs:\n  n (int): How far to move.")
		require.IsType(t, &Template{}, desc)
		assert.Equal(t, []string{"n"}, desc.(*Template).Params)
	})

	t.Run("documented return value becomes a value", func(t *testing.T) {
		desc := FromDocstring("\nReturns:\n  The active window title.")
		assert.Equal(t, &Value{Text: "The active window title."}, desc)
	})

	t.Run("plain docstring becomes one step per line", func(t *testing.T) {
		desc := FromDocstring("Line one\nLine two")
		assert.Equal(t, &Steps{Steps: []Step{{Text: "Line one"}, {Text: "Line two"}}}, desc)
	})

	t.Run("single plain line stays a step", func(t *testing.T) {
		desc := FromDocstring("Copy the current selection.")
		assert.Equal(t, &Step{Text: "Copy the current selection."}, desc)
	})

	t.Run("empty docstring yields nothing", func(t *testing.T) {
		assert.Nil(t, FromDocstring("   "))
	})
}
