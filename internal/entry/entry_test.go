package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestLocation_String(t *testing.T) {
	testCases := []struct {
		name string
		loc  Location
		want string
	}{
		{name: "path only", loc: Location{Path: "a.lua"}, want: "a.lua"},
		{name: "line", loc: Location{Path: "a.lua", StartLine: 3}, want: "a.lua:3"},
		{name: "line and column", loc: Location{Path: "a.lua", StartLine: 3, StartColumn: 7}, want: "a.lua:3:7"},
		{
			name: "full span",
			loc:  Location{Path: "a.voice", StartLine: 3, StartColumn: 7, EndLine: 4, EndColumn: 1},
			want: "a.voice:3:7-4:1",
		},
		{name: "builtin", loc: BuiltinLocation(), want: "builtin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc.String())
		})
	}
}

func TestLocation_JSON(t *testing.T) {
	t.Run("builtin encodes as a literal string", func(t *testing.T) {
		data, err := json.Marshal(BuiltinLocation())
		require.NoError(t, err)
		assert.Equal(t, `"builtin"`, string(data))

		var loc Location
		require.NoError(t, json.Unmarshal(data, &loc))
		assert.True(t, loc.Builtin())
	})

	t.Run("source locations round-trip as objects", func(t *testing.T) {
		loc := Location{Path: "a.lua", StartLine: 3, StartColumn: 7}
		data, err := json.Marshal(loc)
		require.NoError(t, err)

		var back Location
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, loc, back)
		assert.False(t, back.Builtin())
	})

	t.Run("other literal strings are rejected", func(t *testing.T) {
		var loc Location
		assert.Error(t, json.Unmarshal([]byte(`"elsewhere"`), &loc))
	})
}

func TestDerivedNames(t *testing.T) {
	file := &File{Location: Location{Path: "apps/code.voice"}, Package: "user"}
	assert.Equal(t, "user.apps.code.voice", file.EntryName())

	mod := &Module{Index: 0, File: file.EntryName()}
	assert.Equal(t, "user.apps.code.voice.module.0", mod.EntryName())

	ctx := &Context{Index: 1, File: file.EntryName()}
	assert.Equal(t, "user.apps.code.voice.context.1", ctx.EntryName())

	cmd := &Command{Index: 2, Context: ctx.EntryName()}
	assert.Equal(t, "user.apps.code.voice.context.1.command.2", cmd.EntryName())
}

func TestMatchesFromMap_SortedByKey(t *testing.T) {
	matches := MatchesFromMap(map[string]string{
		"os":       "linux",
		"app.name": "Code",
	})
	assert.Equal(t, []Match{
		{Key: "app.name", Pattern: "Code"},
		{Key: "os", Pattern: "linux"},
	}, matches)

	assert.Nil(t, MatchesFromMap(nil))
}

func TestSpokenForms(t *testing.T) {
	t.Run("object keys, sorted", func(t *testing.T) {
		v := cty.ObjectVal(map[string]cty.Value{
			"red":   cty.StringVal("#f00"),
			"green": cty.StringVal("#0f0"),
		})
		assert.Equal(t, []string{"green", "red"}, SpokenForms(v))
	})

	t.Run("tuple elements in order", func(t *testing.T) {
		v := cty.TupleVal([]cty.Value{cty.StringVal("red"), cty.StringVal("green")})
		assert.Equal(t, []string{"red", "green"}, SpokenForms(v))
	})

	t.Run("single string", func(t *testing.T) {
		assert.Equal(t, []string{"red"}, SpokenForms(cty.StringVal("red")))
	})

	t.Run("null has no forms", func(t *testing.T) {
		assert.Nil(t, SpokenForms(cty.NullVal(cty.DynamicPseudoType)))
	})
}

func TestJSONValue_RoundTrip(t *testing.T) {
	t.Run("absent value stays null", func(t *testing.T) {
		data, err := json.Marshal(NullValue())
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var back JSONValue
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Value.IsNull())
	})

	t.Run("concrete value implies its type", func(t *testing.T) {
		data, err := json.Marshal(WrapValue(cty.NumberIntVal(2)))
		require.NoError(t, err)
		assert.Equal(t, "2", string(data))

		var back JSONValue
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, cty.NumberIntVal(2).RawEquals(back.Value))
	})
}

func TestGroupRoles(t *testing.T) {
	declaration := &Action{GroupCommon: GroupCommon{Name: "user.bar", ParentKind: KindModule}}
	override := &Action{GroupCommon: GroupCommon{Name: "user.bar", ParentKind: KindContext}}

	assert.True(t, declaration.IsDeclaration())
	assert.False(t, override.IsDeclaration())
}
