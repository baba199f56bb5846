package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	lists    map[string][]string
	captures map[string]Node
}

func (f fakeResolver) List(name string) ([]string, bool) {
	alternatives, ok := f.lists[name]
	return alternatives, ok
}

func (f fakeResolver) Capture(name string) (Node, bool) {
	node, ok := f.captures[name]
	return node, ok
}

func mustParse(t *testing.T, src string) Node {
	t.Helper()
	node, err := Parse(src)
	require.NoError(t, err)
	return node
}

func TestMatch(t *testing.T) {
	resolver := fakeResolver{
		lists: map[string][]string{
			"user.colors": {"red", "green"},
			"user.apps":   {"visual studio code", "terminal"},
		},
		captures: map[string]Node{
			"user.color": &ListRef{Name: "user.colors"},
		},
	}

	testCases := []struct {
		name      string
		rule      string
		phrase    string
		fullmatch bool
		want      bool
	}{
		{name: "exact phrase, fullmatch", rule: "hello world", phrase: "hello world", fullmatch: true, want: true},
		{name: "missing token, fullmatch", rule: "hello world", phrase: "hello", fullmatch: true, want: false},
		{name: "trailing token, fullmatch", rule: "hello world", phrase: "hello world again", fullmatch: true, want: false},
		{name: "trailing token, prefix", rule: "hello world", phrase: "hello world again", fullmatch: false, want: true},
		{name: "leading token, prefix", rule: "hello world", phrase: "say hello world", fullmatch: false, want: false},
		{name: "optional present", rule: "take [it] easy", phrase: "take it easy", fullmatch: true, want: true},
		{name: "optional absent", rule: "take [it] easy", phrase: "take easy", fullmatch: true, want: true},
		{name: "choice left", rule: "stop | go", phrase: "stop", fullmatch: true, want: true},
		{name: "choice right", rule: "stop | go", phrase: "go", fullmatch: true, want: true},
		{name: "repeat zero times", rule: "go very* fast", phrase: "go fast", fullmatch: true, want: true},
		{name: "repeat many times", rule: "go very* fast", phrase: "go very very fast", fullmatch: true, want: true},
		{name: "repeat1 needs one", rule: "go very+ fast", phrase: "go fast", fullmatch: true, want: false},
		{name: "anchored rule", rule: "^ go $", phrase: "go", fullmatch: true, want: true},
		{name: "end anchor rejects suffix", rule: "go $", phrase: "go home", fullmatch: false, want: false},
		{name: "list alternative", rule: "paint {user.colors}", phrase: "paint green", fullmatch: true, want: true},
		{name: "list rejects unknown form", rule: "paint {user.colors}", phrase: "paint blue", fullmatch: true, want: false},
		{name: "multi-word list alternative", rule: "focus {user.apps}", phrase: "focus visual studio code", fullmatch: true, want: true},
		{name: "capture resolves its rule", rule: "bar <user.color>", phrase: "bar red", fullmatch: true, want: true},
		{name: "unresolvable list", rule: "paint {user.missing}", phrase: "paint red", fullmatch: false, want: false},
		{name: "unresolvable capture", rule: "bar <user.missing>", phrase: "bar red", fullmatch: false, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node := mustParse(t, tc.rule)
			got := Match(strings.Fields(tc.phrase), node, tc.fullmatch, resolver)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatch_EmptyPhrase(t *testing.T) {
	resolver := fakeResolver{}

	t.Run("optional-only rule matches nothing", func(t *testing.T) {
		node := mustParse(t, "[please]")
		assert.True(t, Match(nil, node, true, resolver))
	})

	t.Run("word rule does not", func(t *testing.T) {
		node := mustParse(t, "please")
		assert.False(t, Match(nil, node, false, resolver))
	})
}
