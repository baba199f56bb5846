package entry

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/voxkit/voxdoc/internal/rule"
)

// GroupCommon carries the fields shared by all grouped entries. The parent
// kind decides whether the entry is a declaration (Module) or an override
// (Context).
type GroupCommon struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	ParentName  string   `json:"parent_name"`
	ParentKind  Kind     `json:"parent_kind"`
}

func (g *GroupCommon) EntryName() string        { return g.Name }
func (g *GroupCommon) EntryDescription() string { return g.Description }
func (g *GroupCommon) EntryLocation() Location  { return g.Location }
func (g *GroupCommon) Parent() (string, Kind)   { return g.ParentName, g.ParentKind }
func (g *GroupCommon) Serialisable() bool       { return true }
func (g *GroupCommon) IsDeclaration() bool      { return g.ParentKind == KindModule }

// Action is a named operation scripts can invoke. Its description doubles as
// the docstring the script describer folds into command descriptions.
type Action struct {
	GroupCommon
	// Function names the transient Function entry backing this action, when
	// the declaring file supplied an implementation.
	Function string `json:"function,omitempty"`
	// Params lists the declared parameter names, in order.
	Params []string `json:"params,omitempty"`
}

func (a *Action) Kind() Kind { return KindAction }

// Capture is a named, independently declared sub-rule usable from other
// rules.
type Capture struct {
	GroupCommon
	RuleSource string   `json:"rule"`
	Function   string   `json:"function,omitempty"`
	Params     []string `json:"params,omitempty"`

	Rule rule.Node `json:"-"`
}

func (c *Capture) Kind() Kind { return KindCapture }

// List is a named collection of literal alternatives usable inside a rule.
// An object value maps spoken forms to outputs; a tuple value holds the
// spoken forms directly.
type List struct {
	GroupCommon
	Value    JSONValue `json:"value"`
	TypeHint string    `json:"type,omitempty"`
}

func (l *List) Kind() Kind { return KindList }

// SpokenForms returns the list's literal alternatives.
func (l *List) SpokenForms() []string { return SpokenForms(l.Value.Value) }

// Setting is a named configuration value.
type Setting struct {
	GroupCommon
	Value    JSONValue `json:"value"`
	TypeHint string    `json:"type,omitempty"`
}

func (s *Setting) Kind() Kind { return KindSetting }

// NullValue wraps the absent value used by declarations that do not supply
// one.
func NullValue() JSONValue {
	return JSONValue{Value: cty.NullVal(cty.DynamicPseudoType)}
}

// WrapValue adapts a cty value for serialisation.
func WrapValue(v cty.Value) JSONValue {
	if v == cty.NilVal {
		return NullValue()
	}
	return JSONValue{Value: v}
}
