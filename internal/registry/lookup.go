package registry

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/voxkit/voxdoc/internal/entry"
)

// Lookup returns the simple entry registered under a name, resolving the
// "self." prefix against the active package when one is set.
func (r *Registry) Lookup(kind entry.Kind, name string) (entry.SimpleData, bool) {
	d, ok := r.simpleStore(kind)[r.resolveNameQuiet(name)]
	return d, ok
}

// LookupGroup returns every grouped entry registered under a name, in
// registration order: the declaration (if any) plus all overrides.
func (r *Registry) LookupGroup(kind entry.Kind, name string) []entry.GroupData {
	return r.groupStore(kind)[r.resolveNameQuiet(name)]
}

// LookupDefault resolves the documentation default for a grouped name: the
// module-scoped declaration when one exists, otherwise the first override
// whose context is always on, otherwise nil. Conditioned overrides never
// become the default.
func (r *Registry) LookupDefault(kind entry.Kind, name string) entry.GroupData {
	group := r.LookupGroup(kind, name)
	for _, d := range group {
		if d.IsDeclaration() {
			return d
		}
	}
	var alwaysOn []entry.GroupData
	for _, d := range group {
		parent, parentKind := d.Parent()
		if parentKind != entry.KindContext {
			continue
		}
		ctx, ok := r.Lookup(entry.KindContext, parent)
		if !ok {
			continue
		}
		if ctx.(*entry.Context).AlwaysOn() {
			alwaysOn = append(alwaysOn, d)
		}
	}
	if len(alwaysOn) == 0 {
		return nil
	}
	if len(alwaysOn) > 1 {
		r.logger.Warn("Multiple always-on overrides for undeclared name; using the first.",
			"kind", string(kind), "name", name)
	}
	return alwaysOn[0]
}

// Get resolves a reference to an entry. For grouped kinds it prefers the
// documentation default and falls back to the first registered entry. An
// unresolvable name yields an *UnknownReference carrying suggestions.
func (r *Registry) Get(kind entry.Kind, name string, referencedBy entry.Data) (entry.Data, error) {
	resolved := r.resolveNameQuiet(name)

	if slices.Contains(entry.GroupKinds, kind) {
		if d := r.LookupDefault(kind, resolved); d != nil {
			return d, nil
		}
		if group := r.LookupGroup(kind, resolved); len(group) > 0 {
			return group[0], nil
		}
		return nil, &UnknownReference{
			Kind:         kind,
			Name:         resolved,
			ReferencedBy: referencedBy,
			Known:        r.knownGroupNames(kind),
		}
	}

	for _, candidate := range lookupCandidates(kind, resolved) {
		if d, ok := r.Lookup(kind, candidate); ok {
			return d, nil
		}
	}
	return nil, &UnknownReference{
		Kind:         kind,
		Name:         resolved,
		ReferencedBy: referencedBy,
		Known:        r.knownSimpleNames(kind),
	}
}

// lookupCandidates expands a file reference into the spellings users write:
// with or without the extension, and with path separators in place of dots.
func lookupCandidates(kind entry.Kind, name string) []string {
	if kind != entry.KindFile {
		return []string{name}
	}
	candidates := []string{name, name + ".voice", name + ".lua"}
	if strings.ContainsRune(name, '/') {
		dotted := strings.ReplaceAll(name, "/", ".")
		candidates = append(candidates, dotted, dotted+".voice", dotted+".lua")
	}
	return candidates
}

func (r *Registry) knownSimpleNames(kind entry.Kind) []string {
	store := r.simpleStore(kind)
	names := make([]string, 0, len(store))
	for name := range store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) knownGroupNames(kind entry.Kind) []string {
	store := r.groupStore(kind)
	names := make([]string, 0, len(store))
	for name := range store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDefaultFunction resolves the callable behind an action or capture
// default and wraps it with an arity check. A false return means no default
// exists or the default has no live implementation.
func (r *Registry) LookupDefaultFunction(kind entry.Kind, name string) (entry.CallFunc, bool) {
	def := r.LookupDefault(kind, name)
	if def == nil {
		return nil, false
	}
	var funcName string
	switch def := def.(type) {
	case *entry.Action:
		funcName = def.Function
	case *entry.Capture:
		funcName = def.Function
	default:
		return nil, false
	}
	if funcName == "" {
		return nil, false
	}
	d, ok := r.Lookup(entry.KindFunction, funcName)
	if !ok {
		return nil, false
	}
	fn := d.(*entry.Function)
	call := func(args ...lua.LValue) (lua.LValue, error) {
		if len(args) != fn.Params {
			return lua.LNil, fmt.Errorf("%s expects %d arguments, got %d",
				fn.EntryName(), fn.Params, len(args))
		}
		return fn.Call(args...)
	}
	return call, true
}

// Callbacks returns the callbacks registered against an event code.
func (r *Registry) Callbacks(eventCode string) []*entry.Callback {
	return r.callbacks[eventCode]
}

// ActionDocstring resolves an action name to the docstring of its
// documentation default, for the script describer.
func (r *Registry) ActionDocstring(name string) (string, bool) {
	def := r.LookupDefault(entry.KindAction, name)
	if def == nil {
		return "", false
	}
	doc := def.EntryDescription()
	if doc == "" {
		return "", false
	}
	return doc, true
}
