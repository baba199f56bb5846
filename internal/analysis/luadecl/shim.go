package luadecl

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/registry"
	"github.com/voxkit/voxdoc/internal/rule"
)

// shim is the state behind the global "voice" table of one declaration file.
type shim struct {
	reg     *registry.Registry
	relPath string
}

func (s *shim) voiceTable(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetFuncs(t, map[string]lua.LGFunction{
		"module":   s.declareModule,
		"context":  s.declareContext,
		"register": s.declareCallback,
	})
	return t
}

// declareModule records a Module and returns its declaration scope.
//
//	local mod = voice.module("Bar actions.")
func (s *shim) declareModule(L *lua.LState) int {
	desc := L.OptString(1, "")
	file, err := s.reg.ActiveFile()
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	mod := &entry.Module{
		Index:       len(file.Modules),
		Description: desc,
		Location:    s.callerLocation(L),
		File:        file.EntryName(),
	}
	stored, err := s.reg.Register(mod)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	L.Push(s.scopeTable(L, stored.EntryName(), entry.KindModule))
	return 1
}

// declareContext records a Context and returns its override scope.
//
//	local ctx = voice.context({ desc = "...", matches = { ["app.name"] = "Code" } })
func (s *shim) declareContext(L *lua.LState) int {
	spec := L.OptTable(1, L.NewTable())
	file, err := s.reg.ActiveFile()
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	matches := make(map[string]string)
	if tbl, ok := spec.RawGetString("matches").(*lua.LTable); ok {
		tbl.ForEach(func(key, value lua.LValue) {
			matches[key.String()] = value.String()
		})
	}
	ctx := &entry.Context{
		Matches:     entry.MatchesFromMap(matches),
		Index:       len(file.Contexts),
		Description: lua.LVAsString(spec.RawGetString("desc")),
		Location:    s.callerLocation(L),
		File:        file.EntryName(),
	}
	stored, err := s.reg.Register(ctx)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	L.Push(s.scopeTable(L, stored.EntryName(), entry.KindContext))
	return 1
}

// declareCallback records a Callback against a runtime event code.
//
//	voice.register("ready", function() ... end)
func (s *shim) declareCallback(L *lua.LState) int {
	event := L.CheckString(1)
	fn := L.CheckFunction(2)
	file, err := s.reg.ActiveFile()
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	loc := s.callerLocation(L)
	cb := &entry.Callback{
		EventCode: event,
		FuncName:  fmt.Sprintf("%s.%d", event, loc.StartLine),
		Call:      callClosure(L, fn),
		Location:  loc,
		File:      file.EntryName(),
	}
	if _, err := s.reg.Register(cb); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (s *shim) scopeTable(L *lua.LState, parent string, kind entry.Kind) *lua.LTable {
	sc := &scope{shim: s, parent: parent, kind: kind}
	fns := map[string]lua.LGFunction{
		"action":       sc.declareAction,
		"action_class": sc.declareActionClass,
		"capture":      sc.declareCapture,
		"list":         sc.declareList,
		"setting":      sc.declareSetting,
	}
	if kind == entry.KindModule {
		// Modes and tags are declared, never overridden.
		fns["mode"] = sc.declareMode
		fns["tag"] = sc.declareTag
	}
	t := L.NewTable()
	L.SetFuncs(t, fns)
	return t
}

// callerLocation resolves the line of the Lua call that is currently
// executing the shim.
func (s *shim) callerLocation(L *lua.LState) entry.Location {
	loc := entry.Location{Path: s.relPath}
	if dbg, ok := L.GetStack(1); ok {
		if _, err := L.GetInfo("l", dbg, lua.LNil); err == nil {
			loc.StartLine = dbg.CurrentLine
		}
	}
	return loc
}

// scope is a module or context declaration scope. Methods are colon-called,
// so argument 1 is the scope table itself.
type scope struct {
	shim   *shim
	parent string
	kind   entry.Kind
}

// declareAction records one action.
//
//	mod:action("user.bar", { desc = "Bar the <x>. ...", impl = function(x) ... end })
func (sc *scope) declareAction(L *lua.LState) int {
	name := L.CheckString(2)
	spec := L.OptTable(3, L.NewTable())
	if err := sc.registerAction(L, name, spec); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// declareActionClass records one action per entry of a class table, named
// under a shared namespace.
//
//	mod:action_class("user", { bar = { desc = "...", impl = ... }, ... })
func (sc *scope) declareActionClass(L *lua.LState) int {
	namespace := L.CheckString(2)
	class := L.CheckTable(3)

	var names []string
	specs := make(map[string]*lua.LTable)
	class.ForEach(func(key, value lua.LValue) {
		if spec, ok := value.(*lua.LTable); ok {
			names = append(names, key.String())
			specs[key.String()] = spec
		}
	})
	sort.Strings(names)

	for _, name := range names {
		if err := sc.registerAction(L, namespace+"."+name, specs[name]); err != nil {
			L.RaiseError("%s", err)
			return 0
		}
	}
	return 0
}

func (sc *scope) registerAction(L *lua.LState, name string, spec *lua.LTable) error {
	resolved, err := sc.shim.reg.ResolveName(name)
	if err != nil {
		return err
	}
	loc := sc.shim.callerLocation(L)
	action := &entry.Action{
		GroupCommon: entry.GroupCommon{
			Name:        resolved,
			Description: lua.LVAsString(spec.RawGetString("desc")),
			Location:    loc,
			ParentName:  sc.parent,
			ParentKind:  sc.kind,
		},
		Params: stringList(spec.RawGetString("params")),
	}
	if fn, ok := spec.RawGetString("impl").(*lua.LFunction); ok {
		funcName, err := sc.registerFunction(L, resolved, fn, loc)
		if err != nil {
			return err
		}
		action.Function = funcName
	}
	_, err = sc.shim.reg.Register(action)
	return err
}

// declareCapture records one capture. The rule is parsed eagerly so broken
// declarations fail their file.
//
//	mod:capture("user.color", { rule = "{user.colors}", impl = function(words) ... end })
func (sc *scope) declareCapture(L *lua.LState) int {
	name := L.CheckString(2)
	spec := L.OptTable(3, L.NewTable())

	resolved, err := sc.shim.reg.ResolveName(name)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	loc := sc.shim.callerLocation(L)
	capture := &entry.Capture{
		GroupCommon: entry.GroupCommon{
			Name:        resolved,
			Description: lua.LVAsString(spec.RawGetString("desc")),
			Location:    loc,
			ParentName:  sc.parent,
			ParentKind:  sc.kind,
		},
		RuleSource: lua.LVAsString(spec.RawGetString("rule")),
		Params:     stringList(spec.RawGetString("params")),
	}
	if capture.RuleSource != "" {
		parsed, err := rule.Parse(capture.RuleSource)
		if err != nil {
			L.RaiseError("capture %s: %s", resolved, err)
			return 0
		}
		capture.Rule = parsed
	}
	if fn, ok := spec.RawGetString("impl").(*lua.LFunction); ok {
		funcName, err := sc.registerFunction(L, resolved, fn, loc)
		if err != nil {
			L.RaiseError("%s", err)
			return 0
		}
		capture.Function = funcName
	}
	if _, err := sc.shim.reg.Register(capture); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// declareList records one list. Declarations may omit values; overrides
// usually carry them.
//
//	mod:list("user.colors", { desc = "Color names.", values = { red = "#f00" } })
func (sc *scope) declareList(L *lua.LState) int {
	name := L.CheckString(2)
	spec := L.OptTable(3, L.NewTable())

	resolved, err := sc.shim.reg.ResolveName(name)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	list := &entry.List{
		GroupCommon: entry.GroupCommon{
			Name:        resolved,
			Description: lua.LVAsString(spec.RawGetString("desc")),
			Location:    sc.shim.callerLocation(L),
			ParentName:  sc.parent,
			ParentKind:  sc.kind,
		},
		Value:    entry.NullValue(),
		TypeHint: lua.LVAsString(spec.RawGetString("type")),
	}
	if values := spec.RawGetString("values"); values != lua.LNil {
		list.Value = entry.WrapValue(toCty(values))
	}
	if _, err := sc.shim.reg.Register(list); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// declareSetting records one setting. A declaration passes a spec table with
// type, default and desc; an override passes the value directly.
//
//	mod:setting("user.speed", { type = "number", default = 1, desc = "..." })
//	ctx:setting("user.speed", 2)
func (sc *scope) declareSetting(L *lua.LState) int {
	name := L.CheckString(2)
	raw := L.Get(3)

	resolved, err := sc.shim.reg.ResolveName(name)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	setting := &entry.Setting{
		GroupCommon: entry.GroupCommon{
			Name:       resolved,
			Location:   sc.shim.callerLocation(L),
			ParentName: sc.parent,
			ParentKind: sc.kind,
		},
		Value: entry.NullValue(),
	}
	if spec, ok := raw.(*lua.LTable); ok && isSettingSpec(spec) {
		setting.Description = lua.LVAsString(spec.RawGetString("desc"))
		setting.TypeHint = lua.LVAsString(spec.RawGetString("type"))
		if def := spec.RawGetString("default"); def != lua.LNil {
			setting.Value = entry.WrapValue(toCty(def))
		}
	} else if raw != lua.LNil {
		setting.Value = entry.WrapValue(toCty(raw))
	}
	if _, err := sc.shim.reg.Register(setting); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// isSettingSpec distinguishes a declaration spec from a table-valued
// override.
func isSettingSpec(t *lua.LTable) bool {
	return t.RawGetString("default") != lua.LNil ||
		t.RawGetString("type") != lua.LNil ||
		t.RawGetString("desc") != lua.LNil
}

func (sc *scope) declareMode(L *lua.LState) int {
	return sc.declareToggle(L, func(name, desc string, loc entry.Location) entry.Data {
		return &entry.Mode{Name: name, Description: desc, Location: loc, Module: sc.parent}
	})
}

func (sc *scope) declareTag(L *lua.LState) int {
	return sc.declareToggle(L, func(name, desc string, loc entry.Location) entry.Data {
		return &entry.Tag{Name: name, Description: desc, Location: loc, Module: sc.parent}
	})
}

func (sc *scope) declareToggle(L *lua.LState, build func(name, desc string, loc entry.Location) entry.Data) int {
	name := L.CheckString(2)
	desc := L.OptString(3, "")

	resolved, err := sc.shim.reg.ResolveName(name)
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	if _, err := sc.shim.reg.Register(build(resolved, desc, sc.shim.callerLocation(L))); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (sc *scope) registerFunction(L *lua.LState, name string, fn *lua.LFunction, loc entry.Location) (string, error) {
	f := &entry.Function{
		FuncName:   name,
		Namespace:  sc.parent,
		Params:     numParams(fn),
		Call:       callClosure(L, fn),
		Location:   loc,
		ParentName: sc.parent,
		ParentKind: sc.kind,
	}
	stored, err := sc.shim.reg.Register(f)
	if err != nil {
		return "", err
	}
	return stored.EntryName(), nil
}

func numParams(fn *lua.LFunction) int {
	if fn.Proto == nil {
		return 0
	}
	return int(fn.Proto.NumParameters)
}

// callClosure keeps a declared function callable after its file finished
// executing. It is only valid while the interpreter stays open.
func callClosure(L *lua.LState, fn *lua.LFunction) entry.CallFunc {
	return func(args ...lua.LValue) (lua.LValue, error) {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return lua.LNil, err
		}
		ret := L.Get(-1)
		L.Pop(1)
		return ret, nil
	}
}

// stringList converts a Lua array of strings; anything else yields nil.
func stringList(lv lua.LValue) []string {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return nil
	}
	n := tbl.Len()
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, tbl.RawGetInt(i).String())
	}
	return out
}
