package entry

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	luaast "github.com/yuin/gopher-lua/ast"

	"github.com/voxkit/voxdoc/internal/rule"
)

// CallFunc invokes a callable captured from the scripting runtime. It is
// transient state: it holds a live interpreter reference and cannot be
// serialised.
type CallFunc func(args ...lua.LValue) (lua.LValue, error)

// Package is the root of an analysed source tree.
type Package struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	// Files is a back-reference list maintained by the registry.
	Files []string `json:"files"`
}

func (p *Package) EntryName() string        { return p.Name }
func (p *Package) EntryDescription() string { return "" }
func (p *Package) EntryLocation() Location  { return p.Location }
func (p *Package) Parent() (string, Kind)   { return "", "" }
func (p *Package) Kind() Kind               { return KindPackage }
func (p *Package) Serialisable() bool       { return true }
func (p *Package) simpleData()              {}

// File is one source file within a package. Its name is derived from the
// package name and the file's path relative to the package root.
type File struct {
	Location Location `json:"location"`
	Package  string   `json:"package"`
	// Modules and Contexts are back-reference lists maintained by the registry.
	Modules  []string `json:"modules"`
	Contexts []string `json:"contexts"`
}

// FileName derives the registry name of a file from its package and relative
// path: path separators map to dots.
func FileName(pkg, relPath string) string {
	return pkg + "." + strings.ReplaceAll(filepath.ToSlash(relPath), "/", ".")
}

func (f *File) EntryName() string        { return FileName(f.Package, f.Location.Path) }
func (f *File) EntryDescription() string { return "" }
func (f *File) EntryLocation() Location  { return f.Location }
func (f *File) Parent() (string, Kind)   { return f.Package, KindPackage }
func (f *File) Kind() Kind               { return KindFile }
func (f *File) Serialisable() bool       { return true }
func (f *File) simpleData()              {}

// Module is an unconditional declaration scope within a file.
type Module struct {
	Index       int      `json:"index"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	File        string   `json:"file"`
}

func (m *Module) EntryName() string        { return fmt.Sprintf("%s.module.%d", m.File, m.Index) }
func (m *Module) EntryDescription() string { return m.Description }
func (m *Module) EntryLocation() Location  { return m.Location }
func (m *Module) Parent() (string, Kind)   { return m.File, KindFile }
func (m *Module) Kind() Kind               { return KindModule }
func (m *Module) Serialisable() bool       { return true }
func (m *Module) simpleData()              {}

// Context is a conditionally active scope within a file. An empty Matches
// list means the context is always active.
type Context struct {
	Matches     []Match  `json:"matches"`
	Index       int      `json:"index"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	File        string   `json:"file"`
	// Commands is a back-reference list maintained by the registry.
	Commands []string `json:"commands"`
}

func (c *Context) EntryName() string        { return fmt.Sprintf("%s.context.%d", c.File, c.Index) }
func (c *Context) EntryDescription() string { return c.Description }
func (c *Context) EntryLocation() Location  { return c.Location }
func (c *Context) Parent() (string, Kind)   { return c.File, KindFile }
func (c *Context) Kind() Kind               { return KindContext }
func (c *Context) Serialisable() bool       { return true }
func (c *Context) simpleData()              {}

// AlwaysOn reports whether the context has no activation conditions.
func (c *Context) AlwaysOn() bool { return len(c.Matches) == 0 }

// Command binds a spoken-phrase rule to a script. The parsed forms are
// rebuilt from the source text on deserialisation.
type Command struct {
	RuleSource   string   `json:"rule"`
	ScriptSource string   `json:"script"`
	Index        int      `json:"index"`
	Description  string   `json:"description,omitempty"`
	Location     Location `json:"location"`
	Context      string   `json:"context"`

	Rule   rule.Node     `json:"-"`
	Script []luaast.Stmt `json:"-"`
}

func (c *Command) EntryName() string        { return fmt.Sprintf("%s.command.%d", c.Context, c.Index) }
func (c *Command) EntryDescription() string { return c.Description }
func (c *Command) EntryLocation() Location  { return c.Location }
func (c *Command) Parent() (string, Kind)   { return c.Context, KindContext }
func (c *Command) Kind() Kind               { return KindCommand }
func (c *Command) Serialisable() bool       { return true }
func (c *Command) simpleData()              {}

// Function is a callable declared by a scripting-language file. It is
// transient: it exists only while the interpreter that produced it is alive.
type Function struct {
	FuncName   string
	Namespace  string
	Params     int
	Call       CallFunc
	Location   Location
	ParentName string
	ParentKind Kind
}

func (f *Function) EntryName() string        { return f.Namespace + ":" + f.FuncName }
func (f *Function) EntryDescription() string { return "" }
func (f *Function) EntryLocation() Location  { return f.Location }
func (f *Function) Parent() (string, Kind)   { return f.ParentName, f.ParentKind }
func (f *Function) Kind() Kind               { return KindFunction }
func (f *Function) Serialisable() bool       { return false }
func (f *Function) simpleData()              {}

// Callback is a function registered against a runtime event code. Transient,
// like Function.
type Callback struct {
	EventCode string
	FuncName  string
	Call      CallFunc
	Location  Location
	File      string
}

func (c *Callback) EntryName() string        { return c.File + ":" + c.FuncName }
func (c *Callback) EntryDescription() string { return "" }
func (c *Callback) EntryLocation() Location  { return c.Location }
func (c *Callback) Parent() (string, Kind)   { return c.File, KindFile }
func (c *Callback) Kind() Kind               { return KindCallback }
func (c *Callback) Serialisable() bool       { return false }

// Mode is a named global state toggled by the runtime.
type Mode struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	Module      string   `json:"module"`
}

func (m *Mode) EntryName() string        { return m.Name }
func (m *Mode) EntryDescription() string { return m.Description }
func (m *Mode) EntryLocation() Location  { return m.Location }
func (m *Mode) Parent() (string, Kind)   { return m.Module, KindModule }
func (m *Mode) Kind() Kind               { return KindMode }
func (m *Mode) Serialisable() bool       { return true }
func (m *Mode) simpleData()              {}

// Tag is a named capability flag that contexts can require or provide.
type Tag struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	Module      string   `json:"module"`
}

func (t *Tag) EntryName() string        { return t.Name }
func (t *Tag) EntryDescription() string { return t.Description }
func (t *Tag) EntryLocation() Location  { return t.Location }
func (t *Tag) Parent() (string, Kind)   { return t.Module, KindModule }
func (t *Tag) Kind() Kind               { return KindTag }
func (t *Tag) Serialisable() bool       { return true }
func (t *Tag) simpleData()              {}
