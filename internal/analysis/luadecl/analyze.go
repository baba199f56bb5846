package luadecl

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/voxkit/voxdoc/internal/ctxlog"
	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/registry"
)

// Analyze executes one declaration file against the registry's active
// package and records everything it declares. The returned interpreter must
// stay open for as long as the captured functions may be called; the caller
// owns closing it.
func Analyze(ctx context.Context, reg *registry.Registry, path, relPath string) (*lua.LState, error) {
	logger := ctxlog.FromContext(ctx)

	pkg, err := reg.ActivePackage()
	if err != nil {
		return nil, err
	}

	file := &entry.File{
		Location: entry.Location{Path: relPath},
		Package:  pkg.Name,
	}
	if _, err := reg.Register(file); err != nil {
		return nil, err
	}

	L := newState()
	sh := &shim{reg: reg, relPath: relPath}
	L.SetGlobal("voice", sh.voiceTable(L))

	logger.Debug("Executing declaration file.", "path", relPath)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("executing %s: %w", relPath, err)
	}
	return L, nil
}

// newState builds the sandboxed interpreter: base, table, string and math
// libraries only. No io, os, debug or package.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	return L
}
