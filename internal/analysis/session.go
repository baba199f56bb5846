// Package analysis walks a voice-command package and fills a registry with
// everything its files declare.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/voxkit/voxdoc/internal/analysis/luadecl"
	"github.com/voxkit/voxdoc/internal/analysis/voicefile"
	"github.com/voxkit/voxdoc/internal/ctxlog"
	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/fsutil"
	"github.com/voxkit/voxdoc/internal/registry"
)

// Session analyses one package. It owns the registry focus for its duration
// and the interpreters that keep declared functions callable afterwards.
type Session struct {
	reg    *registry.Registry
	name   string
	root   string
	strict bool

	states []*lua.LState
}

// NewSession prepares an analysis of the package rooted at root. The name
// becomes the namespace prefix of every file in the package.
func NewSession(reg *registry.Registry, name, root string, strict bool) *Session {
	return &Session{reg: reg, name: name, root: filepath.Clean(root), strict: strict}
}

// Analyze walks the package and registers everything its files declare.
// Files are visited in sorted order, declarations first, so bindings can
// reference same-package declarations. Per-file failures are logged and
// skipped unless the session is strict.
func (s *Session) Analyze(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	s.reg.Activate()
	defer s.reg.Deactivate()
	defer s.reg.ClearActiveFocus()

	pkg := &entry.Package{
		Name:     s.name,
		Location: entry.Location{Path: s.root},
	}
	if _, err := s.reg.Register(pkg); err != nil {
		return err
	}

	paths, err := fsutil.FindFilesByExtension(s.root, ".lua", ".voice")
	if err != nil {
		return fmt.Errorf("walking package %s: %w", s.name, err)
	}
	logger.Debug("Discovered package files.", "package", s.name, "count", len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.analyzeFile(ctx, path); err != nil {
			if s.strict {
				return err
			}
			logger.Warn("Skipping file after analysis failure.", "error", err)
		}
	}
	return nil
}

func (s *Session) analyzeFile(ctx context.Context, path string) error {
	defer s.reg.ClearActiveFile()

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	switch {
	case strings.HasSuffix(path, ".lua"):
		L, err := luadecl.Analyze(ctx, s.reg, path, rel)
		if err != nil {
			return err
		}
		s.states = append(s.states, L)
		return nil
	case strings.HasSuffix(path, ".voice"):
		return voicefile.Analyze(ctx, s.reg, path, rel)
	default:
		return nil
	}
}

// Close shuts down the interpreters. Declared functions stop being callable.
func (s *Session) Close() {
	for _, L := range s.states {
		L.Close()
	}
	s.states = nil
}
