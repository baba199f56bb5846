// Package cache persists knowledge bases in the serialised registry format
// and ships the bundled builtin declarations.
package cache

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/voxkit/voxdoc/internal/ctxlog"
	"github.com/voxkit/voxdoc/internal/registry"
)

//go:embed builtins.json
var builtins []byte

// LoadBuiltins seeds a registry with the bundled builtin declarations: the
// runtime-provided actions and settings every package may reference without
// declaring them.
func LoadBuiltins(ctx context.Context, reg *registry.Registry) error {
	if err := reg.FromJSON(builtins); err != nil {
		return fmt.Errorf("loading bundled builtins: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Loaded bundled builtin declarations.")
	return nil
}

// Load reads a serialised knowledge base from disk into the registry.
func Load(ctx context.Context, reg *registry.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := reg.FromJSON(data); err != nil {
		return fmt.Errorf("loading cache %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Loaded cached declarations.", "path", path)
	return nil
}

// Save writes the registry's knowledge base to disk.
func Save(ctx context.Context, reg *registry.Registry, path string) error {
	data, err := reg.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("saving cache %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Saved knowledge base.", "path", path, "bytes", len(data))
	return nil
}
