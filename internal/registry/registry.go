package registry

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/voxkit/voxdoc/internal/entry"
)

// Registry owns every entry produced by an analysis. Entries are registered
// once and never mutated afterwards, except for the back-reference lists the
// registry itself maintains on parents.
type Registry struct {
	logger *slog.Logger
	strict bool

	simple    map[entry.Kind]map[string]entry.SimpleData
	groups    map[entry.Kind]map[string][]entry.GroupData
	callbacks map[string][]*entry.Callback

	activePackage *entry.Package
	activeFile    *entry.File
}

// Option configures a Registry.
type Option func(*Registry)

// WithStrict makes recoverable registration problems fatal.
func WithStrict(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithLogger sets the logger used for recoverable-problem warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:    slog.Default(),
		simple:    make(map[entry.Kind]map[string]entry.SimpleData),
		groups:    make(map[entry.Kind]map[string][]entry.GroupData),
		callbacks: make(map[string][]*entry.Callback),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) simpleStore(kind entry.Kind) map[string]entry.SimpleData {
	store, ok := r.simple[kind]
	if !ok {
		store = make(map[string]entry.SimpleData)
		r.simple[kind] = store
	}
	return store
}

func (r *Registry) groupStore(kind entry.Kind) map[string][]entry.GroupData {
	store, ok := r.groups[kind]
	if !ok {
		store = make(map[string][]entry.GroupData)
		r.groups[kind] = store
	}
	return store
}

// Register stores an entry and returns the stored value: the entry itself,
// or the previously registered entry when a duplicate was discarded. It also
// updates the active package/file focus and the parent's back-reference list.
func (r *Registry) Register(d entry.Data) (entry.Data, error) {
	switch d := d.(type) {
	case *entry.Callback:
		r.callbacks[d.EventCode] = append(r.callbacks[d.EventCode], d)
		return d, nil
	case entry.GroupData:
		return r.registerGroup(d)
	case entry.SimpleData:
		return r.registerSimple(d)
	default:
		panic("unreachable: entry is neither simple, grouped nor a callback")
	}
}

func (r *Registry) registerSimple(d entry.SimpleData) (entry.Data, error) {
	store := r.simpleStore(d.Kind())
	name := d.EntryName()
	if old, exists := store[name]; exists {
		err := &DuplicateData{Entries: []entry.Data{d, old}}
		if r.strict {
			return nil, err
		}
		r.logger.Warn("Duplicate entry registered; keeping the first.", "error", err)
		return old, nil
	}
	store[name] = d

	switch d := d.(type) {
	case *entry.Package:
		r.activePackage = d
	case *entry.File:
		r.activeFile = d
		if pkg, ok := r.Lookup(entry.KindPackage, d.Package); ok {
			p := pkg.(*entry.Package)
			p.Files = appendMissing(p.Files, name)
		}
	case *entry.Module:
		if file, ok := r.Lookup(entry.KindFile, d.File); ok {
			f := file.(*entry.File)
			f.Modules = appendMissing(f.Modules, name)
		}
	case *entry.Context:
		if file, ok := r.Lookup(entry.KindFile, d.File); ok {
			f := file.(*entry.File)
			f.Contexts = appendMissing(f.Contexts, name)
		}
	case *entry.Command:
		if ctx, ok := r.Lookup(entry.KindContext, d.Context); ok {
			c := ctx.(*entry.Context)
			c.Commands = appendMissing(c.Commands, name)
		}
	}
	return d, nil
}

func (r *Registry) registerGroup(d entry.GroupData) (entry.Data, error) {
	store := r.groupStore(d.Kind())
	name := d.EntryName()
	if d.IsDeclaration() {
		for _, existing := range store[name] {
			if existing.IsDeclaration() {
				err := &DuplicateData{Entries: []entry.Data{d, existing}}
				if r.strict {
					return nil, err
				}
				r.logger.Warn("Duplicate declaration registered; keeping the first.", "error", err)
				return existing, nil
			}
		}
	}
	store[name] = append(store[name], d)
	return d, nil
}

// appendMissing grows a back-reference list without introducing duplicates.
// Entries loaded from the cache already carry their lists.
func appendMissing(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

// ActivePackage returns the package currently under analysis.
func (r *Registry) ActivePackage() (*entry.Package, error) {
	if r.activePackage == nil {
		return nil, ErrNoActivePackage
	}
	return r.activePackage, nil
}

// ActiveFile returns the file currently under analysis.
func (r *Registry) ActiveFile() (*entry.File, error) {
	if r.activeFile == nil {
		return nil, ErrNoActiveFile
	}
	return r.activeFile, nil
}

// ClearActiveFile resets the file focus between files.
func (r *Registry) ClearActiveFile() { r.activeFile = nil }

// ClearActiveFocus resets both the file and package focus.
func (r *Registry) ClearActiveFocus() {
	r.activeFile = nil
	r.activePackage = nil
}

// ResolveName expands the "self." prefix to the active package name. Names
// without the prefix pass through unchanged.
func (r *Registry) ResolveName(name string) (string, error) {
	if name != "self" && !strings.HasPrefix(name, "self.") {
		return name, nil
	}
	pkg, err := r.ActivePackage()
	if err != nil {
		return "", err
	}
	if name == "self" {
		return pkg.Name, nil
	}
	return pkg.Name + strings.TrimPrefix(name, "self"), nil
}

// resolveNameQuiet resolves "self." when a package is active and otherwise
// leaves the name alone, for lookups against a finished knowledge base.
func (r *Registry) resolveNameQuiet(name string) string {
	resolved, err := r.ResolveName(name)
	if err != nil {
		return name
	}
	return resolved
}

// activeRegistry is the process-wide registry scripting callbacks report to.
// Analysis is single-threaded, so plain assignment suffices.
var activeRegistry *Registry

// Activate makes this registry the process-wide active one.
func (r *Registry) Activate() { activeRegistry = r }

// Deactivate clears the process-wide active registry. Deactivating a
// registry that is not active is a harmless sequencing bug worth a warning.
func (r *Registry) Deactivate() {
	if activeRegistry != r {
		r.logger.Warn("Deactivating a registry that is not the active one.")
	}
	activeRegistry = nil
}

// Current returns the process-wide active registry.
func Current() (*Registry, error) {
	if activeRegistry == nil {
		return nil, ErrNoActiveRegistry
	}
	return activeRegistry, nil
}
