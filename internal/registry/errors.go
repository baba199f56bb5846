package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/voxkit/voxdoc/internal/entry"
)

// Programmer-error sentinels: a query was issued outside an active analysis
// session. These propagate instead of being handled.
var (
	ErrNoActiveRegistry = errors.New("no active registry")
	ErrNoActivePackage  = errors.New("no active package")
	ErrNoActiveFile     = errors.New("no active file")
)

// DuplicateData reports that a second entry was registered under a name that
// already has one: a same-named simple entry, or a second module-scoped
// declaration for a grouped name. Recoverable by default (the first entry
// wins); strict mode turns it into a hard failure.
type DuplicateData struct {
	Entries []entry.Data
}

func (e *DuplicateData) Error() string {
	if len(e.Entries) == 0 {
		return "duplicate entry"
	}
	first := e.Entries[0]
	lines := []string{
		fmt.Sprintf("%s %q is declared twice:", strings.ToLower(string(first.Kind())), first.EntryName()),
	}
	for _, d := range e.Entries {
		lines = append(lines, fmt.Sprintf("- %s", d.EntryLocation()))
	}
	return strings.Join(lines, "\n")
}

// maxSuggestions bounds the "did you mean" list on unknown references.
const maxSuggestions = 10

// UnknownReference reports a name with no resolvable entry. It carries the
// closest known names by edit distance as suggestions. Never fatal at the
// registry layer; callers decide whether to log or abort.
type UnknownReference struct {
	Kind         entry.Kind
	Name         string
	ReferencedBy entry.Data
	Known        []string
}

func (e *UnknownReference) Error() string {
	var b strings.Builder
	if e.ReferencedBy != nil {
		fmt.Fprintf(&b, "%s %s references ",
			strings.ToLower(string(e.ReferencedBy.Kind())), e.ReferencedBy.EntryName())
	}
	fmt.Fprintf(&b, "unknown %s %s", strings.ToLower(string(e.Kind)), e.Name)
	if suggestions := e.Suggestions(); len(suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s)", strings.Join(suggestions, ", "))
	}
	return b.String()
}

// Suggestions returns up to maxSuggestions known names, nearest first by
// edit distance to the unresolved name.
func (e *UnknownReference) Suggestions() []string {
	known := append([]string{}, e.Known...)
	sort.SliceStable(known, func(i, j int) bool {
		return levenshtein.Distance(e.Name, known[i], nil) < levenshtein.Distance(e.Name, known[j], nil)
	})
	if len(known) > maxSuggestions {
		known = known[:maxSuggestions]
	}
	return known
}
