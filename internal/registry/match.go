package registry

import (
	"errors"
	"slices"
	"sort"

	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/rule"
)

// builtinCaptureNames are runtime-provided captures that never appear in a
// knowledge base. Failing to resolve them is expected and not worth a
// warning.
var builtinCaptureNames = []string{
	"digit_string",
	"digits",
	"number",
	"number_signed",
	"number_small",
	"phrase",
	"word",
}

// resolver adapts the registry to the matcher: lists resolve to their spoken
// forms, captures to their parsed rules. Unresolvable references make the
// matcher answer "no match".
type resolver struct {
	r *Registry
}

func (res resolver) List(name string) ([]string, bool) {
	d, err := res.r.Get(entry.KindList, name, nil)
	if err != nil {
		res.r.logger.Debug("List reference did not resolve during matching.", "error", err)
		return nil, false
	}
	return d.(*entry.List).SpokenForms(), true
}

func (res resolver) Capture(name string) (rule.Node, bool) {
	d, err := res.r.Get(entry.KindCapture, name, nil)
	if err != nil {
		var unknown *UnknownReference
		if !errors.As(err, &unknown) || !slices.Contains(builtinCaptureNames, name) {
			res.r.logger.Debug("Capture reference did not resolve during matching.", "error", err)
		}
		return nil, false
	}
	capture := d.(*entry.Capture)
	if capture.Rule == nil {
		parsed, err := rule.Parse(capture.RuleSource)
		if err != nil {
			res.r.logger.Debug("Capture rule did not parse during matching.",
				"capture", name, "error", err)
			return nil, false
		}
		capture.Rule = parsed
	}
	return capture.Rule, true
}

// Match reports whether the spoken words match a rule, resolving capture and
// list references against this registry.
func (r *Registry) Match(words []string, n rule.Node, fullmatch bool) bool {
	return rule.Match(words, n, fullmatch, resolver{r: r})
}

// FindCommands returns the registered commands whose rule matches the spoken
// words, in name order. A non-empty restrictTo limits the search to commands
// reachable from the named files, contexts or commands.
func (r *Registry) FindCommands(words []string, fullmatch bool, restrictTo []string) []*entry.Command {
	var matched []*entry.Command
	for _, cmd := range r.candidateCommands(restrictTo) {
		if cmd.Rule == nil {
			parsed, err := rule.Parse(cmd.RuleSource)
			if err != nil {
				r.logger.Debug("Command rule did not parse during matching.",
					"command", cmd.EntryName(), "error", err)
				continue
			}
			cmd.Rule = parsed
		}
		if r.Match(words, cmd.Rule, fullmatch) {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func (r *Registry) candidateCommands(restrictTo []string) []*entry.Command {
	store := r.simpleStore(entry.KindCommand)

	var names []string
	if len(restrictTo) == 0 {
		for name := range store {
			names = append(names, name)
		}
	} else {
		seen := make(map[string]bool)
		for _, ref := range restrictTo {
			for _, name := range r.commandNamesFor(ref) {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	sort.Strings(names)

	commands := make([]*entry.Command, 0, len(names))
	for _, name := range names {
		if d, ok := store[name]; ok {
			commands = append(commands, d.(*entry.Command))
		}
	}
	return commands
}

// commandNamesFor expands a restriction reference: a command name stands for
// itself, a context for its commands, a file for the commands of all its
// contexts. Unresolvable references are logged and skipped.
func (r *Registry) commandNamesFor(ref string) []string {
	if _, ok := r.Lookup(entry.KindCommand, ref); ok {
		return []string{ref}
	}
	if d, ok := r.Lookup(entry.KindContext, ref); ok {
		return d.(*entry.Context).Commands
	}
	d, err := r.Get(entry.KindFile, ref, nil)
	if err != nil {
		r.logger.Warn("Search restriction did not resolve; skipping it.", "ref", ref, "error", err)
		return nil
	}
	var names []string
	for _, ctxName := range d.(*entry.File).Contexts {
		if ctx, ok := r.Lookup(entry.KindContext, ctxName); ok {
			names = append(names, ctx.(*entry.Context).Commands...)
		}
	}
	return names
}
