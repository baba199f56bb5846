package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	luaparse "github.com/yuin/gopher-lua/parse"

	"github.com/tidwall/gjson"

	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/rule"
)

// ToJSON serialises the knowledge base: one top-level key per kind, mapping
// each resolved name to its entry (or, for grouped kinds, to the group in
// registration order). Transient entries are skipped. Keys are emitted in
// sorted order, so equal registries serialise identically.
func (r *Registry) ToJSON() ([]byte, error) {
	top := make(map[string]any)

	for _, kind := range entry.SimpleKinds {
		section := make(map[string]entry.SimpleData)
		for name, d := range r.simpleStore(kind) {
			if d.Serialisable() {
				section[name] = d
			}
		}
		if len(section) > 0 {
			top[string(kind)] = section
		}
	}
	for _, kind := range entry.GroupKinds {
		section := make(map[string][]entry.GroupData)
		for name, group := range r.groupStore(kind) {
			for _, d := range group {
				if d.Serialisable() {
					section[name] = append(section[name], d)
				}
			}
		}
		if len(section) > 0 {
			top[string(kind)] = section
		}
	}

	return json.MarshalIndent(top, "", "  ")
}

// deserialisationOrder registers parents before children so back-references
// resolve during loading.
var deserialisationOrder = []entry.Kind{
	entry.KindPackage, entry.KindFile, entry.KindModule, entry.KindContext,
	entry.KindCommand, entry.KindMode, entry.KindTag,
	entry.KindAction, entry.KindCapture, entry.KindList, entry.KindSetting,
}

// FromJSON loads a serialised knowledge base into the registry, rebuilding
// the parsed rule and script forms from their source text.
func (r *Registry) FromJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("knowledge base is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	for _, kind := range deserialisationOrder {
		section := doc.Get(string(kind))
		if !section.Exists() {
			continue
		}
		var loadErr error
		section.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				value.ForEach(func(_, element gjson.Result) bool {
					loadErr = r.loadEntry(kind, element.Raw)
					return loadErr == nil
				})
			} else {
				loadErr = r.loadEntry(kind, value.Raw)
			}
			return loadErr == nil
		})
		if loadErr != nil {
			return loadErr
		}
	}
	return nil
}

func (r *Registry) loadEntry(kind entry.Kind, raw string) error {
	d, err := decodeEntry(kind, raw)
	if err != nil {
		return fmt.Errorf("loading %s entry: %w", strings.ToLower(string(kind)), err)
	}
	if _, err := r.Register(d); err != nil {
		return err
	}
	return nil
}

func decodeEntry(kind entry.Kind, raw string) (entry.Data, error) {
	switch kind {
	case entry.KindPackage:
		return decodeInto(raw, &entry.Package{})
	case entry.KindFile:
		return decodeInto(raw, &entry.File{})
	case entry.KindModule:
		return decodeInto(raw, &entry.Module{})
	case entry.KindContext:
		return decodeInto(raw, &entry.Context{})
	case entry.KindCommand:
		d, err := decodeInto(raw, &entry.Command{})
		if err != nil {
			return nil, err
		}
		cmd := d.(*entry.Command)
		if err := reparseCommand(cmd); err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.EntryName(), err)
		}
		return cmd, nil
	case entry.KindMode:
		return decodeInto(raw, &entry.Mode{})
	case entry.KindTag:
		return decodeInto(raw, &entry.Tag{})
	case entry.KindAction:
		return decodeInto(raw, &entry.Action{})
	case entry.KindCapture:
		d, err := decodeInto(raw, &entry.Capture{})
		if err != nil {
			return nil, err
		}
		capture := d.(*entry.Capture)
		if capture.RuleSource != "" {
			// Parsed lazily by the matcher otherwise; parse eagerly so broken
			// cache entries surface at load time.
			if err := reparseCapture(capture); err != nil {
				return nil, fmt.Errorf("%s: %w", capture.EntryName(), err)
			}
		}
		return capture, nil
	case entry.KindList:
		return decodeInto(raw, &entry.List{})
	case entry.KindSetting:
		return decodeInto(raw, &entry.Setting{})
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func decodeInto(raw string, d entry.Data) (entry.Data, error) {
	if err := json.Unmarshal([]byte(raw), d); err != nil {
		return nil, err
	}
	return d, nil
}

func reparseCommand(cmd *entry.Command) error {
	parsed, err := rule.Parse(cmd.RuleSource)
	if err != nil {
		return err
	}
	cmd.Rule = parsed

	stmts, err := luaparse.Parse(strings.NewReader(cmd.ScriptSource), cmd.EntryName())
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}
	cmd.Script = stmts
	return nil
}

func reparseCapture(capture *entry.Capture) error {
	parsed, err := rule.Parse(capture.RuleSource)
	if err != nil {
		return err
	}
	capture.Rule = parsed
	return nil
}
