// Package voicefile analyses binding files: spoken-phrase rules bound to
// scripts under an optional activation condition.
package voicefile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	luaparse "github.com/yuin/gopher-lua/parse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/voxkit/voxdoc/internal/ctxlog"
	"github.com/voxkit/voxdoc/internal/entry"
	"github.com/voxkit/voxdoc/internal/registry"
	"github.com/voxkit/voxdoc/internal/rule"
	"github.com/voxkit/voxdoc/internal/schema"
)

// Analyze parses one binding file and registers its file, context, commands
// and setting overrides against the registry's active package.
func Analyze(ctx context.Context, reg *registry.Registry, path, relPath string) error {
	logger := ctxlog.FromContext(ctx)

	pkg, err := reg.ActivePackage()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", relPath, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, relPath)
	if diags.HasErrors() {
		return fmt.Errorf("parsing %s: %w", relPath, diags)
	}
	var root schema.VoiceFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("decoding %s: %w", relPath, diags)
	}

	file := &entry.File{
		Location: entry.Location{Path: relPath},
		Package:  pkg.Name,
	}
	if _, err := reg.Register(file); err != nil {
		return err
	}

	matches, err := decodeMatches(root.Matches)
	if err != nil {
		return fmt.Errorf("%s: %w", relPath, err)
	}
	fileCtx := &entry.Context{
		Matches:     entry.MatchesFromMap(matches),
		Index:       len(file.Contexts),
		Description: root.Description,
		Location:    entry.Location{Path: relPath},
		File:        file.EntryName(),
	}
	if _, err := reg.Register(fileCtx); err != nil {
		return err
	}

	for _, block := range root.Commands {
		if err := registerCommand(reg, fileCtx, block, relPath); err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}
	}
	if err := registerSettings(reg, fileCtx, root.Settings, relPath); err != nil {
		return fmt.Errorf("%s: %w", relPath, err)
	}
	for _, tag := range root.Tags {
		// Tag imports shape runtime activation, which is out of scope here.
		logger.Debug("Tag import recorded.", "tag", tag, "file", relPath)
	}

	logger.Debug("Analysed binding file.",
		"path", relPath, "commands", len(root.Commands), "matches", len(matches))
	return nil
}

func registerCommand(reg *registry.Registry, fileCtx *entry.Context, block *schema.CommandBlock, relPath string) error {
	parsed, err := rule.Parse(block.Rule)
	if err != nil {
		return fmt.Errorf("command %q: %w", block.Rule, err)
	}
	cmd := &entry.Command{
		RuleSource:   block.Rule,
		ScriptSource: block.Script,
		Index:        len(fileCtx.Commands),
		Description:  block.Description,
		Location:     entry.Location{Path: relPath},
		Context:      fileCtx.EntryName(),
		Rule:         parsed,
	}
	stmts, err := luaparse.Parse(strings.NewReader(block.Script), cmd.EntryName())
	if err != nil {
		return fmt.Errorf("command %q: parsing script: %w", block.Rule, err)
	}
	cmd.Script = stmts

	_, err = reg.Register(cmd)
	return err
}

func registerSettings(reg *registry.Registry, fileCtx *entry.Context, expr hcl.Expression, relPath string) error {
	values, err := decodeObject(expr, "settings")
	if err != nil {
		return err
	}
	var names []string
	for name := range values {
		names = append(names, name)
	}
	// Deterministic registration order.
	sort.Strings(names)

	for _, name := range names {
		resolved, err := reg.ResolveName(name)
		if err != nil {
			return fmt.Errorf("setting %q: %w", name, err)
		}
		setting := &entry.Setting{
			GroupCommon: entry.GroupCommon{
				Name:       resolved,
				Location:   locationFromRange(expr.Range(), relPath),
				ParentName: fileCtx.EntryName(),
				ParentKind: entry.KindContext,
			},
			Value:    entry.WrapValue(values[name]),
			TypeHint: values[name].Type().FriendlyName(),
		}
		if _, err := reg.Register(setting); err != nil {
			return err
		}
	}
	return nil
}

// decodeMatches evaluates the matches attribute into match clauses. Every
// pattern must be convertible to a string.
func decodeMatches(expr hcl.Expression) (map[string]string, error) {
	values, err := decodeObject(expr, "matches")
	if err != nil {
		return nil, err
	}
	matches := make(map[string]string, len(values))
	for key, value := range values {
		str, convErr := convert.Convert(value, cty.String)
		if convErr != nil {
			return nil, fmt.Errorf("match %q: %w", key, convErr)
		}
		matches[key] = str.AsString()
	}
	return matches, nil
}

// decodeObject evaluates an optional object-valued attribute. The keys are
// dotted names, which is why the attribute stays an expression rather than
// decoding into struct fields.
func decodeObject(expr hcl.Expression, attr string) (map[string]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating %s: %w", attr, diags)
	}
	if value.IsNull() {
		return nil, nil
	}
	ty := value.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", attr, ty.FriendlyName())
	}
	return value.AsValueMap(), nil
}

func locationFromRange(rng hcl.Range, relPath string) entry.Location {
	return entry.Location{
		Path:        relPath,
		StartLine:   rng.Start.Line,
		StartColumn: rng.Start.Column,
		EndLine:     rng.End.Line,
		EndColumn:   rng.End.Column,
	}
}
