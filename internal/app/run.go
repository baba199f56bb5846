package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxkit/voxdoc/internal/analysis"
	"github.com/voxkit/voxdoc/internal/cache"
	"github.com/voxkit/voxdoc/internal/ctxlog"
	"github.com/voxkit/voxdoc/internal/rule"
	"github.com/voxkit/voxdoc/internal/script"
)

// Run executes the pipeline: seed the builtin declarations, analyse the
// package, then either search commands or export the knowledge base.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if err := cache.LoadBuiltins(ctx, a.registry); err != nil {
		return err
	}
	if a.config.CachePath != "" {
		if err := cache.Load(ctx, a.registry, a.config.CachePath); err != nil {
			return err
		}
	}

	session := analysis.NewSession(a.registry, a.config.PackageName, a.config.PackagePath, a.config.Strict)
	defer session.Close()
	if err := session.Analyze(ctx); err != nil {
		return err
	}

	if a.config.Find != "" {
		return a.findCommands(ctx, strings.Fields(a.config.Find))
	}
	return a.writeKnowledgeBase(ctx)
}

func (a *App) findCommands(ctx context.Context, words []string) error {
	commands := a.registry.FindCommands(words, a.config.FullMatch, nil)
	ctxlog.FromContext(ctx).Debug("Command search finished.",
		"phrase", strings.Join(words, " "), "matches", len(commands))

	for _, cmd := range commands {
		surface := cmd.RuleSource
		if cmd.Rule != nil {
			surface = rule.Format(cmd.Rule)
		}
		fmt.Fprintln(a.outW, surface)
		for _, line := range strings.Split(script.DescribeCommand(cmd, a.registry), "\n") {
			fmt.Fprintf(a.outW, "    %s\n", line)
		}
	}
	return nil
}

func (a *App) writeKnowledgeBase(ctx context.Context) error {
	if a.config.Output != "" {
		return cache.Save(ctx, a.registry, a.config.Output)
	}
	data, err := a.registry.ToJSON()
	if err != nil {
		return err
	}
	_, err = a.outW.Write(append(data, '\n'))
	return err
}
