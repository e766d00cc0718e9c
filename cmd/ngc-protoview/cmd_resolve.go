package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ngc-protoview/packages/compiler/src/config"
	"ngc-protoview/packages/compiler/src/schema"
	"ngc-protoview/packages/compiler/src/template_source"
	"ngc-protoview/packages/compiler/src/viewplan"
)

func newResolveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <template.yaml>...",
		Short: "Resolve template descriptions and report binding errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}
			results, err := resolveFiles(cmd.Context(), cfg, registry, args)
			if err != nil {
				return err
			}
			return reportResults(cmd.OutOrStdout(), results)
		},
	}
}

// resolveResult is the outcome of resolving one template file.
type resolveResult struct {
	Path string
	Plan *viewplan.ViewPlan
	Err  error
}

// resolveFiles resolves every path against one shared registry, at most
// cfg.Concurrency at a time. Results keep the order of paths; a failing file
// does not stop the others.
func resolveFiles(ctx context.Context, cfg *config.ProjectConfig, registry schema.ElementSchemaRegistry, paths []string) ([]resolveResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]resolveResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := resolveFile(cfg, registry, path, nil)
			results[i] = resolveResult{Path: path, Plan: plan, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func resolveFile(cfg *config.ProjectConfig, registry schema.ElementSchemaRegistry, path string, cloner viewplan.TemplateCloner) (*viewplan.ViewPlan, error) {
	tmpl, err := template_source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return tmpl.NewBuilder(cfg.BuilderOptions()...).Resolve(registry, cloner)
}

func reportResults(w io.Writer, results []resolveResult) error {
	failed := 0
	for i, r := range results {
		fmt.Fprintf(w, "[%d/%d] Resolving %s...\n", i+1, len(results), r.Path)
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "   %s %v\n", styleErr.Render("✗"), r.Err)
			continue
		}
		fmt.Fprintf(w, "   %s %d element(s), %d binding(s)\n",
			styleOK.Render("✓"), r.Plan.Len(), r.Plan.BindingCount())
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d/%d template(s) resolved\n",
		styleTitle.Render("Resolution complete:"), len(results)-failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d template(s) failed to resolve", failed)
	}
	return nil
}
