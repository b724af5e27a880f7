package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyframe/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output        string
	formats       string
	width         float64
	height        float64
	noAnnotations bool
	pretty        bool
	theme         string
	noCache       bool
	refresh       bool
}

// renderCommand creates the render command for chart definitions.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart definition to SVG or JSON",
		Long: `Render computes the frame of a chart definition (JSON or TOML) and writes
one file per requested format.

With a single format, --output names the file. With several formats it is
the base path and each format adds its extension.`,
		Example: `  xyframe render sales.json
  xyframe render sales.toml -f svg,json -o out/sales
  xyframe render sales.json --width 800 --height 400 --no-annotations`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width override")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height override")
	cmd.Flags().BoolVar(&opts.noAnnotations, "no-annotations", false, "omit annotations")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file for SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	theme, err := loadTheme(opts.theme)
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Formats:       parseFormats(opts.formats),
		Width:         opts.width,
		Height:        opts.height,
		NoAnnotations: opts.noAnnotations,
		Pretty:        opts.pretty,
		Refresh:       opts.refresh,
		Theme:         theme,
		Logger:        logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	doc, err := pipeline.Load(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, doc, popts)
	if err != nil {
		return err
	}
	prog.done("Rendered frame")

	paths := outputPaths(input, opts.output, popts.Formats)
	for _, format := range popts.Formats {
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Rendered %s", StyleHighlight.Render(frameLabel(doc.Key, input)))
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	printStats(res.Stats.Records, res.Stats.Annotations, res.Stats.Dropped, res.CacheInfo.RenderHit)
	for _, e := range res.Skipped {
		printWarning("skipped annotation: %v", e)
	}
	return nil
}

// outputPaths maps each format to its output file. Without output the input
// path's base name is reused; the input itself is never overwritten.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range formats {
		path := base + "." + f
		if path == input {
			path = base + ".frame." + f
		}
		paths[f] = path
	}
	return paths
}

// frameLabel names a frame for display.
func frameLabel(key, input string) string {
	if key != "" {
		return key
	}
	return filepath.Base(input)
}
