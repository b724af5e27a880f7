package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xyframe/pkg/annotation"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/pipeline"
)

// inspectCommand creates the inspect command, which prints the computed
// frame of a chart definition.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		width, height float64
		rows          string
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the computed frame of a chart definition",
		Long: `Inspect computes the frame of a chart definition and prints its layout,
extents, axes and annotations.

With --rows it instead prints the download rows (points, lines or areas)
as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{Width: width, Height: height, Logger: loggerFromContext(ctx)}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if rows != "" {
				return runRows(ctx, args[0], rows, opts, os.Stdout)
			}
			return runInspect(ctx, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "frame width override")
	cmd.Flags().Float64Var(&height, "height", 0, "frame height override")
	cmd.Flags().StringVar(&rows, "rows", "", "print download rows: points, lines or areas")

	return cmd
}

func runInspect(ctx context.Context, input string, opts pipeline.Options) error {
	doc, err := pipeline.Load(ctx, input)
	if err != nil {
		return err
	}
	a, skipped, err := pipeline.BuildFrame(ctx, doc, opts)
	if err != nil {
		return err
	}
	f := a.Current()
	resolved := a.Resolve(ctx)

	fmt.Println(StyleTitle.Render("Frame " + frameLabel(doc.Key, input)))
	fmt.Println()
	printKeyValue("size", fmt.Sprintf("%s × %s", fmtNum(f.Size.W), fmtNum(f.Size.H)))
	printKeyValue("plot", fmt.Sprintf("%s × %s at (%s, %s)",
		fmtNum(f.PlotSize.W), fmtNum(f.PlotSize.H), fmtNum(f.Position.X), fmtNum(f.Position.Y)))
	printKeyValue("margin", fmt.Sprintf("t %s  r %s  b %s  l %s",
		fmtNum(f.Margin.Top), fmtNum(f.Margin.Right), fmtNum(f.Margin.Bottom), fmtNum(f.Margin.Left)))
	printKeyValue("x extent", extentString(f.XExtent))
	printKeyValue("y extent", extentString(f.YExtent))
	printKeyValue("layers", fmt.Sprintf("%d lines · %d areas · %d points",
		len(f.Layers.Lines), len(f.Layers.Areas), len(f.Layers.Points)))
	printKeyValue("records", fmt.Sprintf("%d (%d valid)", f.Layers.Len(), len(f.Layers.Full)))
	if f.DataVersion != "" {
		printKeyValue("version", f.DataVersion)
	}

	if len(f.Axes.Axes) > 0 {
		fmt.Println()
		fmt.Println(axesTable(f).Render())
	}
	if len(f.Annotations) > 0 {
		fmt.Println()
		fmt.Println(annotationsTable(f, resolved).Render())
	}

	fmt.Println()
	printStats(f.Layers.Len(), len(resolved), len(f.Annotations)-len(resolved), false)
	for _, e := range skipped {
		printWarning("skipped annotation: %v", e)
	}
	return nil
}

// runRows writes the frame's download rows as JSON.
func runRows(ctx context.Context, input, mode string, opts pipeline.Options, w io.Writer) error {
	switch mode {
	case "points", "lines", "areas":
	default:
		return xerrors.New(xerrors.ErrCodeInvalidInput, "rows: unknown mode %q (want points, lines or areas)", mode)
	}
	doc, err := pipeline.Load(ctx, input)
	if err != nil {
		return err
	}
	a, _, err := pipeline.BuildFrame(ctx, doc, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Current().DownloadRows(mode))
}

func extentString(e extent.Extent) string {
	return fmt.Sprintf("[%s, %s]", fmtNum(e.Min), fmtNum(e.Max))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func axesTable(f *frame.Frame) *table.Table {
	t := newTable("Axis", "Ticks", "First", "Last", "Label")
	for _, g := range f.Axes.Axes {
		first, last := "—", "—"
		if n := len(g.Ticks); n > 0 {
			first, last = g.Ticks[0].Label.Text, g.Ticks[n-1].Label.Text
		}
		label := "—"
		if g.Label != nil {
			label = g.Label.Text
		}
		t.Row(string(g.Orient), strconv.Itoa(len(g.Ticks)), first, last, label)
	}
	return t
}

// annotationsTable lists every annotation with the geometry it resolved
// to, or "dropped" when it has none.
func annotationsTable(f *frame.Frame, resolved []annotation.Resolved) *table.Table {
	kinds := make(map[int]string, len(resolved))
	for _, r := range resolved {
		kinds[r.Index] = r.Geometry.Kind()
	}
	t := newTable("#", "Type", "Geometry")
	for i, ann := range f.Annotations {
		kind, ok := kinds[i]
		if !ok {
			kind = StyleWarning.Render("dropped")
		}
		t.Row(strconv.Itoa(i), ann.Kind(), kind)
	}
	return t
}
