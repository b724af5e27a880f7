package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/pipeline"
	"github.com/matzehuels/xyframe/pkg/project"
)

var (
	exploreDotStyle    = lipgloss.NewStyle().Foreground(colorGray)
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	exploreTipStyle    = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	exploreMinCols = 20
	exploreMinRows = 5
)

// exploreCommand creates the explore command, an interactive hover
// explorer over a chart's data points.
func (c *CLI) exploreCommand() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Hover over a chart's data points interactively",
		Long: `Explore computes the frame of a chart definition and lets you step through
its data points. Each move resolves a hover annotation and shows its
tooltip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{Width: width, Height: height, Logger: loggerFromContext(ctx)}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			doc, err := pipeline.Load(ctx, args[0])
			if err != nil {
				return err
			}
			a, _, err := pipeline.BuildFrame(ctx, doc, opts)
			if err != nil {
				return err
			}
			m := newExploreModel(ctx, a)
			if len(m.Targets) == 0 {
				printInfo("No data points to explore")
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "frame width override")
	cmd.Flags().Float64Var(&height, "height", 0, "frame height override")

	return cmd
}

// =============================================================================
// exploreModel - Interactive hover explorer
// =============================================================================

// exploreModel is the bubbletea model of the hover explorer. Targets are
// the frame's valid data in screen order, left to right.
type exploreModel struct {
	ctx       context.Context
	assembler *frame.Assembler

	Targets []project.Datum
	Cursor  int
	Cols    int
	Rows    int

	Tooltip *annotation.Tooltip
	Marker  annotation.Geometry
}

func newExploreModel(ctx context.Context, a *frame.Assembler) exploreModel {
	f := a.Current()
	targets := make([]project.Datum, len(f.Layers.Full))
	copy(targets, f.Layers.Full)
	sort.SliceStable(targets, func(i, j int) bool {
		pi, pj := targets[i].Point(), targets[j].Point()
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		return pi.Y < pj.Y
	})
	m := exploreModel{
		ctx:       ctx,
		assembler: a,
		Targets:   targets,
		Cols:      60,
		Rows:      15,
	}
	return m.hover()
}

// hover resolves the hover annotation for the datum under the cursor.
func (m exploreModel) hover() exploreModel {
	if len(m.Targets) == 0 {
		return m
	}
	d := m.Targets[m.Cursor]
	m.Tooltip, m.Marker = m.assembler.Hover(m.ctx, annotation.FrameHover{Point: d.Record})
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
				m = m.hover()
			}
		case "right", "l":
			if m.Cursor < len(m.Targets)-1 {
				m.Cursor++
				m = m.hover()
			}
		case "home", "g":
			m.Cursor = 0
			m = m.hover()
		case "end", "G":
			m.Cursor = len(m.Targets) - 1
			m = m.hover()
		}
	case tea.WindowSizeMsg:
		m.Cols = max(msg.Width-4, exploreMinCols)
		m.Rows = max(msg.Height-12, exploreMinRows)
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + m.assembler.Key()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ move  g/G first/last  q quit"))
	b.WriteString("\n\n")
	b.WriteString(exploreBoxStyle.Render(m.plot()))
	b.WriteString("\n")

	if m.Tooltip != nil {
		for _, line := range m.Tooltip.Lines {
			b.WriteString("  " + exploreTipStyle.Render(line) + "\n")
		}
	} else {
		b.WriteString("  " + StyleDim.Render("no tooltip") + "\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Targets))))

	return b.String()
}

// plot draws the targets on a character grid scaled to the plot area, with
// the hover marker highlighted.
func (m exploreModel) plot() string {
	size := m.assembler.Current().PlotSize
	grid := make([][]string, m.Rows)
	for r := range grid {
		grid[r] = make([]string, m.Cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for i := range m.Targets {
		r, c, ok := m.cell(m.Targets[i].Point(), size)
		if ok {
			grid[r][c] = exploreDotStyle.Render("·")
		}
	}

	at, ok := m.markerCenter()
	if ok {
		if r, c, ok := m.cell(at, size); ok {
			grid[r][c] = exploreCursorStyle.Render("●")
		}
	}

	lines := make([]string, len(grid))
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func (m exploreModel) markerCenter() (geom.Point, bool) {
	switch g := m.Marker.(type) {
	case annotation.Marker:
		return g.Center, true
	case *annotation.Marker:
		return g.Center, true
	}
	if len(m.Targets) > 0 {
		return m.Targets[m.Cursor].Point(), true
	}
	return geom.Point{}, false
}

// cell maps a plot coordinate to a grid cell.
func (m exploreModel) cell(p geom.Point, size geom.Size) (row, col int, ok bool) {
	if size.W <= 0 || size.H <= 0 || p.X < 0 || p.Y < 0 || p.X > size.W || p.Y > size.H {
		return 0, 0, false
	}
	col = int(p.X / size.W * float64(m.Cols-1))
	row = int(p.Y / size.H * float64(m.Rows-1))
	return row, col, true
}
