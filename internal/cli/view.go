package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/pipeline"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Overlay selects what the grid viewer paints into each unit.
type Overlay int

const (
	OverlayLayout Overlay = iota
	OverlayRuns
	OverlayCircuits
)

func (o Overlay) String() string {
	switch o {
	case OverlayRuns:
		return "runs"
	case OverlayCircuits:
		return "circuits"
	default:
		return "layout"
	}
}

// Grid styles
var (
	gridCursorStyle = lipgloss.NewStyle().Reverse(true)
	gridActiveStyle = lipgloss.NewStyle().Foreground(colorCyan)
	gridSpareStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	gridMarkerStyle = lipgloss.NewStyle().Foreground(colorDim)
	gridOverStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// WallViewModel - Interactive grid viewer
// =============================================================================

// WallViewModel is the bubbletea model for browsing a wall's grid with its
// data and power assignments overlaid.
type WallViewModel struct {
	Entry   wpio.WallEntry
	Plan    *pipeline.WallPlan
	PlanErr error

	CursorX, CursorY int
	Overlay          Overlay

	// units[y][x] indexes Entry.Cells, -1 when empty. Physical cells win
	// over markers they sit on.
	units    [][]int
	runOf    map[string]int
	runOver  map[int]bool
	runPort  map[int]string
	circOf   map[string]int
	circOver map[int]bool
}

// NewWallViewModel builds a viewer for e. plan may be nil when planning
// failed; planErr is then shown in the status line.
func NewWallViewModel(e wpio.WallEntry, plan *pipeline.WallPlan, planErr error) WallViewModel {
	m := WallViewModel{
		Entry:    e,
		Plan:     plan,
		PlanErr:  planErr,
		runOf:    make(map[string]int),
		runOver:  make(map[int]bool),
		runPort:  make(map[int]string),
		circOf:   make(map[string]int),
		circOver: make(map[int]bool),
	}

	w, h := e.Wall.WidthUnits, e.Wall.HeightUnits
	m.units = make([][]int, h)
	for y := range m.units {
		m.units[y] = make([]int, w)
		for x := range m.units[y] {
			m.units[y][x] = -1
		}
	}
	for i, c := range e.Cells {
		for y := max(0, c.UnitY); y < min(h, c.UnitY+c.UnitsHigh); y++ {
			for x := max(0, c.UnitX); x < min(w, c.UnitX+c.UnitsWide); x++ {
				prev := m.units[y][x]
				if prev >= 0 && e.Cells[prev].IsPhysical() && !c.IsPhysical() {
					continue
				}
				m.units[y][x] = i
			}
		}
	}

	if plan != nil {
		for _, r := range plan.Data.Runs {
			for _, id := range r.CabinetIDs {
				m.runOf[id] = r.Index
			}
			m.runOver[r.Index] = r.OverLimit
			m.runPort[r.Index] = r.PortLabel
		}
		for _, c := range plan.Power.Circuits {
			for _, id := range c.CabinetIDs {
				m.circOf[id] = c.Number
			}
			m.circOver[c.Number] = c.OverLimit
		}
	}
	return m
}

func (m WallViewModel) Init() tea.Cmd {
	return nil
}

func (m WallViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.CursorY > 0 {
			m.CursorY--
		}
	case "down", "j":
		if m.CursorY < m.Entry.Wall.HeightUnits-1 {
			m.CursorY++
		}
	case "left", "h":
		if m.CursorX > 0 {
			m.CursorX--
		}
	case "right", "l":
		if m.CursorX < m.Entry.Wall.WidthUnits-1 {
			m.CursorX++
		}
	case "tab":
		m.Overlay = (m.Overlay + 1) % 3
	case "1":
		m.Overlay = OverlayLayout
	case "2":
		m.Overlay = OverlayRuns
	case "3":
		m.Overlay = OverlayCircuits
	}
	return m, nil
}

// CellUnderCursor returns the cell covering the cursor, if any.
func (m WallViewModel) CellUnderCursor() (wall.WallCell, bool) {
	if m.CursorY >= len(m.units) || m.CursorX >= len(m.units[m.CursorY]) {
		return wall.WallCell{}, false
	}
	i := m.units[m.CursorY][m.CursorX]
	if i < 0 {
		return wall.WallCell{}, false
	}
	return m.Entry.Cells[i], true
}

func (m WallViewModel) View() string {
	var b strings.Builder

	title := m.Entry.Wall.ID
	if m.Entry.Wall.Name != "" {
		title = m.Entry.Wall.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %dx%d units · overlay: %s", m.Entry.Wall.WidthUnits, m.Entry.Wall.HeightUnits, m.Overlay)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  tab/1-3 overlay  q quit"))
	b.WriteString("\n\n")

	for y, row := range m.units {
		for x, idx := range row {
			glyph := m.glyph(idx)
			if x == m.CursorX && y == m.CursorY {
				glyph = gridCursorStyle.Render(glyph)
			}
			b.WriteString(glyph)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// glyph renders one unit as two columns.
func (m WallViewModel) glyph(idx int) string {
	if idx < 0 {
		return "  "
	}
	c := m.Entry.Cells[idx]
	switch c.Status {
	case wall.StatusVoid:
		return gridMarkerStyle.Render("··")
	case wall.StatusCutout:
		return gridMarkerStyle.Render("××")
	case wall.StatusSpare:
		return gridSpareStyle.Render("▒▒")
	}

	switch m.Overlay {
	case OverlayRuns:
		r, ok := m.runOf[c.ID]
		if !ok {
			return gridMarkerStyle.Render("--")
		}
		s := fmt.Sprintf("%2d", (r+1)%100)
		if m.runOver[r] {
			return gridOverStyle.Render(s)
		}
		return gridActiveStyle.Render(s)
	case OverlayCircuits:
		n, ok := m.circOf[c.ID]
		if !ok {
			return gridMarkerStyle.Render("--")
		}
		s := fmt.Sprintf("%2d", n%100)
		if m.circOver[n] {
			return gridOverStyle.Render(s)
		}
		return gridActiveStyle.Render(s)
	default:
		return gridActiveStyle.Render("██")
	}
}

func (m WallViewModel) statusLine() string {
	pos := fmt.Sprintf("(%d,%d) ", m.CursorX, m.CursorY)
	var parts []string
	if c, ok := m.CellUnderCursor(); ok {
		parts = append(parts, c.Label, string(c.Status))
		if v, ok := c.VariantID.Get(); ok {
			parts = append(parts, v)
		}
		if r, ok := m.runOf[c.ID]; ok {
			parts = append(parts, fmt.Sprintf("run %d", r+1), m.runPort[r])
		}
		if n, ok := m.circOf[c.ID]; ok {
			parts = append(parts, fmt.Sprintf("circuit %d", n))
		}
		if c.Notes != "" {
			parts = append(parts, c.Notes)
		}
	} else {
		parts = append(parts, "empty")
	}

	line := StyleDim.Render(pos) + StyleValue.Render(strings.Join(parts, " · "))
	if m.PlanErr != nil {
		line += "\n" + StyleError.Render("plan unavailable: "+m.PlanErr.Error())
	}
	return line
}

// =============================================================================
// view command
// =============================================================================

func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags  planFlags
		wallID string
	)

	cmd := &cobra.Command{
		Use:   "view <project>",
		Short: "Browse a wall grid with run and circuit overlays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			p, err := wpio.Load(args[0])
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}
			e, err := pickWall(&p, wallID)
			if err != nil {
				return err
			}
			entry := *e

			sub, err := selectWalls(p, []string{entry.Wall.ID})
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), p.Name)
			if err != nil {
				return err
			}
			defer runner.Close()

			var plan *pipeline.WallPlan
			set, planErr := runner.PlanProject(cmd.Context(), sub, opts)
			if planErr == nil {
				if wp, ok := set.Wall(entry.Wall.ID); ok {
					plan = &wp
				}
			}

			_, err = tea.NewProgram(NewWallViewModel(entry, plan, planErr), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")

	return cmd
}
