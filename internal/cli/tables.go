package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wallplan/pkg/dataplan"
	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/totals"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// newTable returns a bordered table in the CLI palette. Rows listed in
// danger are rendered in the error color.
func newTable(headers []string, rows [][]string, danger map[int]bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if danger[row] {
				return base.Foreground(colorRed)
			}
			return base
		})
}

// runsTable renders one row per data run.
func runsTable(r dataplan.Result) string {
	headers := []string{"Run", "Port", "Band", "Cabinets", "Pixels", "Util %", "Loom", "Group", "Home run"}
	rows := make([][]string, 0, len(r.Runs))
	danger := make(map[int]bool)
	for i, run := range r.Runs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.Index+1),
			run.PortLabel,
			fmt.Sprintf("%d-%d", run.BandTop, run.BandBottom),
			fmt.Sprintf("%d", run.CabinetCount),
			fmt.Sprintf("%d", run.PixelLoad),
			fmt.Sprintf("%.1f", run.UtilizationPercent),
			fmt.Sprintf("%d", run.LoomBundle),
			fmt.Sprintf("%d", run.PortGroup),
			fmt.Sprintf("%.1fm %s", run.HomeRunMeters, run.CableOrigin),
		})
		if run.OverLimit {
			danger[i] = true
		}
	}
	return newTable(headers, rows, danger).Render()
}

// circuitsTable renders one row per power circuit.
func circuitsTable(r powerplan.Result) string {
	headers := []string{"Circuit", "Feed", "Phase", "Cabinets", "Typ A", "Max A", "Peak A", "Breaker", "Load %"}
	rows := make([][]string, 0, len(r.Circuits))
	danger := make(map[int]bool)
	for i, c := range r.Circuits {
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.Number),
			fmt.Sprintf("%d", c.Feed),
			c.Phase,
			fmt.Sprintf("%d", c.CabinetCount),
			fmt.Sprintf("%.2f", c.Amps.Typ),
			fmt.Sprintf("%.2f", c.Amps.Max),
			fmt.Sprintf("%.2f", c.Amps.Peak),
			fmt.Sprintf("%.0fA", c.BreakerAmps),
			fmt.Sprintf("%.1f", c.LoadPercent),
		})
		if c.OverLimit {
			danger[i] = true
		}
	}
	return newTable(headers, rows, danger).Render()
}

// totalsTable renders the per-variant breakdown followed by a total row.
func totalsTable(t totals.WallTotals) string {
	headers := []string{"Variant", "Active", "Spare", "Pitch mm", "Pixels", "Weight kg", "Typ W", "Max W"}
	rows := make([][]string, 0, len(t.Variants)+1)
	for _, v := range t.Variants {
		rows = append(rows, []string{
			v.VariantID,
			fmt.Sprintf("%d", v.Count),
			fmt.Sprintf("%d", v.Spares),
			fmt.Sprintf("%.2f", v.PitchMM),
			fmt.Sprintf("%d", v.Pixels),
			fmt.Sprintf("%.1f", v.WeightKG),
			fmt.Sprintf("%.0f", v.Power.Typ),
			fmt.Sprintf("%.0f", v.Power.Max),
		})
	}
	rows = append(rows, []string{
		"total",
		fmt.Sprintf("%d", t.ActiveCabinets),
		fmt.Sprintf("%d", t.SpareCabinets),
		pitchList(t.PitchesMM),
		fmt.Sprintf("%d", t.Pixels),
		fmt.Sprintf("%.1f", t.WeightKG),
		fmt.Sprintf("%.0f", t.Power.Typ),
		fmt.Sprintf("%.0f", t.Power.Max),
	})
	return newTable(headers, rows, nil).Render()
}

// violationsTable renders layout violations.
func violationsTable(vs []grid.Violation) string {
	headers := []string{"Code", "Cell", "Other", "Message"}
	rows := make([][]string, 0, len(vs))
	danger := make(map[int]bool, len(vs))
	for i, v := range vs {
		rows = append(rows, []string{string(v.Code), v.Label, v.OtherID, v.Message})
		danger[i] = true
	}
	return newTable(headers, rows, danger).Render()
}

func pitchList(pitches []float64) string {
	parts := make([]string, len(pitches))
	for i, p := range pitches {
		parts[i] = fmt.Sprintf("%.2f", p)
	}
	return strings.Join(parts, "/")
}
