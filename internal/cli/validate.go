package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wallplan/pkg/grid"
	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/layout"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Check every wall layout for bounds and overlap violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := wpio.Load(args[0])
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}

			bad := checkLayouts(p)
			if bad > 0 {
				return fmt.Errorf("%d of %d walls have layout violations", bad, len(p.Walls))
			}
			printSuccess("%d walls valid", len(p.Walls))
			return nil
		},
	}
}

// checkLayouts prints a status line per wall and returns how many walls
// have violations.
func checkLayouts(p wpio.Project) int {
	bad := 0
	for _, e := range p.Walls {
		vs := grid.Validate(e.Wall, e.Cells)
		filled, total := layout.Coverage(e.Cells, e.Wall.WidthUnits, e.Wall.HeightUnits)
		if len(vs) == 0 {
			printSuccess("%s: %d cells, %d/%d units filled", e.Wall.ID, len(e.Cells), filled, total)
			if gaps := layout.Gaps(e.Cells, e.Wall.WidthUnits, e.Wall.HeightUnits); len(gaps) > 0 && len(e.Cells) > 0 {
				printDetail("%d unfilled regions", len(gaps))
			}
			continue
		}
		bad++
		printError("%s: %d violations", e.Wall.ID, len(vs))
		printBlock(violationsTable(vs))
	}
	return bad
}
