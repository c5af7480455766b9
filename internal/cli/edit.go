package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/grid"
	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/layout"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// =============================================================================
// Shared Helpers
// =============================================================================

// editWall loads the project at path, applies fn to the selected wall's
// entry and saves the result back in the same format.
func editWall(path, wallID string, fn func(cat wall.Catalog, e *wpio.WallEntry) error) (*wpio.WallEntry, error) {
	p, err := wpio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	e, err := pickWall(&p, wallID)
	if err != nil {
		return nil, err
	}
	if err := fn(p.Catalog, e); err != nil {
		return nil, err
	}
	if err := wpio.Save(p, path); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return e, nil
}

// pickWall returns the entry for id, or the only wall when id is empty.
func pickWall(p *wpio.Project, id string) (*wpio.WallEntry, error) {
	if id != "" {
		return p.Wall(id)
	}
	if len(p.Walls) == 1 {
		return &p.Walls[0], nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "project has %d walls; choose one with --wall", len(p.Walls))
}

// findCell resolves a cell by id or label.
func findCell(cells []wall.WallCell, ref string) (wall.WallCell, bool) {
	for _, c := range cells {
		if c.ID == ref || c.Label == ref {
			return c, true
		}
	}
	return wall.WallCell{}, false
}

// =============================================================================
// fill
// =============================================================================

func (c *CLI) fillCommand() *cobra.Command {
	var (
		wallID    string
		variant   string
		secondary string
		every     int
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "fill <project>",
		Short: "Auto-fill an empty wall with cabinets",
		Example: `  wallplan fill arena.toml --wall main --variant p2.6
  wallplan fill arena.toml --wall main --variant p2.6 --secondary p2.6-half --every 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := editWall(args[0], wallID, func(cat wall.Catalog, e *wpio.WallEntry) error {
				if len(e.Cells) > 0 && !force {
					return errs.New(errs.ErrCodeInvalidInput, "wall %s already has %d cells (use --force to replace them)", e.Wall.ID, len(e.Cells))
				}
				primary, err := cat.Variant(variant)
				if err != nil {
					return err
				}
				spec := layout.ForWall(e.Wall, primary)
				if secondary != "" {
					sv, err := cat.Variant(secondary)
					if err != nil {
						return err
					}
					spec.Secondary = wall.Some(sv)
					spec.SecondaryEveryNColumns = every
				}
				e.Cells = layout.AutoFill(grid.UUIDGenerator{}, spec)
				return nil
			})
			if err != nil {
				return err
			}

			filled, total := layout.Coverage(e.Cells, e.Wall.WidthUnits, e.Wall.HeightUnits)
			printSuccess("Filled %s with %d cabinets", e.Wall.ID, len(e.Cells))
			printDetail("%d/%d units covered", filled, total)
			if filled < total {
				printWarning("%d units left unfilled", total-filled)
			}
			printNextStep("Plan it", "wallplan plan "+args[0]+" --wall "+e.Wall.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")
	cmd.Flags().StringVar(&variant, "variant", "", "primary cabinet variant")
	cmd.Flags().StringVar(&secondary, "secondary", "", "secondary variant for every Nth column")
	cmd.Flags().IntVar(&every, "every", 2, "secondary column period")
	cmd.Flags().BoolVar(&force, "force", false, "replace existing cells")
	_ = cmd.MarkFlagRequired("variant")

	return cmd
}

// =============================================================================
// place
// =============================================================================

func (c *CLI) placeCommand() *cobra.Command {
	var (
		wallID  string
		variant string
		x, y    int
		status  string
	)

	cmd := &cobra.Command{
		Use:     "place <project>",
		Short:   "Place one cabinet with its top-left corner at x,y",
		Example: `  wallplan place arena.toml --wall main --variant p2.6 --x 3 --y 0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := wall.ParseStatus(status)
			if err != nil {
				return err
			}
			var placed wall.WallCell
			_, err = editWall(args[0], wallID, func(cat wall.Catalog, e *wpio.WallEntry) error {
				v, err := cat.Variant(variant)
				if err != nil {
					return err
				}
				cells, err := grid.NewPlacer(nil).Place(e.Wall, e.Cells, v, x, y, st)
				if err != nil {
					return err
				}
				e.Cells = cells
				placed = cells[len(cells)-1]
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Placed %s (%s) at %d,%d", placed.Label, variant, placed.UnitX, placed.UnitY)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")
	cmd.Flags().StringVar(&variant, "variant", "", "cabinet variant")
	cmd.Flags().IntVar(&x, "x", 0, "column in wall units")
	cmd.Flags().IntVar(&y, "y", 0, "row in wall units")
	cmd.Flags().StringVar(&status, "status", string(wall.StatusActive), "active or spare")
	_ = cmd.MarkFlagRequired("variant")

	return cmd
}

// =============================================================================
// remove
// =============================================================================

func (c *CLI) removeCommand() *cobra.Command {
	var (
		wallID string
		x, y   int
	)

	cmd := &cobra.Command{
		Use:   "remove <project>",
		Short: "Remove the cell covering x,y",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed wall.WallCell
			var found bool
			_, err := editWall(args[0], wallID, func(_ wall.Catalog, e *wpio.WallEntry) error {
				removed, found = lastCellAt(e.Cells, x, y)
				e.Cells = grid.RemoveCellAt(e.Cells, x, y)
				return nil
			})
			if err != nil {
				return err
			}
			if !found {
				printInfo("No cell at %d,%d", x, y)
				return nil
			}
			printSuccess("Removed %s", removed.Label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")
	cmd.Flags().IntVar(&x, "x", 0, "column in wall units")
	cmd.Flags().IntVar(&y, "y", 0, "row in wall units")

	return cmd
}

// lastCellAt mirrors the cell grid.RemoveCellAt would remove.
func lastCellAt(cells []wall.WallCell, x, y int) (wall.WallCell, bool) {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].Contains(x, y) {
			return cells[i], true
		}
	}
	return wall.WallCell{}, false
}

// =============================================================================
// move
// =============================================================================

func (c *CLI) moveCommand() *cobra.Command {
	var (
		wallID string
		ref    string
		x, y   int
	)

	cmd := &cobra.Command{
		Use:     "move <project>",
		Short:   "Move a cell so its top-left corner is at x,y",
		Example: `  wallplan move arena.toml --wall main --cell C014 --x 5 --y 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var label string
			_, err := editWall(args[0], wallID, func(_ wall.Catalog, e *wpio.WallEntry) error {
				cell, ok := findCell(e.Cells, ref)
				if !ok {
					return errs.New(errs.ErrCodeUnknownCell, "unknown cell: %q", ref)
				}
				cells, err := grid.NewPlacer(nil).Move(e.Wall, e.Cells, cell.ID, x, y)
				if err != nil {
					return err
				}
				e.Cells = cells
				label = cell.Label
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Moved %s to %d,%d", label, x, y)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")
	cmd.Flags().StringVar(&ref, "cell", "", "cell id or label")
	cmd.Flags().IntVar(&x, "x", 0, "new column in wall units")
	cmd.Flags().IntVar(&y, "y", 0, "new row in wall units")
	_ = cmd.MarkFlagRequired("cell")

	return cmd
}

// =============================================================================
// mark
// =============================================================================

func (c *CLI) markCommand() *cobra.Command {
	var (
		wallID string
		rect   wall.Rect
		status string
		notes  string
	)

	cmd := &cobra.Command{
		Use:     "mark <project>",
		Short:   "Mark a region as void or cutout",
		Example: `  wallplan mark arena.toml --wall main --x 0 --y 6 --width 2 --height 3 --status cutout --notes "truss leg"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := wall.ParseStatus(status)
			if err != nil {
				return err
			}
			var label string
			_, err = editWall(args[0], wallID, func(_ wall.Catalog, e *wpio.WallEntry) error {
				cells, err := grid.NewPlacer(nil).Mark(e.Wall, e.Cells, rect, st, notes)
				if err != nil {
					return err
				}
				e.Cells = cells
				label = cells[len(cells)-1].Label
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Marked %s as %s (%dx%d at %d,%d)", label, st, rect.W, rect.H, rect.X, rect.Y)
			return nil
		},
	}

	cmd.Flags().StringVarP(&wallID, "wall", "w", "", "wall id (optional when the project has one wall)")
	cmd.Flags().IntVar(&rect.X, "x", 0, "column in wall units")
	cmd.Flags().IntVar(&rect.Y, "y", 0, "row in wall units")
	cmd.Flags().IntVar(&rect.W, "width", 1, "width in wall units")
	cmd.Flags().IntVar(&rect.H, "height", 1, "height in wall units")
	cmd.Flags().StringVar(&status, "status", string(wall.StatusVoid), "void or cutout")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note")

	return cmd
}
