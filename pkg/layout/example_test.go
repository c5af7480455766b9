package layout_test

import (
	"fmt"

	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/layout"
	"github.com/matzehuels/wallplan/pkg/wall"
)

func ExampleAutoFill() {
	w := wall.Wall{ID: "main", WidthUnits: 5, HeightUnits: 2, UnitSizeMM: 500}
	panel := wall.CabinetVariant{ID: "p2.6", UnitsWide: 2, UnitsHigh: 1}

	cells := layout.AutoFill(grid.NewSequenceGenerator("cell"), layout.ForWall(w, panel))
	for _, c := range cells {
		fmt.Printf("%s %s at (%d,%d)\n", c.ID, c.Label, c.UnitX, c.UnitY)
	}

	filled, total := layout.Coverage(cells, w.WidthUnits, w.HeightUnits)
	fmt.Printf("coverage: %d/%d\n", filled, total)
	// Output:
	// cell-1 C001 at (0,0)
	// cell-2 C002 at (2,0)
	// cell-3 C003 at (0,1)
	// cell-4 C004 at (2,1)
	// coverage: 8/10
}
