package dataplan

import (
	"sort"

	"github.com/matzehuels/wallplan/pkg/wall"
)

// Band is a horizontal strip of the wall between two safe boundaries.
type Band struct {
	Top    int
	Bottom int
	Cells  []wall.WallCell
	Pixels int
}

// SafeBoundaries returns, in ascending order, every row line y in
// [0, height] that no cell's vertical span strictly straddles. 0 and height
// are always included.
func SafeBoundaries(cells []wall.WallCell, height int) []int {
	if height < 0 {
		height = 0
	}
	cut := make([]bool, height+1)
	for _, c := range cells {
		for y := c.UnitY + 1; y < c.UnitY+c.UnitsHigh; y++ {
			if y > 0 && y < height {
				cut[y] = true
			}
		}
	}

	out := []int{0}
	for y := 1; y < height; y++ {
		if !cut[y] {
			out = append(out, y)
		}
	}
	if height > 0 {
		out = append(out, height)
	}
	return out
}

// Bands splits cells into non-empty bands between consecutive safe
// boundaries. variants supplies pixel counts; every cell must resolve.
func Bands(cells []wall.WallCell, height int, variants map[string]wall.CabinetVariant) []Band {
	bounds := SafeBoundaries(cells, height)

	var out []Band
	for i := 0; i+1 < len(bounds); i++ {
		b := Band{Top: bounds[i], Bottom: bounds[i+1]}
		for _, c := range cells {
			if c.UnitY < b.Bottom && c.UnitY+c.UnitsHigh > b.Top {
				b.Cells = append(b.Cells, c)
				b.Pixels += pixelsOf(c, variants)
			}
		}
		if len(b.Cells) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func pixelsOf(c wall.WallCell, variants map[string]wall.CabinetVariant) int {
	id, _ := c.VariantID.Get()
	return variants[id].Pixels()
}

// Order sorts cells along the cable path for mode and returns a new slice.
//
// SNAKE_ROWS walks each row left to right on even rows and right to left on
// odd rows. SNAKE_COLUMNS does the same down columns. CUSTOM sorts by label.
func Order(cells []wall.WallCell, mode PathMode) []wall.WallCell {
	out := wall.CloneCells(cells)

	switch mode {
	case PathCustom:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Label != out[j].Label {
				return out[i].Label < out[j].Label
			}
			return out[i].ID < out[j].ID
		})
	case PathSnakeColumns:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.UnitX != b.UnitX {
				return a.UnitX < b.UnitX
			}
			if a.UnitX%2 == 0 {
				return a.UnitY < b.UnitY
			}
			return a.UnitY > b.UnitY
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.UnitY != b.UnitY {
				return a.UnitY < b.UnitY
			}
			if a.UnitY%2 == 0 {
				return a.UnitX < b.UnitX
			}
			return a.UnitX > b.UnitX
		})
	}
	return out
}
