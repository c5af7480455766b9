// Package layout generates starting cabinet layouts for empty walls.
//
// [AutoFill] is a greedy raster packer: it walks the grid row by row and
// drops a cabinet into every free unit where one fits. It never backtracks,
// so a wall whose size is not a multiple of the variant footprint keeps
// unfilled remainder units. Use [Coverage] to report them.
package layout

import (
	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// FillSpec describes an auto-fill request.
type FillSpec struct {
	WallID      string
	WidthUnits  int
	HeightUnits int

	// UnitSizeMM sizes variants that declare no grid units. Zero falls back
	// to 1×1.
	UnitSizeMM float64

	// Primary is the cabinet used everywhere by default.
	Primary wall.CabinetVariant

	// Secondary, when set, replaces the primary in the last column of every
	// period of SecondaryEveryNColumns columns (minimum period 2).
	Secondary              wall.Optional[wall.CabinetVariant]
	SecondaryEveryNColumns int
}

// ForWall returns a FillSpec sized to w.
func ForWall(w wall.Wall, primary wall.CabinetVariant) FillSpec {
	return FillSpec{
		WallID:      w.ID,
		WidthUnits:  w.WidthUnits,
		HeightUnits: w.HeightUnits,
		UnitSizeMM:  w.UnitSizeMM,
		Primary:     primary,
	}
}

// period returns the secondary column period, never less than 2.
func (s FillSpec) period() int {
	return max(2, s.SecondaryEveryNColumns)
}

// AutoFill fills an empty wall and returns the new cells, labeled C001,
// C002, ... in placement order. ids mints cell ids; nil uses random UUIDs.
func AutoFill(ids grid.IDGenerator, spec FillSpec) []wall.WallCell {
	ids = grid.DefaultIDs(ids)
	if spec.WidthUnits < 1 || spec.HeightUnits < 1 {
		return nil
	}

	occ := newOccupancy(spec.WidthUnits, spec.HeightUnits)
	secondary, hasSecondary := spec.Secondary.Get()
	period := spec.period()

	var cells []wall.WallCell
	for y := 0; y < spec.HeightUnits; y++ {
		for x := 0; x < spec.WidthUnits; x++ {
			if occ.taken(x, y) {
				continue
			}

			v := spec.Primary
			fw, fh := v.UnitsOn(spec.UnitSizeMM)
			if hasSecondary && x%period == period-1 {
				sw, sh := secondary.UnitsOn(spec.UnitSizeMM)
				if y+sh <= spec.HeightUnits {
					v, fw, fh = secondary, sw, sh
				}
			}

			r := wall.Rect{X: x, Y: y, W: fw, H: fh}
			if r.Right() > spec.WidthUnits || r.Bottom() > spec.HeightUnits || occ.collides(r) {
				continue
			}
			occ.mark(r)

			cells = append(cells, wall.WallCell{
				ID:        ids.NewID(),
				WallID:    spec.WallID,
				Label:     grid.FormatLabel(len(cells) + 1),
				VariantID: wall.Some(v.ID),
				UnitX:     x,
				UnitY:     y,
				UnitsWide: fw,
				UnitsHigh: fh,
				Status:    wall.StatusActive,
			})
		}
	}
	return cells
}

// Coverage counts grid units covered by physical cells, clipped to the
// w×h grid. Overlapping cells count each unit once.
func Coverage(cells []wall.WallCell, w, h int) (filled, total int) {
	if w < 1 || h < 1 {
		return 0, 0
	}
	occ := newOccupancy(w, h)
	for _, c := range cells {
		if c.IsPhysical() {
			occ.mark(c.Rect())
		}
	}
	return occ.count(), w * h
}

// Gaps returns the free units of a w×h grid in row-major order.
func Gaps(cells []wall.WallCell, w, h int) []wall.Rect {
	if w < 1 || h < 1 {
		return nil
	}
	occ := newOccupancy(w, h)
	for _, c := range cells {
		if c.IsPhysical() {
			occ.mark(c.Rect())
		}
	}
	var out []wall.Rect
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !occ.taken(x, y) {
				out = append(out, wall.Rect{X: x, Y: y, W: 1, H: 1})
			}
		}
	}
	return out
}
