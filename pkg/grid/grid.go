// Package grid places cabinets on a wall's unit grid.
//
// All operations are pure: they take a snapshot of a wall's cells and return
// a new slice, leaving the input untouched. Two rules hold for every layout
// produced by a successful call:
//
//   - every cell's footprint lies inside [0, WidthUnits) × [0, HeightUnits)
//   - no two physical cells (active or spare) share a grid unit
//
// Void and cutout cells are markers, not cabinets; placements may stack over
// them.
//
// # Usage
//
//	p := grid.NewPlacer(nil) // random UUID cell ids
//	cells, err := p.Place(w, nil, variant, 0, 0)
//	if errors.Is(err, errors.ErrCodeOverlap) {
//	    // ...
//	}
package grid

import (
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Placer creates and edits cells. The zero value uses random UUID ids.
type Placer struct {
	IDs IDGenerator
}

// NewPlacer returns a Placer that mints cell ids with ids.
// A nil generator falls back to UUIDGenerator.
func NewPlacer(ids IDGenerator) *Placer {
	return &Placer{IDs: orDefault(ids)}
}

// InBounds reports whether r lies fully within the wall's grid.
func InBounds(w wall.Wall, r wall.Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= w.WidthUnits && r.Bottom() <= w.HeightUnits
}

// Overlaps reports whether a and b share a grid unit.
func Overlaps(a, b wall.Rect) bool { return a.Overlaps(b) }

// Place puts a cabinet of variant v with its top-left corner at (x, y) and
// returns the new layout. The footprint is the variant's physical size in
// wall base units. The optional status defaults to active.
//
// Place fails with ErrCodeOutOfBounds when the footprint leaves the grid and
// with ErrCodeOverlap when it intersects an existing active or spare cell.
func (p *Placer) Place(w wall.Wall, cells []wall.WallCell, v wall.CabinetVariant, x, y int, status ...wall.Status) ([]wall.WallCell, error) {
	st := wall.StatusActive
	if len(status) > 0 && status[0] != "" {
		st = status[0]
	}

	fw, fh := v.FootprintUnits(w.UnitSizeMM)
	r := wall.Rect{X: x, Y: y, W: fw, H: fh}

	if err := checkPlacement(w, cells, r, "", st); err != nil {
		return nil, err
	}

	cell := wall.WallCell{
		ID:        orDefault(p.IDs).NewID(),
		WallID:    w.ID,
		Label:     NextLabel(cells),
		VariantID: wall.Some(v.ID),
		UnitX:     x,
		UnitY:     y,
		UnitsWide: fw,
		UnitsHigh: fh,
		Status:    st,
	}

	out := make([]wall.WallCell, 0, len(cells)+1)
	out = append(out, cells...)
	return append(out, cell), nil
}

// Mark adds a void or cutout marker covering r. Markers carry no variant
// and are exempt from overlap checks, but must stay within bounds.
func (p *Placer) Mark(w wall.Wall, cells []wall.WallCell, r wall.Rect, status wall.Status, notes string) ([]wall.WallCell, error) {
	if status.IsPhysical() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "marker status must be void or cutout, got %s", status)
	}
	if !InBounds(w, r) {
		return nil, outOfBounds(w, r)
	}

	cell := wall.WallCell{
		ID:        orDefault(p.IDs).NewID(),
		WallID:    w.ID,
		Label:     NextLabel(cells),
		UnitX:     r.X,
		UnitY:     r.Y,
		UnitsWide: r.W,
		UnitsHigh: r.H,
		Status:    status,
		Notes:     notes,
	}

	out := make([]wall.WallCell, 0, len(cells)+1)
	out = append(out, cells...)
	return append(out, cell), nil
}

// Move relocates the cell with id cellID so its top-left corner is at (x, y).
// The moved cell is ignored when checking for overlaps.
func (p *Placer) Move(w wall.Wall, cells []wall.WallCell, cellID string, x, y int) ([]wall.WallCell, error) {
	idx := indexOf(cells, cellID)
	if idx < 0 {
		return nil, errs.New(errs.ErrCodeUnknownCell, "unknown cell: %q", cellID)
	}

	moved := cells[idx]
	r := wall.Rect{X: x, Y: y, W: moved.UnitsWide, H: moved.UnitsHigh}
	if err := checkPlacement(w, cells, r, cellID, moved.Status); err != nil {
		return nil, err
	}

	out := wall.CloneCells(cells)
	out[idx].UnitX = x
	out[idx].UnitY = y
	return out, nil
}

// RemoveCellAt removes the cell whose footprint contains (x, y). When a
// cabinet sits over a marker, the last matching cell in list order (the most
// recently placed) is removed. Removing from an empty point returns an
// unchanged copy.
func RemoveCellAt(cells []wall.WallCell, x, y int) []wall.WallCell {
	idx := -1
	for i, c := range cells {
		if c.Contains(x, y) {
			idx = i
		}
	}

	out := make([]wall.WallCell, 0, len(cells))
	for i, c := range cells {
		if i != idx {
			out = append(out, c)
		}
	}
	return out
}

// CellAt returns the topmost cell containing (x, y), if any.
func CellAt(cells []wall.WallCell, x, y int) (wall.WallCell, bool) {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].Contains(x, y) {
			return cells[i], true
		}
	}
	return wall.WallCell{}, false
}

// checkPlacement validates r against bounds and, for physical statuses,
// against every other physical cell. skipID excludes one cell (used by Move).
func checkPlacement(w wall.Wall, cells []wall.WallCell, r wall.Rect, skipID string, st wall.Status) error {
	if !InBounds(w, r) {
		return outOfBounds(w, r)
	}
	if !st.IsPhysical() {
		return nil
	}
	for _, c := range cells {
		if c.ID == skipID && skipID != "" {
			continue
		}
		if !c.IsPhysical() {
			continue
		}
		if r.Overlaps(c.Rect()) {
			return errs.New(errs.ErrCodeOverlap,
				"%dx%d cabinet at (%d,%d) overlaps %s at (%d,%d)",
				r.W, r.H, r.X, r.Y, c.Label, c.UnitX, c.UnitY)
		}
	}
	return nil
}

func outOfBounds(w wall.Wall, r wall.Rect) error {
	return errs.New(errs.ErrCodeOutOfBounds,
		"%dx%d cabinet at (%d,%d) does not fit a %dx%d wall",
		r.W, r.H, r.X, r.Y, w.WidthUnits, w.HeightUnits)
}

func indexOf(cells []wall.WallCell, id string) int {
	for i, c := range cells {
		if c.ID == id {
			return i
		}
	}
	return -1
}
