package wall

import (
	"strings"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// Status tags what occupies a cell.
type Status string

// Cell statuses. Only active and spare cells are physical cabinets; void
// and cutout cells are markers that placements may stack over.
const (
	StatusActive Status = "active"
	StatusSpare  Status = "spare"
	StatusVoid   Status = "void"
	StatusCutout Status = "cutout"
)

// ParseStatus parses a cell status. The empty string means active.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusActive, nil
	}
	switch st := Status(s); st {
	case StatusActive, StatusSpare, StatusVoid, StatusCutout:
		return st, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "invalid cell status: %q (must be one of: active, spare, void, cutout)", s)
}

// IsPhysical reports whether the status occupies space on the grid.
func (s Status) IsPhysical() bool { return s == StatusActive || s == StatusSpare }

// Rect is an axis-aligned rectangle in grid units.
// It covers columns [X, X+W) and rows [Y, Y+H).
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the unit at (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Overlaps reports whether r and o share any unit. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Right() <= o.X || o.Right() <= r.X || r.Bottom() <= o.Y || o.Bottom() <= r.Y)
}

// WallCell is one placed cabinet instance (or a void/cutout marker).
type WallCell struct {
	ID        string           `json:"id" bson:"id"`
	WallID    string           `json:"wall_id" bson:"wall_id"`
	Label     string           `json:"label" bson:"label"`
	VariantID Optional[string] `json:"variant_id" bson:"-"`
	UnitX     int              `json:"unit_x" bson:"unit_x"`
	UnitY     int              `json:"unit_y" bson:"unit_y"`
	UnitsWide int              `json:"units_wide" bson:"units_wide"`
	UnitsHigh int              `json:"units_high" bson:"units_high"`
	Status    Status           `json:"status" bson:"status"`
	Notes     string           `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Rect returns the cell's footprint rectangle.
func (c WallCell) Rect() Rect {
	return Rect{X: c.UnitX, Y: c.UnitY, W: c.UnitsWide, H: c.UnitsHigh}
}

// Contains reports whether the unit at (x, y) lies inside the cell.
func (c WallCell) Contains(x, y int) bool { return c.Rect().Contains(x, y) }

// IsPhysical reports whether the cell is an active or spare cabinet.
func (c WallCell) IsPhysical() bool { return c.Status.IsPhysical() }

// IsActive reports whether the cell is an active cabinet with a variant.
func (c WallCell) IsActive() bool {
	return c.Status == StatusActive && c.VariantID.IsSome()
}

// CloneCells returns a shallow copy of cells so callers can append or
// replace entries without touching the input slice.
func CloneCells(cells []WallCell) []WallCell {
	out := make([]WallCell, len(cells))
	copy(out, cells)
	return out
}
