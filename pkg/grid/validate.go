package grid

import (
	"fmt"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Violation is one broken layout rule found by Validate.
type Violation struct {
	Code    errs.Code `json:"code"`
	CellID  string    `json:"cell_id"`
	Label   string    `json:"label"`
	OtherID string    `json:"other_id,omitempty"`
	Message string    `json:"message"`
}

func (v Violation) String() string { return fmt.Sprintf("%s: %s", v.Code, v.Message) }

// Validate checks a loaded layout and reports every cell outside the wall
// and every overlapping pair of physical cells. Each pair is reported once,
// in list order. A nil result means the layout is valid.
func Validate(w wall.Wall, cells []wall.WallCell) []Violation {
	var out []Violation

	for _, c := range cells {
		if c.UnitsWide < 1 || c.UnitsHigh < 1 {
			out = append(out, Violation{
				Code:    errs.ErrCodeInvalidInput,
				CellID:  c.ID,
				Label:   c.Label,
				Message: fmt.Sprintf("%s has an empty footprint %dx%d", c.Label, c.UnitsWide, c.UnitsHigh),
			})
			continue
		}
		if !InBounds(w, c.Rect()) {
			out = append(out, Violation{
				Code:   errs.ErrCodeOutOfBounds,
				CellID: c.ID,
				Label:  c.Label,
				Message: fmt.Sprintf("%s at (%d,%d) size %dx%d exceeds %dx%d wall",
					c.Label, c.UnitX, c.UnitY, c.UnitsWide, c.UnitsHigh, w.WidthUnits, w.HeightUnits),
			})
		}
	}

	for i := range cells {
		a := cells[i]
		if !a.IsPhysical() {
			continue
		}
		for j := i + 1; j < len(cells); j++ {
			b := cells[j]
			if !b.IsPhysical() || !a.Rect().Overlaps(b.Rect()) {
				continue
			}
			out = append(out, Violation{
				Code:    errs.ErrCodeOverlap,
				CellID:  b.ID,
				Label:   b.Label,
				OtherID: a.ID,
				Message: fmt.Sprintf("%s at (%d,%d) overlaps %s at (%d,%d)", b.Label, b.UnitX, b.UnitY, a.Label, a.UnitX, a.UnitY),
			})
		}
	}
	return out
}

// Err folds violations into a single error carrying the first violation's
// code, or nil when there are none.
func Err(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	first := violations[0]
	if len(violations) == 1 {
		return errs.New(first.Code, "%s", first.Message)
	}
	return errs.New(first.Code, "%s (and %d more)", first.Message, len(violations)-1)
}
