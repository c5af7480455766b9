package wall

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// PowerProfile is a cabinet's electrical draw in watts at several operating
// points. Peak is optional; see CabinetVariant.EffectivePeak.
type PowerProfile struct {
	Min  float64           `json:"min" bson:"min"`
	Typ  float64           `json:"typ" bson:"typ"`
	Max  float64           `json:"max" bson:"max"`
	Peak Optional[float64] `json:"peak" bson:"-"`
}

// PowerTotals is a summed power profile with every operating point resolved.
type PowerTotals struct {
	Min  float64 `json:"min" bson:"min"`
	Typ  float64 `json:"typ" bson:"typ"`
	Max  float64 `json:"max" bson:"max"`
	Peak float64 `json:"peak" bson:"peak"`
}

// Add returns the sum of t and o.
func (t PowerTotals) Add(o PowerTotals) PowerTotals {
	return PowerTotals{
		Min:  t.Min + o.Min,
		Typ:  t.Typ + o.Typ,
		Max:  t.Max + o.Max,
		Peak: t.Peak + o.Peak,
	}
}

// Amps converts every operating point from watts to amps at volts.
func (t PowerTotals) Amps(volts Voltage) PowerTotals {
	v := float64(volts)
	if v <= 0 {
		return PowerTotals{}
	}
	return PowerTotals{Min: t.Min / v, Typ: t.Typ / v, Max: t.Max / v, Peak: t.Peak / v}
}

// CabinetVariant is a catalog entry describing one model of LED cabinet.
// Variants are owned by the catalog and never modified by the planner.
type CabinetVariant struct {
	ID          string       `json:"id" bson:"id"`
	Name        string       `json:"name,omitempty" bson:"name,omitempty"`
	WidthMM     float64      `json:"width_mm" bson:"width_mm"`
	HeightMM    float64      `json:"height_mm" bson:"height_mm"`
	UnitsWide   int          `json:"units_wide" bson:"units_wide"`
	UnitsHigh   int          `json:"units_high" bson:"units_high"`
	PixelWidth  int          `json:"pixel_width" bson:"pixel_width"`
	PixelHeight int          `json:"pixel_height" bson:"pixel_height"`
	WeightKG    float64      `json:"weight_kg" bson:"weight_kg"`
	Power       PowerProfile `json:"power" bson:"power"`

	// PeakFactor scales Max to estimate Peak when no explicit peak is given.
	PeakFactor Optional[float64] `json:"peak_factor" bson:"-"`

	// RecommendedPerCircuit maps CircuitKey(source, volts) to the maker's
	// recommended cabinet count per circuit.
	RecommendedPerCircuit map[string]int `json:"recommended_per_circuit,omitempty" bson:"recommended_per_circuit,omitempty"`
}

// CircuitKey builds the RecommendedPerCircuit key for a source type and voltage.
func CircuitKey(source string, volts Voltage) string {
	return fmt.Sprintf("%s@%d", source, volts)
}

// Pixels returns the cabinet's pixel count.
func (v CabinetVariant) Pixels() int { return v.PixelWidth * v.PixelHeight }

// PixelPitchMM returns the horizontal distance between adjacent pixels.
// It returns 0 for a variant without pixel data.
func (v CabinetVariant) PixelPitchMM() float64 {
	if v.PixelWidth <= 0 {
		return 0
	}
	return v.WidthMM / float64(v.PixelWidth)
}

// GridUnits returns the declared grid footprint, never smaller than 1×1.
func (v CabinetVariant) GridUnits() (w, h int) {
	return max(1, v.UnitsWide), max(1, v.UnitsHigh)
}

// FootprintUnits returns the variant's footprint on a grid whose base unit is
// unitMM millimeters: physical size divided by the unit, rounded to nearest,
// never smaller than one unit.
func (v CabinetVariant) FootprintUnits(unitMM float64) (w, h int) {
	if unitMM <= 0 {
		return v.GridUnits()
	}
	w = int(math.Round(v.WidthMM / unitMM))
	h = int(math.Round(v.HeightMM / unitMM))
	return max(1, w), max(1, h)
}

// UnitsOn returns the declared grid footprint when both dimensions are set,
// otherwise the footprint derived from the physical size on a unitMM grid.
func (v CabinetVariant) UnitsOn(unitMM float64) (w, h int) {
	if v.UnitsWide > 0 && v.UnitsHigh > 0 {
		return v.UnitsWide, v.UnitsHigh
	}
	return v.FootprintUnits(unitMM)
}

// EffectivePeak returns the explicit peak draw, or Max scaled by PeakFactor,
// or Max when neither is set.
func (v CabinetVariant) EffectivePeak() float64 {
	if p, ok := v.Power.Peak.Get(); ok {
		return p
	}
	if f, ok := v.PeakFactor.Get(); ok {
		return v.Power.Max * f
	}
	return v.Power.Max
}

// PowerTotals returns the variant's power profile with peak resolved.
func (v CabinetVariant) PowerTotals() PowerTotals {
	return PowerTotals{
		Min:  v.Power.Min,
		Typ:  v.Power.Typ,
		Max:  v.Power.Max,
		Peak: v.EffectivePeak(),
	}
}

// Validate checks that the variant has usable physical and pixel data.
func (v CabinetVariant) Validate() error {
	if err := errs.ValidateID("variant", v.ID); err != nil {
		return err
	}
	if err := errs.ValidatePositive(errs.ErrCodeInvalidVariant, "width_mm", v.WidthMM); err != nil {
		return err
	}
	if err := errs.ValidatePositive(errs.ErrCodeInvalidVariant, "height_mm", v.HeightMM); err != nil {
		return err
	}
	if v.PixelWidth < 0 || v.PixelHeight < 0 {
		return errs.New(errs.ErrCodeInvalidVariant, "variant %s has negative pixel dimensions", v.ID)
	}
	if v.Power.Min < 0 || v.Power.Typ < 0 || v.Power.Max < 0 {
		return errs.New(errs.ErrCodeInvalidVariant, "variant %s has negative power draw", v.ID)
	}
	return nil
}
