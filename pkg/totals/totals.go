// Package totals summarizes a wall's cabinets: counts, power, weight and
// an estimated pixel resolution.
package totals

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/wallplan/pkg/wall"
)

// KGToLBS converts kilograms to pounds.
const KGToLBS = 2.20462

// pitchTolerance is how close two pitches must be to count as one.
const pitchTolerance = 0.001

// VariantTotals is the share of a wall's totals contributed by one variant.
type VariantTotals struct {
	VariantID string           `json:"variant_id" bson:"variant_id"`
	Count     int              `json:"count" bson:"count"`
	Spares    int              `json:"spares" bson:"spares"`
	Power     wall.PowerTotals `json:"power" bson:"power"`
	WeightKG  float64          `json:"weight_kg" bson:"weight_kg"`
	Pixels    int              `json:"pixels" bson:"pixels"`
	PitchMM   float64          `json:"pitch_mm" bson:"pitch_mm"`
}

// WallTotals is the summary of one wall.
type WallTotals struct {
	WallID         string           `json:"wall_id" bson:"wall_id"`
	ActiveCabinets int              `json:"active_cabinets" bson:"active_cabinets"`
	SpareCabinets  int              `json:"spare_cabinets" bson:"spare_cabinets"`
	Power          wall.PowerTotals `json:"power" bson:"power"`
	WeightKG       float64          `json:"weight_kg" bson:"weight_kg"`
	WeightLBS      float64          `json:"weight_lbs" bson:"weight_lbs"`
	Pixels         int              `json:"pixels" bson:"pixels"`
	Variants       []VariantTotals  `json:"variants" bson:"variants"`

	// PitchesMM lists the distinct pixel pitches present, ascending.
	PitchesMM []float64 `json:"pitches_mm" bson:"pitches_mm"`

	// ResolutionWidth and ResolutionHeight estimate the wall's pixel
	// resolution from its physical size and the mean observed pitch.
	ResolutionWidth  int `json:"resolution_width" bson:"resolution_width"`
	ResolutionHeight int `json:"resolution_height" bson:"resolution_height"`

	MixedPitchWarning wall.Optional[string] `json:"mixed_pitch_warning" bson:"-"`
}

// Warnings returns the summary's warnings as a list.
func (t WallTotals) Warnings() []string {
	if msg, ok := t.MixedPitchWarning.Get(); ok {
		return []string{msg}
	}
	return []string{}
}

// Aggregate summarizes the active cabinets of w. Spares are counted but do
// not contribute power, weight or pixels. Cells whose variant is unknown are
// ignored.
func Aggregate(w wall.Wall, cells []wall.WallCell, variants map[string]wall.CabinetVariant) WallTotals {
	out := WallTotals{WallID: w.ID, Variants: []VariantTotals{}, PitchesMM: []float64{}}
	byVariant := map[string]*VariantTotals{}

	entry := func(v wall.CabinetVariant) *VariantTotals {
		vt, ok := byVariant[v.ID]
		if !ok {
			vt = &VariantTotals{VariantID: v.ID, PitchMM: v.PixelPitchMM()}
			byVariant[v.ID] = vt
		}
		return vt
	}

	for _, c := range cells {
		id, ok := c.VariantID.Get()
		if !ok {
			continue
		}
		v, ok := variants[id]
		if !ok {
			continue
		}

		switch c.Status {
		case wall.StatusSpare:
			out.SpareCabinets++
			entry(v).Spares++
		case wall.StatusActive:
			vt := entry(v)
			vt.Count++
			vt.Power = vt.Power.Add(v.PowerTotals())
			vt.WeightKG += v.WeightKG
			vt.Pixels += v.Pixels()

			out.ActiveCabinets++
			out.Power = out.Power.Add(v.PowerTotals())
			out.WeightKG += v.WeightKG
			out.Pixels += v.Pixels()
			out.PitchesMM = addPitch(out.PitchesMM, v.PixelPitchMM())
		}
	}

	ids := make([]string, 0, len(byVariant))
	for id := range byVariant {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out.Variants = append(out.Variants, *byVariant[id])
	}

	out.WeightLBS = out.WeightKG * KGToLBS
	sort.Float64s(out.PitchesMM)

	if mean := meanPitch(out.Variants); mean > 0 {
		out.ResolutionWidth = int(math.Round(w.WidthMM() / mean))
		out.ResolutionHeight = int(math.Round(w.HeightMM() / mean))
	}
	if len(out.PitchesMM) > 1 {
		out.MixedPitchWarning = wall.Some(mixedPitchMessage(out.PitchesMM))
	}
	return out
}

// addPitch appends p unless an equal pitch is already present. Cabinets
// without pixel data have no pitch and are skipped.
func addPitch(pitches []float64, p float64) []float64 {
	if p <= 0 {
		return pitches
	}
	for _, q := range pitches {
		if math.Abs(p-q) < pitchTolerance {
			return pitches
		}
	}
	return append(pitches, p)
}

// meanPitch is the unweighted mean pitch over the variants with active
// cabinets, one pitch per variant. Two variants sharing a pitch both count.
func meanPitch(variants []VariantTotals) float64 {
	sum, n := 0.0, 0
	for _, vt := range variants {
		if vt.Count == 0 || vt.PitchMM <= 0 {
			continue
		}
		sum += vt.PitchMM
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func mixedPitchMessage(pitches []float64) string {
	parts := make([]string, len(pitches))
	for i, p := range pitches {
		parts[i] = fmt.Sprintf("%.2fmm", p)
	}
	return fmt.Sprintf("wall mixes %d pixel pitches (%s); resolution is approximate", len(pitches), strings.Join(parts, ", "))
}
