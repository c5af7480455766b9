package totals

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/wallplan/pkg/wall"
)

var (
	p26 = wall.CabinetVariant{
		ID: "p2.6", WidthMM: 500, HeightMM: 500, PixelWidth: 192, PixelHeight: 192, WeightKG: 7.5,
		Power: wall.PowerProfile{Min: 20, Typ: 80, Max: 180},
	}
	p39 = wall.CabinetVariant{
		ID: "p3.9", WidthMM: 500, HeightMM: 1000, PixelWidth: 128, PixelHeight: 256, WeightKG: 12,
		Power: wall.PowerProfile{Min: 30, Typ: 120, Max: 260, Peak: wall.Some(300.0)},
	}
	p26b = wall.CabinetVariant{
		ID: "p2.6-curve", WidthMM: 500, HeightMM: 500, PixelWidth: 192, PixelHeight: 192, WeightKG: 8,
	}
	catalog = map[string]wall.CabinetVariant{p26.ID: p26, p39.ID: p39, p26b.ID: p26b}
)

func cabinet(v string, status wall.Status) wall.WallCell {
	return wall.WallCell{VariantID: wall.Some(v), UnitsWide: 1, UnitsHigh: 1, Status: status}
}

func TestAggregateSinglePitch(t *testing.T) {
	w := wall.Wall{ID: "main", WidthUnits: 8, HeightUnits: 4, UnitSizeMM: 500}
	cells := []wall.WallCell{
		cabinet("p2.6", wall.StatusActive),
		cabinet("p2.6", wall.StatusActive),
		cabinet("p2.6", wall.StatusSpare),
		cabinet("p2.6-curve", wall.StatusActive),
		{Status: wall.StatusVoid, UnitsWide: 1, UnitsHigh: 1},
	}

	got := Aggregate(w, cells, catalog)

	if got.ActiveCabinets != 3 || got.SpareCabinets != 1 {
		t.Errorf("counts = %d active / %d spare, want 3 / 1", got.ActiveCabinets, got.SpareCabinets)
	}
	if got.MixedPitchWarning.IsSome() {
		t.Errorf("MixedPitchWarning = %v, want none for equal pitches", got.MixedPitchWarning)
	}
	if len(got.PitchesMM) != 1 {
		t.Errorf("PitchesMM = %v, want one pitch", got.PitchesMM)
	}
	if got.WeightKG != 23 {
		t.Errorf("WeightKG = %v, want 23", got.WeightKG)
	}
	if math.Abs(got.WeightLBS-23*KGToLBS) > 1e-9 {
		t.Errorf("WeightLBS = %v, want %v", got.WeightLBS, 23*KGToLBS)
	}
	if got.Pixels != 3*192*192 {
		t.Errorf("Pixels = %d, want %d", got.Pixels, 3*192*192)
	}
	if got.ResolutionWidth != 8*192 || got.ResolutionHeight != 4*192 {
		t.Errorf("resolution = %dx%d, want %dx%d", got.ResolutionWidth, got.ResolutionHeight, 8*192, 4*192)
	}
	if want := (wall.PowerTotals{Min: 40, Typ: 160, Max: 360, Peak: 360}); got.Power != want {
		t.Errorf("Power = %+v, want %+v", got.Power, want)
	}
	if len(got.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want empty", got.Warnings())
	}
}

func TestAggregateMixedPitch(t *testing.T) {
	w := wall.Wall{ID: "main", WidthUnits: 4, HeightUnits: 2, UnitSizeMM: 500}
	cells := []wall.WallCell{
		cabinet("p2.6", wall.StatusActive),
		cabinet("p3.9", wall.StatusActive),
	}

	got := Aggregate(w, cells, catalog)

	msg, ok := got.MixedPitchWarning.Get()
	if !ok {
		t.Fatal("MixedPitchWarning missing for two pitches")
	}
	if !strings.Contains(msg, "2 pixel pitches") {
		t.Errorf("MixedPitchWarning = %q", msg)
	}

	mean := (500.0/192 + 500.0/128) / 2
	if want := int(math.Round(2000 / mean)); got.ResolutionWidth != want {
		t.Errorf("ResolutionWidth = %d, want %d (unweighted mean pitch)", got.ResolutionWidth, want)
	}
	if got.Power.Peak != 180+300 {
		t.Errorf("Power.Peak = %v, want 480", got.Power.Peak)
	}
}

func TestAggregateMeanPitchPerVariant(t *testing.T) {
	w := wall.Wall{ID: "main", WidthUnits: 6, HeightUnits: 2, UnitSizeMM: 500}
	cells := []wall.WallCell{
		cabinet("p2.6", wall.StatusActive),
		cabinet("p2.6-curve", wall.StatusActive),
		cabinet("p3.9", wall.StatusActive),
		cabinet("p3.9", wall.StatusActive),
	}

	got := Aggregate(w, cells, catalog)

	if len(got.PitchesMM) != 2 {
		t.Errorf("PitchesMM = %v, want two distinct pitches", got.PitchesMM)
	}
	if msg, _ := got.MixedPitchWarning.Get(); !strings.Contains(msg, "2 pixel pitches") {
		t.Errorf("MixedPitchWarning = %q", msg)
	}

	// p2.6 and p2.6-curve share a pitch but each variant counts once.
	mean := (2*500.0/192 + 500.0/128) / 3
	if want := int(math.Round(3000 / mean)); got.ResolutionWidth != want {
		t.Errorf("ResolutionWidth = %d, want %d (mean over variants)", got.ResolutionWidth, want)
	}
	if want := int(math.Round(1000 / mean)); got.ResolutionHeight != want {
		t.Errorf("ResolutionHeight = %d, want %d", got.ResolutionHeight, want)
	}
}

func TestAggregateVariantBreakdown(t *testing.T) {
	w := wall.Wall{ID: "main", WidthUnits: 4, HeightUnits: 4, UnitSizeMM: 500}
	cells := []wall.WallCell{
		cabinet("p3.9", wall.StatusActive),
		cabinet("p2.6", wall.StatusActive),
		cabinet("p3.9", wall.StatusSpare),
		cabinet("p3.9", wall.StatusActive),
		cabinet("unknown", wall.StatusActive),
	}

	got := Aggregate(w, cells, catalog)
	if len(got.Variants) != 2 {
		t.Fatalf("Variants = %+v, want 2 entries", got.Variants)
	}
	if got.Variants[0].VariantID != "p2.6" || got.Variants[1].VariantID != "p3.9" {
		t.Errorf("Variants not sorted by id: %s, %s", got.Variants[0].VariantID, got.Variants[1].VariantID)
	}
	v := got.Variants[1]
	if v.Count != 2 || v.Spares != 1 || v.WeightKG != 24 || v.Pixels != 2*128*256 {
		t.Errorf("p3.9 breakdown = %+v", v)
	}
	if got.ActiveCabinets != 3 {
		t.Errorf("ActiveCabinets = %d, want 3 (unknown variant ignored)", got.ActiveCabinets)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(wall.Wall{ID: "w", WidthUnits: 2, HeightUnits: 2, UnitSizeMM: 500}, nil, catalog)
	if got.ActiveCabinets != 0 || got.ResolutionWidth != 0 || got.MixedPitchWarning.IsSome() {
		t.Errorf("Aggregate(empty) = %+v", got)
	}
	if got.Variants == nil || got.PitchesMM == nil {
		t.Error("empty totals should use empty slices, not nil")
	}
}
