package layout

import (
	"testing"

	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/wall"
)

var (
	square = wall.CabinetVariant{ID: "sq", UnitsWide: 1, UnitsHigh: 1}
	tall   = wall.CabinetVariant{ID: "tall", UnitsWide: 1, UnitsHigh: 2}
	block  = wall.CabinetVariant{ID: "block", UnitsWide: 2, UnitsHigh: 2}
	wide   = wall.CabinetVariant{ID: "wide", UnitsWide: 2, UnitsHigh: 1}
)

func TestAutoFillUniform(t *testing.T) {
	spec := FillSpec{WallID: "w", WidthUnits: 4, HeightUnits: 4, Primary: square}
	cells := AutoFill(grid.NewSequenceGenerator("c"), spec)

	if len(cells) != 16 {
		t.Fatalf("AutoFill() produced %d cells, want 16", len(cells))
	}
	for i, c := range cells {
		if want := grid.FormatLabel(i + 1); c.Label != want {
			t.Errorf("cells[%d].Label = %s, want %s", i, c.Label, want)
		}
		if c.Status != wall.StatusActive || c.WallID != "w" {
			t.Errorf("cells[%d] = %+v", i, c)
		}
	}
	if filled, total := Coverage(cells, 4, 4); filled != total {
		t.Errorf("Coverage() = %d/%d, want full", filled, total)
	}
	if v := grid.Validate(wall.Wall{WidthUnits: 4, HeightUnits: 4}, cells); len(v) != 0 {
		t.Errorf("Validate() = %v", v)
	}
	if cells[5].UnitX != 1 || cells[5].UnitY != 1 {
		t.Errorf("raster order broken: cells[5] at (%d,%d)", cells[5].UnitX, cells[5].UnitY)
	}
}

func TestAutoFillSecondaryColumns(t *testing.T) {
	spec := FillSpec{
		WallID:                 "w",
		WidthUnits:             6,
		HeightUnits:            3,
		Primary:                square,
		Secondary:              wall.Some(tall),
		SecondaryEveryNColumns: 3,
	}
	cells := AutoFill(nil, spec)

	if len(cells) != 16 {
		t.Fatalf("AutoFill() produced %d cells, want 16", len(cells))
	}

	var secondaries []wall.Rect
	for _, c := range cells {
		if c.VariantID == wall.Some("tall") {
			secondaries = append(secondaries, c.Rect())
		}
	}
	want := []wall.Rect{{X: 2, Y: 0, W: 1, H: 2}, {X: 5, Y: 0, W: 1, H: 2}}
	if len(secondaries) != len(want) {
		t.Fatalf("secondary cells = %v, want %v", secondaries, want)
	}
	for i := range want {
		if secondaries[i] != want[i] {
			t.Errorf("secondary[%d] = %v, want %v", i, secondaries[i], want[i])
		}
	}

	// The bottom row has no room for a tall cabinet, so the primary is used.
	last := cells[len(cells)-1]
	if last.VariantID != wall.Some("sq") || last.UnitX != 5 || last.UnitY != 2 {
		t.Errorf("last cell = %+v, want primary at (5,2)", last)
	}
	if filled, total := Coverage(cells, 6, 3); filled != total {
		t.Errorf("Coverage() = %d/%d, want full", filled, total)
	}
}

func TestAutoFillPeriodFloor(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		spec := FillSpec{WidthUnits: 4, HeightUnits: 1, Primary: square, Secondary: wall.Some(square), SecondaryEveryNColumns: n}
		if got := spec.period(); got != 2 {
			t.Errorf("period(%d) = %d, want 2", n, got)
		}
	}
}

func TestAutoFillLeavesGreedyGaps(t *testing.T) {
	tests := []struct {
		name       string
		spec       FillSpec
		wantCells  int
		wantFilled int
	}{
		{
			name:       "block on odd grid",
			spec:       FillSpec{WidthUnits: 5, HeightUnits: 3, Primary: block},
			wantCells:  2,
			wantFilled: 8,
		},
		{
			name: "secondary too wide is skipped, not swapped back",
			spec: FillSpec{
				WidthUnits: 2, HeightUnits: 2, Primary: square,
				Secondary: wall.Some(wide), SecondaryEveryNColumns: 2,
			},
			wantCells:  2,
			wantFilled: 2,
		},
		{
			name:       "empty grid",
			spec:       FillSpec{WidthUnits: 0, HeightUnits: 3, Primary: square},
			wantCells:  0,
			wantFilled: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := AutoFill(nil, tt.spec)
			if len(cells) != tt.wantCells {
				t.Errorf("AutoFill() produced %d cells, want %d", len(cells), tt.wantCells)
			}
			filled, _ := Coverage(cells, tt.spec.WidthUnits, tt.spec.HeightUnits)
			if filled != tt.wantFilled {
				t.Errorf("Coverage() filled = %d, want %d", filled, tt.wantFilled)
			}
		})
	}
}

func TestGaps(t *testing.T) {
	cells := AutoFill(nil, FillSpec{WidthUnits: 3, HeightUnits: 2, Primary: block})
	gaps := Gaps(cells, 3, 2)
	want := []wall.Rect{{X: 2, Y: 0, W: 1, H: 1}, {X: 2, Y: 1, W: 1, H: 1}}
	if len(gaps) != len(want) || gaps[0] != want[0] || gaps[1] != want[1] {
		t.Errorf("Gaps() = %v, want %v", gaps, want)
	}
}

func TestCoverageIgnoresMarkers(t *testing.T) {
	cells := []wall.WallCell{
		{UnitsWide: 2, UnitsHigh: 2, Status: wall.StatusVoid},
		{UnitX: 1, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusSpare},
		{UnitX: 3, UnitsWide: 4, UnitsHigh: 1, Status: wall.StatusActive},
	}
	filled, total := Coverage(cells, 4, 2)
	if filled != 2 || total != 8 {
		t.Errorf("Coverage() = %d/%d, want 2/8", filled, total)
	}
}

func TestAutoFillMatchesPlacementFootprint(t *testing.T) {
	w := wall.Wall{ID: "w", WidthUnits: 4, HeightUnits: 4, UnitSizeMM: 500}
	big := wall.CabinetVariant{ID: "big", WidthMM: 1000, HeightMM: 1000, PixelWidth: 256, PixelHeight: 256}

	cells := AutoFill(grid.NewSequenceGenerator("c"), ForWall(w, big))
	if len(cells) != 4 {
		t.Fatalf("AutoFill() produced %d cells, want 4", len(cells))
	}

	placed, err := grid.NewPlacer(grid.NewSequenceGenerator("p")).Place(w, nil, big, 0, 0)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	got, want := cells[0].Rect(), placed[0].Rect()
	if got.W != want.W || got.H != want.H {
		t.Errorf("auto-fill footprint %dx%d, placement footprint %dx%d", got.W, got.H, want.W, want.H)
	}
}

func TestAutoFillPrefersDeclaredUnits(t *testing.T) {
	w := wall.Wall{ID: "w", WidthUnits: 4, HeightUnits: 2, UnitSizeMM: 500}
	declared := wall.CabinetVariant{ID: "d", WidthMM: 1000, HeightMM: 1000, UnitsWide: 1, UnitsHigh: 1}

	if cells := AutoFill(nil, ForWall(w, declared)); len(cells) != 8 {
		t.Errorf("AutoFill() produced %d cells, want 8", len(cells))
	}
}
