package powerplan

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

func variant(id string, typW, maxW float64) wall.CabinetVariant {
	return wall.CabinetVariant{
		ID: id, WidthMM: 500, HeightMM: 500, UnitsWide: 1, UnitsHigh: 1,
		Power: wall.PowerProfile{Min: typW / 4, Typ: typW, Max: maxW},
	}
}

func row(v wall.CabinetVariant, n int) []wall.WallCell {
	cells := make([]wall.WallCell, n)
	for i := range cells {
		cells[i] = wall.WallCell{
			ID: fmt.Sprintf("c%d", i+1), Label: fmt.Sprintf("C%03d", i+1), VariantID: wall.Some(v.ID),
			UnitX: i, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive,
		}
	}
	return cells
}

func socapex(t *testing.T) SourceSpec {
	t.Helper()
	s, err := LookupSource("socapex")
	require.NoError(t, err)
	return s
}

func TestLookupSource(t *testing.T) {
	tests := []struct {
		name     string
		want     SourceType
		circuits int
		breaker  float64
		phases   string
	}{
		{"20A", SourceEdison20A, 1, 20, "A"},
		{"edison", SourceEdison20A, 1, 20, "A"},
		{"SOCAPEX", SourceSocapex, 6, 20, "ABCABC"},
		{"soca", SourceSocapex, 6, 20, "ABCABC"},
		{"L21-30", SourceL2130, 3, 30, "ABC"},
		{"l21", SourceL2130, 3, 30, "ABC"},
		{"", SourceSocapex, 6, 20, "ABCABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LookupSource(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Type)
			assert.Equal(t, tt.circuits, s.Circuits)
			assert.Equal(t, tt.breaker, s.BreakerAmps)
			assert.Equal(t, tt.phases, strings.Join(s.Phases, ""))
		})
	}

	_, err := LookupSource("camlock")
	assert.True(t, errs.Is(err, errs.ErrCodeUnknownSource))
}

func TestLookupSourceReturnsCopy(t *testing.T) {
	a := socapex(t)
	a.Phases[0] = "Z"
	b := socapex(t)
	assert.Equal(t, "A", b.Phases[0])
}

func TestBuildRoundRobin(t *testing.T) {
	v := variant("p", 208, 312)
	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 8, HeightUnits: 1, UnitSizeMM: 500},
		Cells:    row(v, 8),
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   socapex(t),
	})
	require.NoError(t, err)
	require.Len(t, res.Circuits, 6)

	assert.Equal(t, []string{"c1", "c7"}, res.Circuits[0].CabinetIDs)
	assert.Equal(t, []string{"c2", "c8"}, res.Circuits[1].CabinetIDs)
	assert.Equal(t, 1, res.Circuits[5].CabinetCount)

	phases := make([]string, len(res.Circuits))
	for i, c := range res.Circuits {
		phases[i] = c.Phase
		assert.Equal(t, i+1, c.Number)
		assert.Equal(t, 16.0, c.DeratedAmps)
	}
	assert.Equal(t, "ABCABC", strings.Join(phases, ""))

	assert.InDelta(t, 2.0, res.Circuits[0].Amps.Typ, 1e-9)
	assert.InDelta(t, 8*208.0, res.TotalWatts.Typ, 1e-9)
	assert.InDelta(t, 8.0, res.TotalAmps.Typ, 1e-9)
	assert.InDelta(t, 8*312.0, res.TotalWatts.Peak, 1e-9, "peak falls back to max")
	assert.Empty(t, res.Warnings)
}

func TestBuildRowMajorOrder(t *testing.T) {
	v := variant("p", 100, 100)
	cells := []wall.WallCell{
		{ID: "b", Label: "C002", VariantID: wall.Some("p"), UnitX: 0, UnitY: 1, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive},
		{ID: "a", Label: "C001", VariantID: wall.Some("p"), UnitX: 1, UnitY: 0, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive},
		{ID: "c", Label: "C003", VariantID: wall.Some("p"), UnitX: 0, UnitY: 0, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive},
	}
	edison, err := LookupSource("20A")
	require.NoError(t, err)

	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 2, HeightUnits: 2, UnitSizeMM: 500},
		Cells:    cells,
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   edison,
		Feeds:    3,
	})
	require.NoError(t, err)
	require.Len(t, res.Circuits, 3)
	assert.Equal(t, []string{"c"}, res.Circuits[0].CabinetIDs)
	assert.Equal(t, []string{"a"}, res.Circuits[1].CabinetIDs)
	assert.Equal(t, []string{"b"}, res.Circuits[2].CabinetIDs)
	assert.Equal(t, 3, res.Circuits[2].Feed)
	assert.Equal(t, 3, res.Feeds)
}

func TestBuildDerating(t *testing.T) {
	tests := []struct {
		name         string
		typAmps      float64
		maxAmps      float64
		wantOver     bool
		wantAdvisory bool
	}{
		{"17A typical exceeds derated 16A", 17, 18, true, false},
		{"15A typical is within derating", 15, 18, false, true},
		{"max over breaker", 10, 21, true, false},
		{"light load", 5, 8, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := variant("p", tt.typAmps*208, tt.maxAmps*208)
			res, err := Build(Input{
				Wall:     wall.Wall{ID: "w", WidthUnits: 1, HeightUnits: 1, UnitSizeMM: 500, Voltage: wall.Voltage208},
				Cells:    row(v, 1),
				Variants: map[string]wall.CabinetVariant{v.ID: v},
				Source:   socapex(t),
			})
			require.NoError(t, err)

			c := res.Circuits[0]
			assert.InDelta(t, tt.typAmps, c.Amps.Typ, 1e-9)
			assert.Equal(t, tt.wantOver, c.OverLimit)
			assert.Equal(t, tt.wantOver, res.OverLimitCircuits() == 1)

			advisory := false
			for _, w := range res.Warnings {
				if strings.Contains(w, "near capacity") {
					advisory = true
				}
			}
			assert.Equal(t, tt.wantAdvisory, advisory, "warnings: %q", res.Warnings)
		})
	}
}

func TestBuildVoltage(t *testing.T) {
	v := variant("p", 1200, 1200)
	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 1, HeightUnits: 1, UnitSizeMM: 500, Voltage: wall.Voltage120},
		Cells:    row(v, 1),
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   socapex(t),
	})
	require.NoError(t, err)
	assert.Equal(t, wall.Voltage120, res.Voltage)
	assert.InDelta(t, 10.0, res.Circuits[0].Amps.Typ, 1e-9)
}

func TestBuildRecommendedPerCircuit(t *testing.T) {
	v := variant("p", 100, 100)
	v.RecommendedPerCircuit = map[string]int{"EDISON_20A@208": 2}
	edison, err := LookupSource("20A")
	require.NoError(t, err)

	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 3, HeightUnits: 1, UnitSizeMM: 500},
		Cells:    row(v, 3),
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   edison,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "exceeds recommended 2")
}

func TestNormalizeCircuitKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"20A@120", "EDISON_20A@120"},
		{"edison@208", "EDISON_20A@208"},
		{"SOCAPEX@208", "SOCAPEX@208"},
		{"soca@120", "SOCAPEX@120"},
		{"L21@208", "L21-30@208"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := NormalizeCircuitKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"SOCAPEX", "@208", "SOCAPEX@", "SOCAPEX@hot", "CAMLOCK@208"} {
		_, err := NormalizeCircuitKey(bad)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidVariant), "%q: got %v", bad, err)
	}
}

func TestBuildRecommendedPerCircuitAliasKey(t *testing.T) {
	key, err := NormalizeCircuitKey("20A@120")
	require.NoError(t, err)
	v := variant("p", 100, 100)
	v.RecommendedPerCircuit = map[string]int{key: 2}
	edison, err := LookupSource("20A")
	require.NoError(t, err)

	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 3, HeightUnits: 1, UnitSizeMM: 500, Voltage: wall.Voltage120},
		Cells:    row(v, 3),
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   edison,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"circuit 1 (phase A): 3 × p exceeds recommended 2 per EDISON_20A@120 circuit"}, res.Warnings)
}

func TestBuildSkipsNonActive(t *testing.T) {
	v := variant("p", 100, 100)
	cells := row(v, 4)
	cells[1].Status = wall.StatusSpare
	cells[2].Status = wall.StatusVoid
	cells[3].VariantID = wall.Some("ghost")

	res, err := Build(Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 4, HeightUnits: 1, UnitSizeMM: 500},
		Cells:    cells,
		Variants: map[string]wall.CabinetVariant{v.ID: v},
		Source:   socapex(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Circuits[0].CabinetCount)
	assert.InDelta(t, 100.0, res.TotalWatts.Typ, 1e-9)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "ghost")
}

func TestBuildRejectsMalformedInput(t *testing.T) {
	w := wall.Wall{ID: "w", WidthUnits: 1, HeightUnits: 1, UnitSizeMM: 500}

	_, err := Build(Input{Wall: w, Source: socapex(t), Feeds: -1})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidOptions))

	_, err = Build(Input{Wall: w, Source: SourceSpec{Type: "CUSTOM", Circuits: 0, BreakerAmps: 20}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidOptions))

	w.UnitSizeMM = 0
	_, err = Build(Input{Wall: w, Source: socapex(t)})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidWall))
}

func TestBuildIsDeterministic(t *testing.T) {
	a := variant("a", 150, 300)
	b := variant("b", 220, 410)
	cells := append(row(a, 5), row(b, 5)...)
	for i := 5; i < 10; i++ {
		cells[i].UnitY = 1
		cells[i].UnitX = i - 5
		cells[i].ID = fmt.Sprintf("b%d", i)
	}
	in := Input{
		Wall:     wall.Wall{ID: "w", WidthUnits: 5, HeightUnits: 2, UnitSizeMM: 500},
		Cells:    cells,
		Variants: map[string]wall.CabinetVariant{a.ID: a, b.ID: b},
		Source:   socapex(t),
	}

	r1, err := Build(in)
	require.NoError(t, err)
	r2, err := Build(in)
	require.NoError(t, err)

	j1, _ := json.Marshal(r1)
	j2, _ := json.Marshal(r2)
	assert.JSONEq(t, string(j1), string(j2))
}
