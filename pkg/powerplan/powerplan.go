// Package powerplan distributes a wall's cabinets across power circuits.
//
// Cabinets are dealt onto circuits round-robin in row-major order. The
// assignment is not balanced by wattage; mixed variants can load circuits
// unevenly, which shows up as over-limit flags rather than being corrected.
//
// A circuit is over-limit when its typical draw exceeds the derated breaker
// capacity (80% of rating) or its maximum draw exceeds the raw rating.
package powerplan

import (
	"fmt"
	"math"
	"sort"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Input is everything Build needs to plan one wall's power.
type Input struct {
	Wall     wall.Wall
	Cells    []wall.WallCell
	Variants map[string]wall.CabinetVariant
	Source   SourceSpec

	// Feeds is the number of identical sources supplying the wall (default 1).
	Feeds int
}

// Circuit is one breaker-protected circuit and the cabinets it powers.
type Circuit struct {
	Number        int              `json:"number" bson:"number"`
	Feed          int              `json:"feed" bson:"feed"`
	Phase         string           `json:"phase" bson:"phase"`
	CabinetIDs    []string         `json:"cabinet_ids" bson:"cabinet_ids"`
	CabinetLabels []string         `json:"cabinet_labels" bson:"cabinet_labels"`
	CabinetCount  int              `json:"cabinet_count" bson:"cabinet_count"`
	Watts         wall.PowerTotals `json:"watts" bson:"watts"`
	Amps          wall.PowerTotals `json:"amps" bson:"amps"`
	BreakerAmps   float64          `json:"breaker_amps" bson:"breaker_amps"`
	DeratedAmps   float64          `json:"derated_amps" bson:"derated_amps"`
	LoadPercent   float64          `json:"load_percent" bson:"load_percent"`
	OverLimit     bool             `json:"over_limit" bson:"over_limit"`
}

// Result is a complete power plan for one wall.
type Result struct {
	WallID       string           `json:"wall_id" bson:"wall_id"`
	MirrorOf     string           `json:"mirror_of,omitempty" bson:"mirror_of,omitempty"`
	Source       SourceType       `json:"source" bson:"source"`
	Voltage      wall.Voltage     `json:"voltage" bson:"voltage"`
	Feeds        int              `json:"feeds" bson:"feeds"`
	CircuitCount int              `json:"circuit_count" bson:"circuit_count"`
	Circuits     []Circuit        `json:"circuits" bson:"circuits"`
	TotalWatts   wall.PowerTotals `json:"total_watts" bson:"total_watts"`
	TotalAmps    wall.PowerTotals `json:"total_amps" bson:"total_amps"`
	Warnings     []string         `json:"warnings" bson:"warnings"`
}

// CircuitRef names a circuit in warnings, e.g. "circuit 4 (phase A)". Every
// circuit warning starts with CircuitRef followed by a colon.
func CircuitRef(c Circuit) string { return fmt.Sprintf("circuit %d (phase %s)", c.Number, c.Phase) }

// OverLimitCircuits returns the number of circuits flagged over-limit.
func (r Result) OverLimitCircuits() int {
	n := 0
	for _, c := range r.Circuits {
		if c.OverLimit {
			n++
		}
	}
	return n
}

// Build computes the power plan for one wall.
func Build(in Input) (Result, error) {
	w := in.Wall.WithDefaults()
	if err := w.Validate(); err != nil {
		return Result{}, err
	}
	src := in.Source
	if src.Type == "" {
		src = sources[DefaultSource]
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "circuits", src.Circuits, 1); err != nil {
		return Result{}, err
	}
	if err := errs.ValidatePositive(errs.ErrCodeInvalidOptions, "breaker_amps", src.BreakerAmps); err != nil {
		return Result{}, err
	}
	feeds := in.Feeds
	if feeds == 0 {
		feeds = 1
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "feeds", feeds, 1); err != nil {
		return Result{}, err
	}

	total := src.Circuits * feeds
	res := Result{
		WallID:       w.ID,
		Source:       src.Type,
		Voltage:      w.Voltage,
		Feeds:        feeds,
		CircuitCount: total,
		Circuits:     make([]Circuit, total),
		Warnings:     []string{},
	}
	for k := range res.Circuits {
		res.Circuits[k] = Circuit{
			Number:        k + 1,
			Feed:          k/src.Circuits + 1,
			Phase:         src.Phase(k),
			CabinetIDs:    []string{},
			CabinetLabels: []string{},
			BreakerAmps:   src.BreakerAmps,
			DeratedAmps:   src.DeratedAmps(),
		}
	}

	cabinets := powered(in.Cells, in.Variants, &res.Warnings)
	perVariant := make([]map[string]int, total)
	for k, c := range cabinets {
		idx := k % total
		v := in.Variants[c.VariantID.OrElse("")]
		circ := &res.Circuits[idx]
		circ.CabinetIDs = append(circ.CabinetIDs, c.ID)
		circ.CabinetLabels = append(circ.CabinetLabels, c.Label)
		circ.CabinetCount++
		circ.Watts = circ.Watts.Add(v.PowerTotals())

		if perVariant[idx] == nil {
			perVariant[idx] = map[string]int{}
		}
		perVariant[idx][v.ID]++
	}

	advisory := src.DeratedAmps() * w.PlanningThreshold() / 100
	for k := range res.Circuits {
		circ := &res.Circuits[k]
		circ.Amps = circ.Watts.Amps(w.Voltage)
		circ.LoadPercent = math.Round(circ.Amps.Typ/circ.DeratedAmps*10000) / 100

		if circ.Amps.Typ > circ.DeratedAmps {
			circ.OverLimit = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: typical draw %.1fA exceeds derated %.1fA",
				CircuitRef(*circ), circ.Amps.Typ, circ.DeratedAmps))
		}
		if circ.Amps.Max > circ.BreakerAmps {
			circ.OverLimit = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: max draw %.1fA exceeds %.0fA breaker",
				CircuitRef(*circ), circ.Amps.Max, circ.BreakerAmps))
		}
		if !circ.OverLimit && circ.Amps.Typ > advisory {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: near capacity at %.0f%% of derated rating",
				CircuitRef(*circ), circ.LoadPercent))
		}
		res.Warnings = append(res.Warnings, recommendationWarnings(*circ, perVariant[k], in.Variants, src.Type, w.Voltage)...)

		res.TotalWatts = res.TotalWatts.Add(circ.Watts)
	}
	res.TotalAmps = res.TotalWatts.Amps(w.Voltage)
	return res, nil
}

// powered returns active cabinets with a resolvable variant in row-major
// order (y, then x, then label). Unresolvable cabinets get a warning.
func powered(cells []wall.WallCell, variants map[string]wall.CabinetVariant, warnings *[]string) []wall.WallCell {
	var out []wall.WallCell
	for _, c := range cells {
		if c.Status != wall.StatusActive {
			continue
		}
		id, ok := c.VariantID.Get()
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("cabinet %s has no variant; not powered", c.Label))
			continue
		}
		if _, ok := variants[id]; !ok {
			*warnings = append(*warnings, fmt.Sprintf("cabinet %s references unknown variant %q; not powered", c.Label, id))
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UnitY != b.UnitY {
			return a.UnitY < b.UnitY
		}
		if a.UnitX != b.UnitX {
			return a.UnitX < b.UnitX
		}
		return a.Label < b.Label
	})
	return out
}

func recommendationWarnings(c Circuit, counts map[string]int, variants map[string]wall.CabinetVariant, src SourceType, volts wall.Voltage) []string {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	key := wall.CircuitKey(string(src), volts)
	var out []string
	for _, id := range ids {
		rec, ok := variants[id].RecommendedPerCircuit[key]
		if !ok || rec <= 0 || counts[id] <= rec {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %d × %s exceeds recommended %d per %s circuit",
			CircuitRef(c), counts[id], id, rec, key))
	}
	return out
}
