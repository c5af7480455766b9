// Package dataplan groups a wall's cabinets into data runs and assigns each
// run to a processor port.
//
// # Algorithm
//
//  1. Banding: the wall is cut along every row line that no active cabinet
//     straddles ([SafeBoundaries]). Each non-empty strip between two
//     consecutive lines becomes one run.
//  2. Ordering: cabinets within a run are sorted along the cable path
//     ([Order]). Runs keep their top-to-bottom order.
//  3. Ports: run i is patched to port i mod Ports. A run is over-limit when
//     its pixel load exceeds the per-port budget for the receiving card or
//     when the processor has run out of fresh ports.
//
// Over-limit runs, near-capacity runs and skipped cabinets are reported as
// warnings on the [Result]; Build only fails for malformed input.
package dataplan

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Input is everything Build needs to plan one wall.
type Input struct {
	Wall      wall.Wall
	Cells     []wall.WallCell
	Variants  map[string]wall.CabinetVariant
	Processor wall.ProcessorModel
	Card      wall.ReceivingCard
	Options   Options
}

// Run is one data run: a band of cabinets daisy-chained from one port.
type Run struct {
	Index         int      `json:"index" bson:"index"`
	Port          int      `json:"port" bson:"port"`
	PortLabel     string   `json:"port_label" bson:"port_label"`
	BandTop       int      `json:"band_top" bson:"band_top"`
	BandBottom    int      `json:"band_bottom" bson:"band_bottom"`
	CabinetIDs    []string `json:"cabinet_ids" bson:"cabinet_ids"`
	CabinetLabels []string `json:"cabinet_labels" bson:"cabinet_labels"`
	CabinetCount  int      `json:"cabinet_count" bson:"cabinet_count"`
	Jumpers       int      `json:"jumpers" bson:"jumpers"`
	PixelLoad     int      `json:"pixel_load" bson:"pixel_load"`
	PortBudget    int      `json:"port_budget" bson:"port_budget"`

	UtilizationPercent float64 `json:"utilization_percent" bson:"utilization_percent"`
	OverLimit          bool    `json:"over_limit" bson:"over_limit"`

	LoomBundle    int     `json:"loom_bundle" bson:"loom_bundle"`
	PortGroup     int     `json:"port_group" bson:"port_group"`
	CableOrigin   string  `json:"cable_origin" bson:"cable_origin"`
	HomeRunMeters float64 `json:"home_run_meters" bson:"home_run_meters"`
}

// Result is a complete data plan for one wall.
type Result struct {
	WallID         string             `json:"wall_id" bson:"wall_id"`
	MirrorOf       string             `json:"mirror_of,omitempty" bson:"mirror_of,omitempty"`
	ProcessorID    string             `json:"processor_id" bson:"processor_id"`
	PortCount      int                `json:"port_count" bson:"port_count"`
	Card           wall.ReceivingCard `json:"card" bson:"card"`
	PathMode       PathMode           `json:"path_mode" bson:"path_mode"`
	LoomBundleSize int                `json:"loom_bundle_size" bson:"loom_bundle_size"`
	PortGroupSize  int                `json:"port_group_size" bson:"port_group_size"`
	Runs           []Run              `json:"runs" bson:"runs"`
	TotalPixels    int                `json:"total_pixels" bson:"total_pixels"`
	PortsUsed      int                `json:"ports_used" bson:"ports_used"`
	Warnings       []string           `json:"warnings" bson:"warnings"`
}

// OverLimitRuns returns the number of runs flagged over-limit.
func (r Result) OverLimitRuns() int {
	n := 0
	for _, run := range r.Runs {
		if run.OverLimit {
			n++
		}
	}
	return n
}

// PortLabel returns the display label for a 0-based port index.
func PortLabel(port int) string { return fmt.Sprintf("Port %d", port+1) }

// RunRef names a run in warnings, e.g. "run 2 (Port 2)". Every run warning
// starts with RunRef followed by a colon.
func RunRef(r Run) string { return fmt.Sprintf("run %d (%s)", r.Index+1, r.PortLabel) }

// LoomBundle returns the 1-based loom bundle for a 0-based port index.
func LoomBundle(port, size int) int { return port/max(1, size) + 1 }

// PortGroup returns the 1-based port group for a 0-based port index.
func PortGroup(port, size int) int { return port/max(1, size) + 1 }

// CableOrigin returns where home runs leave from for a deployment.
func CableOrigin(d wall.Deployment) string {
	if d == wall.DeploymentFlown {
		return "air"
	}
	return "ground"
}

// Build computes the data plan for one wall.
//
// It returns an error only when the wall, processor or options are
// malformed, or when the processor has no budget for the selected card.
// Identical inputs always produce identical results.
func Build(in Input) (Result, error) {
	w := in.Wall.WithDefaults()
	if err := w.Validate(); err != nil {
		return Result{}, err
	}
	if err := in.Processor.Validate(); err != nil {
		return Result{}, err
	}

	opts := in.Options
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	card := in.Card
	if card == "" {
		card = wall.DefaultCard
	}
	budget, ok := in.Processor.PortBudget(card)
	if !ok {
		return Result{}, errs.New(errs.ErrCodeInvalidProcessor, "processor %s has no pixel budget for %s cards", in.Processor.ID, card)
	}

	res := Result{
		WallID:         w.ID,
		ProcessorID:    in.Processor.ID,
		PortCount:      in.Processor.Ports,
		Card:           card,
		PathMode:       opts.PathMode,
		LoomBundleSize: opts.LoomBundleSize,
		PortGroupSize:  opts.PortGroupSize,
		Runs:           []Run{},
		Warnings:       []string{},
	}

	active, activeCount := activeCells(in.Cells, in.Variants, &res.Warnings)

	limit := float64(budget) * w.HardLimit() / 100
	advisory := float64(budget) * w.PlanningThreshold() / 100
	homeRun := EstimateHomeRunDistanceMeters(w.WidthMeters(), w.HeightMeters(), w.RackLocation)
	origin := CableOrigin(w.Deployment)

	for i, band := range Bands(active, w.HeightUnits, in.Variants) {
		ordered := Order(band.Cells, opts.PathMode)
		port := i % in.Processor.Ports

		run := Run{
			Index:              i,
			Port:               port,
			PortLabel:          PortLabel(port),
			BandTop:            band.Top,
			BandBottom:         band.Bottom,
			CabinetIDs:         make([]string, len(ordered)),
			CabinetLabels:      make([]string, len(ordered)),
			CabinetCount:       len(ordered),
			Jumpers:            max(0, len(ordered)-1),
			PixelLoad:          band.Pixels,
			PortBudget:         budget,
			UtilizationPercent: roundTo(float64(band.Pixels)/float64(budget)*100, 2),
			LoomBundle:         LoomBundle(port, opts.LoomBundleSize),
			PortGroup:          PortGroup(port, opts.PortGroupSize),
			CableOrigin:        origin,
			HomeRunMeters:      roundTo(homeRun, 2),
		}
		for j, c := range ordered {
			run.CabinetIDs[j] = c.ID
			run.CabinetLabels[j] = c.Label
		}

		if float64(band.Pixels) > limit {
			run.OverLimit = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: pixel load %d exceeds %s port budget of %d",
				RunRef(run), band.Pixels, card, int(limit)))
		}
		if i >= in.Processor.Ports {
			run.OverLimit = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: processor %s has only %d ports; run shares its port",
				RunRef(run), in.Processor.ID, in.Processor.Ports))
		}
		if !run.OverLimit && float64(band.Pixels) > advisory {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s: near port capacity at %.0f%% of budget",
				RunRef(run), run.UtilizationPercent))
		}

		res.TotalPixels += band.Pixels
		res.Runs = append(res.Runs, run)
	}

	res.PortsUsed = min(len(res.Runs), in.Processor.Ports)
	if activeCount > 0 && len(res.Runs) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"wall %s has %d active cabinets but no data runs were generated", w.ID, activeCount))
	}
	return res, nil
}

// activeCells returns the active cells whose variant resolves, appending a
// warning for each one that does not. It also returns the number of active
// cells seen.
func activeCells(cells []wall.WallCell, variants map[string]wall.CabinetVariant, warnings *[]string) ([]wall.WallCell, int) {
	var out []wall.WallCell
	n := 0
	for _, c := range cells {
		if c.Status != wall.StatusActive {
			continue
		}
		n++
		id, ok := c.VariantID.Get()
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("cabinet %s has no variant; skipped", c.Label))
			continue
		}
		if _, ok := variants[id]; !ok {
			*warnings = append(*warnings, fmt.Sprintf("cabinet %s references unknown variant %q; skipped", c.Label, id))
			continue
		}
		out = append(out, c)
	}
	return out, n
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
