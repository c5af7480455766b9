package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/wallplan/pkg/cache"
	"github.com/matzehuels/wallplan/pkg/dataplan"
	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/mirror"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/totals"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// WallPlan is the complete plan for one wall.
type WallPlan struct {
	WallID string            `json:"wall_id"`
	Name   string            `json:"name,omitempty"`
	Data   dataplan.Result   `json:"data"`
	Power  powerplan.Result  `json:"power"`
	Totals totals.WallTotals `json:"totals"`
}

// Warnings returns the data, power and totals warnings, each prefixed with
// its plan.
func (p WallPlan) Warnings() []string {
	var out []string
	for _, w := range p.Data.Warnings {
		out = append(out, "data: "+w)
	}
	for _, w := range p.Power.Warnings {
		out = append(out, "power: "+w)
	}
	for _, w := range p.Totals.Warnings() {
		out = append(out, "totals: "+w)
	}
	return out
}

// PlanSet holds the plans of a project's walls in project file order.
type PlanSet struct {
	Project     string     `json:"project,omitempty"`
	Generator   string     `json:"generator,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Walls       []WallPlan `json:"walls"`

	// CacheHits lists the walls whose plan came from the cache.
	CacheHits []string `json:"-"`
}

// Wall returns the plan for id.
func (s *PlanSet) Wall(id string) (WallPlan, bool) {
	for _, wp := range s.Walls {
		if wp.WallID == id {
			return wp, true
		}
	}
	return WallPlan{}, false
}

// Plan builds the plan for a standalone or master wall. It fails when the
// options or catalog references are invalid, or when the layout has bounds
// or overlap violations.
func Plan(cat wall.Catalog, e io.WallEntry, opts Options) (WallPlan, error) {
	o, w, err := opts.ForWall(e)
	if err != nil {
		return WallPlan{}, err
	}
	return plan(cat, w, e.Cells, o)
}

func plan(cat wall.Catalog, w wall.Wall, cells []wall.WallCell, o Options) (WallPlan, error) {
	if err := grid.Err(grid.Validate(w, cells)); err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}
	proc, err := resolveProcessor(cat, o.ProcessorID)
	if err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}
	src, err := powerplan.LookupSource(o.Source)
	if err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}

	data, err := dataplan.Build(dataplan.Input{
		Wall:      w,
		Cells:     cells,
		Variants:  cat.Variants,
		Processor: proc,
		Card:      o.Card,
		Options:   o.DataOptions(),
	})
	if err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}

	power, err := powerplan.Build(powerplan.Input{
		Wall:     w,
		Cells:    cells,
		Variants: cat.Variants,
		Source:   src,
		Feeds:    o.Feeds,
	})
	if err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}

	return WallPlan{
		WallID: w.ID,
		Name:   w.Name,
		Data:   data,
		Power:  power,
		Totals: totals.Aggregate(w, cells, cat.Variants),
	}, nil
}

// PlanMirror derives a mirror wall's plan from its master's. The runs and
// circuits are remapped by the mirror wall's flags; totals are computed from
// the mirror's own cells, or from the master's when the mirror has none.
func PlanMirror(cat wall.Catalog, master WallPlan, masterEntry, e io.WallEntry, opts Options) (WallPlan, error) {
	if err := mirror.Validate(e.Wall, masterEntry.Wall); err != nil {
		return WallPlan{}, err
	}
	o, w, err := opts.ForWall(e)
	if err != nil {
		return WallPlan{}, err
	}
	if err := grid.Err(grid.Validate(w, e.Cells)); err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}
	src, err := powerplan.LookupSource(o.Source)
	if err != nil {
		return WallPlan{}, wallErr(w.ID, err)
	}

	power, err := mirror.PowerPlan(master.Power, w, src.Circuits*o.Feeds)
	if err != nil {
		return WallPlan{}, err
	}

	cells := e.Cells
	if len(cells) == 0 {
		cells = masterEntry.Cells
	}
	return WallPlan{
		WallID: w.ID,
		Name:   w.Name,
		Data:   mirror.DataPlan(master.Data, w),
		Power:  power,
		Totals: totals.Aggregate(w, cells, cat.Variants),
	}, nil
}

// planInputs is everything that can change a wall's plan apart from the
// key options.
type planInputs struct {
	Wall       wall.Wall                      `json:"wall"`
	Cells      []wall.WallCell                `json:"cells"`
	Variants   map[string]wall.CabinetVariant `json:"variants"`
	Processors map[string]wall.ProcessorModel `json:"processors"`
}

// inputHash hashes the resolved wall, its cells and the catalog entries the
// planners read.
func inputHash(cat wall.Catalog, w wall.Wall, cells []wall.WallCell) (string, error) {
	h, err := cache.HashJSON(planInputs{
		Wall:       w,
		Cells:      cells,
		Variants:   cat.Variants,
		Processors: cat.Processors,
	})
	if err != nil {
		return "", fmt.Errorf("plan inputs: %w", err)
	}
	return h, nil
}
