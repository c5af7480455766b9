package io

import (
	"fmt"
	"sort"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/grid"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// On-disk schema. Field tags cover all three formats so one set of structs
// serves TOML, YAML and JSON.

type projectFile struct {
	Name       string          `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Variants   []variantFile   `toml:"variants" yaml:"variants" json:"variants"`
	Processors []processorFile `toml:"processors" yaml:"processors" json:"processors"`
	Walls      []wallFile      `toml:"walls" yaml:"walls" json:"walls"`
}

type variantFile struct {
	ID          string   `toml:"id" yaml:"id" json:"id"`
	Name        string   `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	WidthMM     float64  `toml:"width_mm" yaml:"width_mm" json:"width_mm"`
	HeightMM    float64  `toml:"height_mm" yaml:"height_mm" json:"height_mm"`
	UnitsWide   int      `toml:"units_wide,omitempty" yaml:"units_wide,omitempty" json:"units_wide,omitempty"`
	UnitsHigh   int      `toml:"units_high,omitempty" yaml:"units_high,omitempty" json:"units_high,omitempty"`
	PixelWidth  int      `toml:"pixel_width" yaml:"pixel_width" json:"pixel_width"`
	PixelHeight int      `toml:"pixel_height" yaml:"pixel_height" json:"pixel_height"`
	WeightKG    float64  `toml:"weight_kg,omitempty" yaml:"weight_kg,omitempty" json:"weight_kg,omitempty"`
	PowerMin    float64  `toml:"power_min,omitempty" yaml:"power_min,omitempty" json:"power_min,omitempty"`
	PowerTyp    float64  `toml:"power_typ,omitempty" yaml:"power_typ,omitempty" json:"power_typ,omitempty"`
	PowerMax    float64  `toml:"power_max,omitempty" yaml:"power_max,omitempty" json:"power_max,omitempty"`
	PowerPeak   *float64 `toml:"power_peak,omitempty" yaml:"power_peak,omitempty" json:"power_peak,omitempty"`
	PeakFactor  *float64 `toml:"peak_factor,omitempty" yaml:"peak_factor,omitempty" json:"peak_factor,omitempty"`

	RecommendedPerCircuit map[string]int `toml:"recommended_per_circuit,omitempty" yaml:"recommended_per_circuit,omitempty" json:"recommended_per_circuit,omitempty"`
}

type processorFile struct {
	ID               string         `toml:"id" yaml:"id" json:"id"`
	Name             string         `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Ports            int            `toml:"ports" yaml:"ports" json:"ports"`
	MaxPixelsPerPort map[string]int `toml:"max_pixels_per_port" yaml:"max_pixels_per_port" json:"max_pixels_per_port"`
}

type wallFile struct {
	ID             string  `toml:"id" yaml:"id" json:"id"`
	Name           string  `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	WidthUnits     int     `toml:"width_units" yaml:"width_units" json:"width_units"`
	HeightUnits    int     `toml:"height_units" yaml:"height_units" json:"height_units"`
	UnitSizeMM     float64 `toml:"unit_size_mm" yaml:"unit_size_mm" json:"unit_size_mm"`
	Voltage        int     `toml:"voltage,omitempty" yaml:"voltage,omitempty" json:"voltage,omitempty"`
	RackLocation   string  `toml:"rack_location,omitempty" yaml:"rack_location,omitempty" json:"rack_location,omitempty"`
	Deployment     string  `toml:"deployment,omitempty" yaml:"deployment,omitempty" json:"deployment,omitempty"`
	ImagRole       string  `toml:"imag_role,omitempty" yaml:"imag_role,omitempty" json:"imag_role,omitempty"`
	ImagMaster     string  `toml:"imag_master,omitempty" yaml:"imag_master,omitempty" json:"imag_master,omitempty"`
	MirrorPorts    bool    `toml:"mirror_ports,omitempty" yaml:"mirror_ports,omitempty" json:"mirror_ports,omitempty"`
	MirrorCircuits bool    `toml:"mirror_circuits,omitempty" yaml:"mirror_circuits,omitempty" json:"mirror_circuits,omitempty"`

	PlanningThresholdPercent float64 `toml:"planning_threshold_percent,omitempty" yaml:"planning_threshold_percent,omitempty" json:"planning_threshold_percent,omitempty"`
	HardLimitPercent         float64 `toml:"hard_limit_percent,omitempty" yaml:"hard_limit_percent,omitempty" json:"hard_limit_percent,omitempty"`

	Plan  planFile   `toml:"plan,omitempty" yaml:"plan,omitempty" json:"plan,omitempty"`
	Cells []cellFile `toml:"cells,omitempty" yaml:"cells,omitempty" json:"cells,omitempty"`
}

type planFile struct {
	PathMode       string `toml:"path_mode,omitempty" yaml:"path_mode,omitempty" json:"path_mode,omitempty"`
	LoomBundleSize int    `toml:"loom_bundle_size,omitempty" yaml:"loom_bundle_size,omitempty" json:"loom_bundle_size,omitempty"`
	PortGroupSize  int    `toml:"port_group_size,omitempty" yaml:"port_group_size,omitempty" json:"port_group_size,omitempty"`
	Source         string `toml:"source,omitempty" yaml:"source,omitempty" json:"source,omitempty"`
	Feeds          int    `toml:"feeds,omitempty" yaml:"feeds,omitempty" json:"feeds,omitempty"`
	Processor      string `toml:"processor,omitempty" yaml:"processor,omitempty" json:"processor,omitempty"`
	Card           string `toml:"card,omitempty" yaml:"card,omitempty" json:"card,omitempty"`
}

type cellFile struct {
	ID      string `toml:"id,omitempty" yaml:"id,omitempty" json:"id,omitempty"`
	Label   string `toml:"label,omitempty" yaml:"label,omitempty" json:"label,omitempty"`
	Variant string `toml:"variant,omitempty" yaml:"variant,omitempty" json:"variant,omitempty"`
	X       int    `toml:"x" yaml:"x" json:"x"`
	Y       int    `toml:"y" yaml:"y" json:"y"`
	W       int    `toml:"w,omitempty" yaml:"w,omitempty" json:"w,omitempty"`
	H       int    `toml:"h,omitempty" yaml:"h,omitempty" json:"h,omitempty"`
	Status  string `toml:"status,omitempty" yaml:"status,omitempty" json:"status,omitempty"`
	Notes   string `toml:"notes,omitempty" yaml:"notes,omitempty" json:"notes,omitempty"`
}

// =============================================================================
// File -> Project
// =============================================================================

func (f projectFile) toProject() (Project, error) {
	variants := make([]wall.CabinetVariant, len(f.Variants))
	for i, v := range f.Variants {
		cv, err := v.toVariant()
		if err != nil {
			return Project{}, err
		}
		variants[i] = cv
	}
	processors := make([]wall.ProcessorModel, len(f.Processors))
	for i, p := range f.Processors {
		pm, err := p.toProcessor()
		if err != nil {
			return Project{}, err
		}
		processors[i] = pm
	}

	p := Project{Name: f.Name, Catalog: wall.NewCatalog(variants, processors)}
	for _, wf := range f.Walls {
		e, err := wf.toEntry(p.Catalog)
		if err != nil {
			return Project{}, err
		}
		p.Walls = append(p.Walls, e)
	}
	return p, nil
}

func (v variantFile) toVariant() (wall.CabinetVariant, error) {
	rec, err := circuitKeys(v.RecommendedPerCircuit)
	if err != nil {
		return wall.CabinetVariant{}, errs.Wrap(errs.ErrCodeInvalidVariant, err, "variant %s", v.ID)
	}
	return wall.CabinetVariant{
		ID:          v.ID,
		Name:        v.Name,
		WidthMM:     v.WidthMM,
		HeightMM:    v.HeightMM,
		UnitsWide:   v.UnitsWide,
		UnitsHigh:   v.UnitsHigh,
		PixelWidth:  v.PixelWidth,
		PixelHeight: v.PixelHeight,
		WeightKG:    v.WeightKG,
		Power: wall.PowerProfile{
			Min:  v.PowerMin,
			Typ:  v.PowerTyp,
			Max:  v.PowerMax,
			Peak: wall.FromPtr(v.PowerPeak),
		},
		PeakFactor:            wall.FromPtr(v.PeakFactor),
		RecommendedPerCircuit: rec,
	}, nil
}

// circuitKeys canonicalizes source aliases in recommended-per-circuit keys.
// Two keys naming the same source and voltage are rejected.
func circuitKeys(in map[string]int) (map[string]int, error) {
	if in == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]int, len(in))
	from := make(map[string]string, len(in))
	for _, k := range keys {
		n := in[k]
		key, err := powerplan.NormalizeCircuitKey(k)
		if err != nil {
			return nil, err
		}
		if prev, ok := from[key]; ok {
			return nil, errs.New(errs.ErrCodeInvalidVariant, "circuit keys %q and %q both name %s", prev, k, key)
		}
		from[key] = k
		out[key] = n
	}
	return out, nil
}

func (p processorFile) toProcessor() (wall.ProcessorModel, error) {
	budgets := make(map[wall.ReceivingCard]int, len(p.MaxPixelsPerPort))
	for name, n := range p.MaxPixelsPerPort {
		card, err := wall.ParseReceivingCard(name)
		if err != nil {
			return wall.ProcessorModel{}, errs.Wrap(errs.ErrCodeInvalidProcessor, err, "processor %s", p.ID)
		}
		budgets[card] = n
	}
	return wall.ProcessorModel{ID: p.ID, Name: p.Name, Ports: p.Ports, MaxPixelsPerPort: budgets}, nil
}

func (f wallFile) toEntry(cat wall.Catalog) (WallEntry, error) {
	w := wall.Wall{
		ID:                       f.ID,
		Name:                     f.Name,
		WidthUnits:               f.WidthUnits,
		HeightUnits:              f.HeightUnits,
		UnitSizeMM:               f.UnitSizeMM,
		Voltage:                  wall.Voltage(f.Voltage),
		MirrorPortOrder:          f.MirrorPorts,
		MirrorCircuitMapping:     f.MirrorCircuits,
		PlanningThresholdPercent: f.PlanningThresholdPercent,
		HardLimitPercent:         f.HardLimitPercent,
	}

	var err error
	if f.RackLocation != "" {
		if w.RackLocation, err = wall.ParseRackLocation(f.RackLocation); err != nil {
			return WallEntry{}, wrapWall(f.ID, err)
		}
	}
	if f.Deployment != "" {
		if w.Deployment, err = wall.ParseDeployment(f.Deployment); err != nil {
			return WallEntry{}, wrapWall(f.ID, err)
		}
	}
	if w.ImagRole, err = wall.ParseImagRole(f.ImagRole); err != nil {
		return WallEntry{}, wrapWall(f.ID, err)
	}
	if f.ImagMaster != "" {
		w.ImagMasterWallID = wall.Some(f.ImagMaster)
	}
	e := WallEntry{
		Wall: w,
		Plan: PlanSettings{
			PathMode:       f.Plan.PathMode,
			LoomBundleSize: f.Plan.LoomBundleSize,
			PortGroupSize:  f.Plan.PortGroupSize,
			Source:         f.Plan.Source,
			Feeds:          f.Plan.Feeds,
			Processor:      f.Plan.Processor,
			Card:           f.Plan.Card,
		},
		Cells: make([]wall.WallCell, 0, len(f.Cells)),
	}

	for i, cf := range f.Cells {
		c, err := cf.toCell(w, cat, e.Cells)
		if err != nil {
			return WallEntry{}, errs.Wrap(errs.ErrCodeInvalidProject, err, "wall %s: cell %d", f.ID, i+1)
		}
		e.Cells = append(e.Cells, c)
	}
	return e, nil
}

func (cf cellFile) toCell(w wall.Wall, cat wall.Catalog, existing []wall.WallCell) (wall.WallCell, error) {
	status, err := wall.ParseStatus(cf.Status)
	if err != nil {
		return wall.WallCell{}, err
	}

	c := wall.WallCell{
		ID:        cf.ID,
		WallID:    w.ID,
		Label:     cf.Label,
		UnitX:     cf.X,
		UnitY:     cf.Y,
		UnitsWide: cf.W,
		UnitsHigh: cf.H,
		Status:    status,
		Notes:     cf.Notes,
	}
	if cf.Variant != "" {
		c.VariantID = wall.Some(cf.Variant)
	}

	if c.UnitsWide == 0 || c.UnitsHigh == 0 {
		fw, fh := 1, 1
		if v, ok := cat.Variants[cf.Variant]; ok {
			fw, fh = v.FootprintUnits(w.UnitSizeMM)
		}
		if c.UnitsWide == 0 {
			c.UnitsWide = fw
		}
		if c.UnitsHigh == 0 {
			c.UnitsHigh = fh
		}
	}
	if c.Label == "" {
		c.Label = grid.NextLabel(existing)
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("%s-%s", w.ID, c.Label)
	}
	return c, nil
}

func wrapWall(id string, err error) error {
	return errs.Wrap(errs.ErrCodeInvalidProject, err, "wall %s", id)
}

// =============================================================================
// Project -> File
// =============================================================================

func fromProject(p Project) projectFile {
	f := projectFile{
		Name:       p.Name,
		Variants:   make([]variantFile, 0, len(p.Catalog.Variants)),
		Processors: make([]processorFile, 0, len(p.Catalog.Processors)),
		Walls:      make([]wallFile, 0, len(p.Walls)),
	}

	for _, id := range p.Catalog.VariantIDs() {
		v := p.Catalog.Variants[id]
		f.Variants = append(f.Variants, variantFile{
			ID:                    v.ID,
			Name:                  v.Name,
			WidthMM:               v.WidthMM,
			HeightMM:              v.HeightMM,
			UnitsWide:             v.UnitsWide,
			UnitsHigh:             v.UnitsHigh,
			PixelWidth:            v.PixelWidth,
			PixelHeight:           v.PixelHeight,
			WeightKG:              v.WeightKG,
			PowerMin:              v.Power.Min,
			PowerTyp:              v.Power.Typ,
			PowerMax:              v.Power.Max,
			PowerPeak:             v.Power.Peak.Ptr(),
			PeakFactor:            v.PeakFactor.Ptr(),
			RecommendedPerCircuit: v.RecommendedPerCircuit,
		})
	}

	for _, id := range p.Catalog.ProcessorIDs() {
		pm := p.Catalog.Processors[id]
		budgets := make(map[string]int, len(pm.MaxPixelsPerPort))
		for card, n := range pm.MaxPixelsPerPort {
			budgets[string(card)] = n
		}
		f.Processors = append(f.Processors, processorFile{ID: pm.ID, Name: pm.Name, Ports: pm.Ports, MaxPixelsPerPort: budgets})
	}

	for _, e := range p.Walls {
		w := e.Wall
		wf := wallFile{
			ID:                       w.ID,
			Name:                     w.Name,
			WidthUnits:               w.WidthUnits,
			HeightUnits:              w.HeightUnits,
			UnitSizeMM:               w.UnitSizeMM,
			Voltage:                  int(w.Voltage),
			RackLocation:             string(w.RackLocation),
			Deployment:               string(w.Deployment),
			ImagMaster:               w.ImagMasterWallID.OrElse(""),
			MirrorPorts:              w.MirrorPortOrder,
			MirrorCircuits:           w.MirrorCircuitMapping,
			PlanningThresholdPercent: w.PlanningThresholdPercent,
			HardLimitPercent:         w.HardLimitPercent,
			Plan: planFile{
				PathMode:       e.Plan.PathMode,
				LoomBundleSize: e.Plan.LoomBundleSize,
				PortGroupSize:  e.Plan.PortGroupSize,
				Source:         e.Plan.Source,
				Feeds:          e.Plan.Feeds,
				Processor:      e.Plan.Processor,
				Card:           e.Plan.Card,
			},
		}
		if w.ImagRole != wall.ImagNone {
			wf.ImagRole = string(w.ImagRole)
		}
		for _, c := range e.Cells {
			cf := cellFile{
				ID:      c.ID,
				Label:   c.Label,
				Variant: c.VariantID.OrElse(""),
				X:       c.UnitX,
				Y:       c.UnitY,
				W:       c.UnitsWide,
				H:       c.UnitsHigh,
				Notes:   c.Notes,
			}
			if c.Status != wall.StatusActive {
				cf.Status = string(c.Status)
			}
			wf.Cells = append(wf.Cells, cf)
		}
		f.Walls = append(f.Walls, wf)
	}
	return f
}
