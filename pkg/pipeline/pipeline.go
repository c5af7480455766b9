// Package pipeline turns a project's walls into complete plans.
//
// It sits between the pure planning packages (dataplan, powerplan, mirror,
// totals) and the entry points. It resolves planning options, checks each
// wall's layout, runs the builders, derives IMAG mirror plans from their
// masters, and caches results.
//
// # Options
//
// [Options] is the planning bundle shared by every wall of a run. A wall's
// own settings win over the bundle: its [walls.plan] table overrides path
// mode, bundling, source, feeds, processor and card, and its rack location,
// voltage and thresholds override the bundle's defaults.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	set, err := runner.PlanProject(ctx, project, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, wp := range set.Walls {
//	    fmt.Println(wp.WallID, len(wp.Data.Runs), wp.Power.CircuitCount)
//	}
//
// [Plan] and [PlanMirror] are the uncached building blocks used by the
// runner; they perform no I/O.
package pipeline

import (
	"github.com/matzehuels/wallplan/pkg/cache"
	"github.com/matzehuels/wallplan/pkg/dataplan"
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFeeds is the number of identical power sources per wall.
	DefaultFeeds = 1

	// DefaultParallelism bounds how many walls are planned at once.
	DefaultParallelism = 4
)

// DefaultSource is the power source used when neither the bundle nor the
// wall names one.
const DefaultSource = string(powerplan.DefaultSource)

// =============================================================================
// Options - Planning Bundle
// =============================================================================

// Options is the planning bundle. Zero values are replaced by defaults in
// SetDefaults.
type Options struct {
	PathMode       dataplan.PathMode `json:"path_mode,omitempty" mapstructure:"path_mode"`
	LoomBundleSize int               `json:"loom_bundle_size,omitempty" mapstructure:"loom_bundle_size"`
	PortGroupSize  int               `json:"port_group_size,omitempty" mapstructure:"port_group_size"`

	RackLocation wall.RackLocation `json:"rack_location,omitempty" mapstructure:"rack_location"`
	Source       string            `json:"source,omitempty" mapstructure:"source"`
	Feeds        int               `json:"feeds,omitempty" mapstructure:"feeds"`
	Voltage      wall.Voltage      `json:"voltage,omitempty" mapstructure:"voltage"`

	PlanningThresholdPercent float64 `json:"planning_threshold_percent,omitempty" mapstructure:"planning_threshold_percent"`
	HardLimitPercent         float64 `json:"hard_limit_percent,omitempty" mapstructure:"hard_limit_percent"`

	// ProcessorID selects the catalog processor. When empty and the catalog
	// holds exactly one processor, that one is used.
	ProcessorID string             `json:"processor_id,omitempty" mapstructure:"processor"`
	Card        wall.ReceivingCard `json:"card,omitempty" mapstructure:"card"`

	// Parallelism bounds concurrent wall planning in PlanProject.
	Parallelism int `json:"parallelism,omitempty" mapstructure:"parallelism"`

	// Refresh skips cache reads; fresh results are still written.
	Refresh bool `json:"-" mapstructure:"-"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.PathMode == "" {
		o.PathMode = dataplan.DefaultPathMode
	}
	if o.LoomBundleSize == 0 {
		o.LoomBundleSize = dataplan.DefaultLoomBundleSize
	}
	if o.PortGroupSize == 0 {
		o.PortGroupSize = dataplan.DefaultPortGroupSize
	}
	if o.RackLocation == "" {
		o.RackLocation = wall.DefaultRackLocation
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Feeds == 0 {
		o.Feeds = DefaultFeeds
	}
	if o.Voltage == 0 {
		o.Voltage = wall.Voltage208
	}
	if o.PlanningThresholdPercent == 0 {
		o.PlanningThresholdPercent = wall.DefaultPlanningThresholdPercent
	}
	if o.HardLimitPercent == 0 {
		o.HardLimitPercent = wall.DefaultHardLimitPercent
	}
	if o.Card == "" {
		o.Card = wall.DefaultCard
	}
	if o.Parallelism == 0 {
		o.Parallelism = DefaultParallelism
	}
}

// Validate rejects unusable option values. Call SetDefaults first.
func (o Options) Validate() error {
	if _, err := dataplan.ParsePathMode(string(o.PathMode)); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "loom_bundle_size", o.LoomBundleSize, 1); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "port_group_size", o.PortGroupSize, 1); err != nil {
		return err
	}
	if _, err := wall.ParseRackLocation(string(o.RackLocation)); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidOptions, err, "rack_location")
	}
	if _, err := powerplan.LookupSource(o.Source); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "feeds", o.Feeds, 1); err != nil {
		return err
	}
	if o.Voltage != wall.Voltage120 && o.Voltage != wall.Voltage208 {
		return errs.New(errs.ErrCodeInvalidOptions, "invalid voltage: %d (must be 120 or 208)", o.Voltage)
	}
	if err := errs.ValidatePercent(errs.ErrCodeInvalidOptions, "planning_threshold_percent", o.PlanningThresholdPercent); err != nil {
		return err
	}
	if err := errs.ValidatePercent(errs.ErrCodeInvalidOptions, "hard_limit_percent", o.HardLimitPercent); err != nil {
		return err
	}
	if o.PlanningThresholdPercent > o.HardLimitPercent {
		return errs.New(errs.ErrCodeInvalidOptions, "planning threshold %.0f%% exceeds hard limit %.0f%%", o.PlanningThresholdPercent, o.HardLimitPercent)
	}
	if _, err := wall.ParseReceivingCard(string(o.Card)); err != nil {
		return err
	}
	if o.ProcessorID != "" {
		if err := errs.ValidateID("processor", o.ProcessorID); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidOptions, err, "processor")
		}
	}
	return errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "parallelism", o.Parallelism, 1)
}

// ValidateAndSetDefaults applies defaults and validates in one step.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// ForWall returns the bundle with e's plan settings layered on top, and the
// wall with unset rack, voltage and thresholds taken from the bundle.
// The result is validated.
func (o Options) ForWall(e io.WallEntry) (Options, wall.Wall, error) {
	out := o
	p := e.Plan
	if p.PathMode != "" {
		mode, err := dataplan.ParsePathMode(p.PathMode)
		if err != nil {
			return Options{}, wall.Wall{}, wallErr(e.Wall.ID, err)
		}
		out.PathMode = mode
	}
	if p.LoomBundleSize != 0 {
		out.LoomBundleSize = p.LoomBundleSize
	}
	if p.PortGroupSize != 0 {
		out.PortGroupSize = p.PortGroupSize
	}
	if p.Source != "" {
		out.Source = p.Source
	}
	if p.Feeds != 0 {
		out.Feeds = p.Feeds
	}
	if p.Processor != "" {
		out.ProcessorID = p.Processor
	}
	if p.Card != "" {
		card, err := wall.ParseReceivingCard(p.Card)
		if err != nil {
			return Options{}, wall.Wall{}, wallErr(e.Wall.ID, err)
		}
		out.Card = card
	}
	if err := out.ValidateAndSetDefaults(); err != nil {
		return Options{}, wall.Wall{}, wallErr(e.Wall.ID, err)
	}

	w := e.Wall
	if w.RackLocation == "" {
		w.RackLocation = out.RackLocation
	}
	if w.Voltage == 0 {
		w.Voltage = out.Voltage
	}
	if w.PlanningThresholdPercent == 0 {
		w.PlanningThresholdPercent = out.PlanningThresholdPercent
	}
	if w.HardLimitPercent == 0 {
		w.HardLimitPercent = out.HardLimitPercent
	}
	return out, w.WithDefaults(), nil
}

// DataOptions returns the data-plan subset of the bundle.
func (o Options) DataOptions() dataplan.Options {
	return dataplan.Options{
		PathMode:       o.PathMode,
		LoomBundleSize: o.LoomBundleSize,
		PortGroupSize:  o.PortGroupSize,
	}
}

// PlanKeyOpts returns the cache key options for this bundle.
func (o Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		PathMode:       string(o.PathMode),
		LoomBundleSize: o.LoomBundleSize,
		PortGroupSize:  o.PortGroupSize,
		Source:         o.Source,
		Feeds:          o.Feeds,
		ProcessorID:    o.ProcessorID,
		Card:           string(o.Card),
	}
}

// resolveProcessor picks the processor named by opts, or the catalog's only
// processor when none is named.
func resolveProcessor(cat wall.Catalog, id string) (wall.ProcessorModel, error) {
	if id != "" {
		return cat.Processor(id)
	}
	ids := cat.ProcessorIDs()
	if len(ids) == 1 {
		return cat.Processors[ids[0]], nil
	}
	return wall.ProcessorModel{}, errs.New(errs.ErrCodeInvalidOptions,
		"no processor selected and the catalog has %d (set processor in [walls.plan] or --processor)", len(ids))
}

// wallErr prefixes err with the wall id, keeping its code.
func wallErr(id string, err error) error {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return errs.Wrap(code, err, "wall %s", id)
}
