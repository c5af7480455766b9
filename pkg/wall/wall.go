package wall

import (
	"strings"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// Voltage is the nominal supply voltage a wall is powered at.
type Voltage int

// Supported supply voltages.
const (
	Voltage120 Voltage = 120
	Voltage208 Voltage = 208
)

// RackLocation is where the processor and power rack sits relative to the wall.
type RackLocation string

// Rack locations understood by the home-run estimate.
const (
	RackStageLeft     RackLocation = "SL"
	RackStageRight    RackLocation = "SR"
	RackUpstageCenter RackLocation = "USC"
	RackFrontOfHouse  RackLocation = "FOH"
)

// DefaultRackLocation is used when a wall does not name its rack position.
const DefaultRackLocation = RackStageLeft

// ParseRackLocation parses a rack location, case-insensitively.
func ParseRackLocation(s string) (RackLocation, error) {
	switch loc := RackLocation(strings.ToUpper(strings.TrimSpace(s))); loc {
	case RackStageLeft, RackStageRight, RackUpstageCenter, RackFrontOfHouse:
		return loc, nil
	}
	return "", errs.New(errs.ErrCodeInvalidWall, "invalid rack location: %q (must be one of: SL, SR, USC, FOH)", s)
}

// Deployment describes how a wall is hung.
type Deployment string

// Deployment postures.
const (
	DeploymentGround Deployment = "ground"
	DeploymentFlown  Deployment = "flown"
)

// ParseDeployment parses a deployment posture, case-insensitively.
func ParseDeployment(s string) (Deployment, error) {
	switch d := Deployment(strings.ToLower(strings.TrimSpace(s))); d {
	case DeploymentGround, DeploymentFlown:
		return d, nil
	}
	return "", errs.New(errs.ErrCodeInvalidWall, "invalid deployment: %q (must be one of: ground, flown)", s)
}

// ImagRole describes a wall's part in an IMAG pairing.
type ImagRole string

// IMAG roles.
const (
	ImagNone   ImagRole = "none"
	ImagMaster ImagRole = "master"
	ImagMirror ImagRole = "mirror"
)

// ParseImagRole parses an IMAG role. The empty string means none.
func ParseImagRole(s string) (ImagRole, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ImagNone, nil
	}
	switch r := ImagRole(s); r {
	case ImagNone, ImagMaster, ImagMirror:
		return r, nil
	}
	return "", errs.New(errs.ErrCodeInvalidWall, "invalid imag role: %q (must be one of: none, master, mirror)", s)
}

// Default planning thresholds, in percent of nominal capacity.
const (
	DefaultPlanningThresholdPercent = 80.0
	DefaultHardLimitPercent         = 100.0
)

// Wall describes one LED wall and its rectangular unit grid.
// Grid coordinates run from (0,0) at the top-left corner; x grows to the
// right and y grows downward.
type Wall struct {
	ID                   string           `json:"id" bson:"id"`
	Name                 string           `json:"name,omitempty" bson:"name,omitempty"`
	WidthUnits           int              `json:"width_units" bson:"width_units"`
	HeightUnits          int              `json:"height_units" bson:"height_units"`
	UnitSizeMM           float64          `json:"unit_size_mm" bson:"unit_size_mm"`
	Voltage              Voltage          `json:"voltage" bson:"voltage"`
	RackLocation         RackLocation     `json:"rack_location" bson:"rack_location"`
	Deployment           Deployment       `json:"deployment" bson:"deployment"`
	ImagRole             ImagRole         `json:"imag_role" bson:"imag_role"`
	ImagMasterWallID     Optional[string] `json:"imag_master_wall_id" bson:"-"`
	MirrorPortOrder      bool             `json:"mirror_port_order,omitempty" bson:"mirror_port_order,omitempty"`
	MirrorCircuitMapping bool             `json:"mirror_circuit_mapping,omitempty" bson:"mirror_circuit_mapping,omitempty"`

	PlanningThresholdPercent float64 `json:"planning_threshold_percent,omitempty" bson:"planning_threshold_percent,omitempty"`
	HardLimitPercent         float64 `json:"hard_limit_percent,omitempty" bson:"hard_limit_percent,omitempty"`
}

// WidthMM returns the physical wall width in millimeters.
func (w Wall) WidthMM() float64 { return float64(w.WidthUnits) * w.UnitSizeMM }

// HeightMM returns the physical wall height in millimeters.
func (w Wall) HeightMM() float64 { return float64(w.HeightUnits) * w.UnitSizeMM }

// WidthMeters returns the physical wall width in meters.
func (w Wall) WidthMeters() float64 { return w.WidthMM() / 1000 }

// HeightMeters returns the physical wall height in meters.
func (w Wall) HeightMeters() float64 { return w.HeightMM() / 1000 }

// IsMirror reports whether the wall derives its plans from a master wall.
func (w Wall) IsMirror() bool { return w.ImagRole == ImagMirror }

// PlanningThreshold returns the advisory threshold, falling back to the default.
func (w Wall) PlanningThreshold() float64 {
	if w.PlanningThresholdPercent > 0 {
		return w.PlanningThresholdPercent
	}
	return DefaultPlanningThresholdPercent
}

// HardLimit returns the hard-limit percentage, falling back to the default.
func (w Wall) HardLimit() float64 {
	if w.HardLimitPercent > 0 {
		return w.HardLimitPercent
	}
	return DefaultHardLimitPercent
}

// Validate checks the wall's structural invariants.
// Unset enum fields are accepted; use WithDefaults to fill them.
func (w Wall) Validate() error {
	if err := errs.ValidateID("wall", w.ID); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidWall, "width_units", w.WidthUnits, 1); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidWall, "height_units", w.HeightUnits, 1); err != nil {
		return err
	}
	if err := errs.ValidatePositive(errs.ErrCodeInvalidWall, "unit_size_mm", w.UnitSizeMM); err != nil {
		return err
	}
	if w.Voltage != 0 && w.Voltage != Voltage120 && w.Voltage != Voltage208 {
		return errs.New(errs.ErrCodeInvalidWall, "invalid voltage: %d (must be 120 or 208)", w.Voltage)
	}
	if w.PlanningThresholdPercent != 0 {
		if err := errs.ValidatePercent(errs.ErrCodeInvalidWall, "planning_threshold_percent", w.PlanningThresholdPercent); err != nil {
			return err
		}
	}
	if w.HardLimitPercent != 0 {
		if err := errs.ValidatePercent(errs.ErrCodeInvalidWall, "hard_limit_percent", w.HardLimitPercent); err != nil {
			return err
		}
	}
	if w.ImagRole == ImagMirror && !w.ImagMasterWallID.IsSome() {
		return errs.New(errs.ErrCodeMirrorLink, "mirror wall %s has no master wall", w.ID)
	}
	return nil
}

// WithDefaults returns a copy with unset enum fields filled in.
func (w Wall) WithDefaults() Wall {
	if w.Voltage == 0 {
		w.Voltage = Voltage208
	}
	if w.RackLocation == "" {
		w.RackLocation = DefaultRackLocation
	}
	if w.Deployment == "" {
		w.Deployment = DeploymentGround
	}
	if w.ImagRole == "" {
		w.ImagRole = ImagNone
	}
	return w
}
