package dataplan

import (
	"strings"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// PathMode selects the cable path through the cabinets of a run.
type PathMode string

// Path modes.
const (
	PathSnakeRows    PathMode = "SNAKE_ROWS"
	PathSnakeColumns PathMode = "SNAKE_COLUMNS"
	PathCustom       PathMode = "CUSTOM"
)

// Defaults applied by Options.SetDefaults.
const (
	DefaultPathMode       = PathSnakeRows
	DefaultLoomBundleSize = 4
	DefaultPortGroupSize  = 4
)

// ParsePathMode parses a path mode name, case-insensitively.
// The empty string selects the default.
func ParsePathMode(s string) (PathMode, error) {
	switch m := PathMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return DefaultPathMode, nil
	case PathSnakeRows, PathSnakeColumns, PathCustom:
		return m, nil
	}
	return "", errs.New(errs.ErrCodeInvalidOptions, "invalid path mode: %q (must be one of: SNAKE_ROWS, SNAKE_COLUMNS, CUSTOM)", s)
}

// Options controls how runs are ordered and bundled.
type Options struct {
	PathMode       PathMode `json:"path_mode"`
	LoomBundleSize int      `json:"loom_bundle_size"`
	PortGroupSize  int      `json:"port_group_size"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.PathMode == "" {
		o.PathMode = DefaultPathMode
	}
	if o.LoomBundleSize == 0 {
		o.LoomBundleSize = DefaultLoomBundleSize
	}
	if o.PortGroupSize == 0 {
		o.PortGroupSize = DefaultPortGroupSize
	}
}

// Validate rejects unusable option values. Call SetDefaults first.
func (o Options) Validate() error {
	if _, err := ParsePathMode(string(o.PathMode)); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "loom_bundle_size", o.LoomBundleSize, 1); err != nil {
		return err
	}
	return errs.ValidateAtLeast(errs.ErrCodeInvalidOptions, "port_group_size", o.PortGroupSize, 1)
}
