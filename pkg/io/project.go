package io

import (
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Project is a decoded project file.
type Project struct {
	Name    string
	Catalog wall.Catalog
	Walls   []WallEntry
}

// WallEntry is one wall of a project with its layout and plan settings.
type WallEntry struct {
	Wall  wall.Wall
	Plan  PlanSettings
	Cells []wall.WallCell
}

// PlanSettings are per-wall planning choices. Empty fields fall back to the
// caller's defaults.
type PlanSettings struct {
	PathMode       string `json:"path_mode,omitempty"`
	LoomBundleSize int    `json:"loom_bundle_size,omitempty"`
	PortGroupSize  int    `json:"port_group_size,omitempty"`
	Source         string `json:"source,omitempty"`
	Feeds          int    `json:"feeds,omitempty"`
	Processor      string `json:"processor,omitempty"`
	Card           string `json:"card,omitempty"`
}

// Wall returns the entry for id.
func (p *Project) Wall(id string) (*WallEntry, error) {
	for i := range p.Walls {
		if p.Walls[i].Wall.ID == id {
			return &p.Walls[i], nil
		}
	}
	return nil, errs.New(errs.ErrCodeUnknownWall, "unknown wall: %q", id)
}

// WallIDs returns wall ids in file order.
func (p *Project) WallIDs() []string {
	ids := make([]string, len(p.Walls))
	for i, w := range p.Walls {
		ids[i] = w.Wall.ID
	}
	return ids
}

// Validate checks the catalog, every wall, id uniqueness and IMAG links.
// Layout rules (bounds, overlap) are left to grid.Validate.
func (p *Project) Validate() error {
	if err := p.Catalog.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidProject, err, "catalog")
	}

	walls := make(map[string]wall.Wall, len(p.Walls))
	for _, e := range p.Walls {
		if err := e.Wall.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidProject, err, "wall %s", e.Wall.ID)
		}
		if _, dup := walls[e.Wall.ID]; dup {
			return errs.New(errs.ErrCodeInvalidProject, "duplicate wall id: %s", e.Wall.ID)
		}
		walls[e.Wall.ID] = e.Wall

		cellIDs := make(map[string]bool, len(e.Cells))
		for _, c := range e.Cells {
			if cellIDs[c.ID] {
				return errs.New(errs.ErrCodeInvalidProject, "wall %s: duplicate cell id: %s", e.Wall.ID, c.ID)
			}
			cellIDs[c.ID] = true
		}
	}

	for _, e := range p.Walls {
		if !e.Wall.IsMirror() {
			continue
		}
		masterID, _ := e.Wall.ImagMasterWallID.Get()
		master, ok := walls[masterID]
		if !ok {
			return errs.New(errs.ErrCodeInvalidProject, "mirror wall %s references unknown master %q", e.Wall.ID, masterID)
		}
		if master.ImagRole != wall.ImagMaster {
			return errs.New(errs.ErrCodeInvalidProject, "mirror wall %s references %s, which is not a master", e.Wall.ID, masterID)
		}
	}
	return nil
}
