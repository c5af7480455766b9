// Package mirror derives an IMAG mirror wall's plans from its master's.
//
// A mirror wall hangs opposite its master and shows the same content, so it
// reuses the master's cabinet-to-run and cabinet-to-circuit assignments. When
// the mirror is wired from the opposite side, port and circuit numbers are
// reversed with [PortIndex] and [CircuitIndex]. Both are involutions: applying
// one twice returns the original index.
package mirror

import (
	"strings"

	"github.com/matzehuels/wallplan/pkg/dataplan"
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// PortIndex maps a 0-based port index onto the mirror wall.
func PortIndex(i, total int, enabled bool) int {
	if !enabled {
		return i
	}
	return total - 1 - i
}

// CircuitIndex maps a 0-based circuit index onto the mirror wall.
func CircuitIndex(i, total int, enabled bool) int {
	if !enabled {
		return i
	}
	return total - 1 - i
}

// Validate checks that mirror is correctly linked to master.
func Validate(mirror, master wall.Wall) error {
	if mirror.ImagRole != wall.ImagMirror {
		return errs.New(errs.ErrCodeMirrorLink, "wall %s is not a mirror", mirror.ID)
	}
	id, ok := mirror.ImagMasterWallID.Get()
	if !ok {
		return errs.New(errs.ErrCodeMirrorLink, "mirror wall %s has no master wall", mirror.ID)
	}
	if id != master.ID {
		return errs.New(errs.ErrCodeMirrorLink, "mirror wall %s names master %s, got %s", mirror.ID, id, master.ID)
	}
	if master.ImagRole != wall.ImagMaster {
		return errs.New(errs.ErrCodeMirrorLink, "wall %s is linked as a master but has role %s", master.ID, master.ImagRole)
	}
	return nil
}

// DataPlan copies the master's runs onto mirror. Each run keeps its cabinets,
// pixel load and over-limit flag; its port is remapped when the mirror wall
// reverses port order, and the port label, loom bundle and port group follow
// the new port. Run warnings are rewritten to name the mirror's ports.
func DataPlan(master dataplan.Result, mirror wall.Wall) dataplan.Result {
	out := master
	out.WallID = mirror.ID
	out.MirrorOf = master.WallID
	out.Runs = make([]dataplan.Run, len(master.Runs))
	refs := make(map[string]string, len(master.Runs))

	for i, run := range master.Runs {
		run.CabinetIDs = append([]string(nil), run.CabinetIDs...)
		run.CabinetLabels = append([]string(nil), run.CabinetLabels...)

		port := PortIndex(run.Port, master.PortCount, mirror.MirrorPortOrder)
		run.Port = port
		run.PortLabel = dataplan.PortLabel(port)
		run.LoomBundle = dataplan.LoomBundle(port, master.LoomBundleSize)
		run.PortGroup = dataplan.PortGroup(port, master.PortGroupSize)
		out.Runs[i] = run
		refs[dataplan.RunRef(master.Runs[i])] = dataplan.RunRef(run)
	}
	out.Warnings = renumber(master.Warnings, refs)
	return out
}

// PowerPlan copies the master's circuits onto mirror, renumbering them when
// the mirror wall reverses circuit order. A remapped circuit takes the phase
// label of the master circuit at its new position, so phase rotation is
// preserved by position. Circuit warnings are rewritten to name the mirror's
// circuits.
//
// circuits is the mirror wall's own circuit count; it must match the master
// plan or PowerPlan fails with ErrCodeCircuitMismatch.
func PowerPlan(master powerplan.Result, mirror wall.Wall, circuits int) (powerplan.Result, error) {
	total := len(master.Circuits)
	if circuits != total {
		return powerplan.Result{}, errs.New(errs.ErrCodeCircuitMismatch,
			"mirror wall %s has %d circuits but master %s has %d", mirror.ID, circuits, master.WallID, total)
	}

	out := master
	out.WallID = mirror.ID
	out.MirrorOf = master.WallID
	out.Circuits = make([]powerplan.Circuit, total)
	refs := make(map[string]string, total)

	for i, c := range master.Circuits {
		j := CircuitIndex(i, total, mirror.MirrorCircuitMapping)
		c.CabinetIDs = append([]string(nil), c.CabinetIDs...)
		c.CabinetLabels = append([]string(nil), c.CabinetLabels...)
		c.Number = j + 1
		c.Phase = master.Circuits[j].Phase
		c.Feed = master.Circuits[j].Feed
		out.Circuits[j] = c
		refs[powerplan.CircuitRef(master.Circuits[i])] = powerplan.CircuitRef(c)
	}
	out.Warnings = renumber(master.Warnings, refs)
	return out, nil
}

// renumber copies warnings, replacing a leading master reference with the
// mirror reference refs maps it to. Warnings without a known reference, such
// as cabinet warnings, are copied unchanged.
func renumber(warnings []string, refs map[string]string) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w
		if ref, rest, ok := strings.Cut(w, ": "); ok {
			if to, ok := refs[ref]; ok {
				out[i] = to + ": " + rest
			}
		}
	}
	return out
}
