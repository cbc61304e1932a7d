// Package systemtopo implements the System Topology Verifier
// (SPEC_FULL.md §4.11): a task-template-driven set of checks for the
// complex power-electronics task family (sync buck/boost, 4-switch
// buck-boost, DAB, LLC, 3-phase inverter, 1-phase full-bridge).
//
// Grounded on original_source/task/topo/system_topology_checker.py, read in
// full: TASK_TEMPLATES, the connection-extraction helpers, the half-bridge/
// full-bridge inference helpers, and the seven per-topology _verify_*
// functions.
package systemtopo

import (
	"strings"

	"github.com/circuitforge/topoverify/snapshot"
)

// Template describes one complex task's minimum component counts and
// required topology elements.
type Template struct {
	Name                string
	MinMOSFETs          int
	MinGateDrivers      int
	MinIsolatedSupplies int
	RequiresInductor    bool
	RequiresTransformer bool
	RequiresBlockingCap bool
	RequiresResonantCap bool
	RequiresResonantInd bool
	MinOutputCaps       int
	TopologyType        string
}

// Templates is the task-identifier-to-template table (task ids 17-23),
// preserved verbatim from TASK_TEMPLATES.
var Templates = map[int]Template{
	17: {Name: "Synchronous Buck Converter", MinMOSFETs: 2, MinGateDrivers: 2, MinIsolatedSupplies: 1, RequiresInductor: true, MinOutputCaps: 4, TopologyType: "sync_buck"},
	18: {Name: "Synchronous Boost Converter", MinMOSFETs: 2, MinGateDrivers: 2, MinIsolatedSupplies: 1, RequiresInductor: true, MinOutputCaps: 4, TopologyType: "sync_boost"},
	19: {Name: "4-Switch Buck-Boost Converter", MinMOSFETs: 4, MinGateDrivers: 4, MinIsolatedSupplies: 2, TopologyType: "4sw_buckboost"},
	20: {Name: "Dual Active Bridge Converter", MinMOSFETs: 8, MinGateDrivers: 8, MinIsolatedSupplies: 2, RequiresTransformer: true, RequiresBlockingCap: true, RequiresResonantInd: true, TopologyType: "dab"},
	21: {Name: "LLC Resonant Converter", MinMOSFETs: 8, MinGateDrivers: 8, MinIsolatedSupplies: 2, RequiresTransformer: true, RequiresResonantCap: true, RequiresResonantInd: true, TopologyType: "llc"},
	22: {Name: "3-Phase Motor Drive", MinMOSFETs: 6, MinGateDrivers: 6, MinIsolatedSupplies: 3, TopologyType: "3ph_inverter"},
	23: {Name: "Single-Phase Grid Inverter", MinMOSFETs: 4, MinGateDrivers: 4, MinIsolatedSupplies: 2, TopologyType: "1ph_fullbridge"},
}

// IsComplexTask reports whether taskID names a template.
func IsComplexTask(taskID int) bool {
	_, ok := Templates[taskID]
	return ok
}

// GetTemplate returns the template for taskID, or false.
func GetTemplate(taskID int) (Template, bool) {
	t, ok := Templates[taskID]
	return t, ok
}

// Component identification patterns, preserved verbatim.
var (
	MOSFETPatterns      = []string{"IMZA", "IMLT", "IMT", "IMW", "BSC"}
	GateDriverIDs       = map[string]bool{"UCC5390E": true, "UCC21710": true, "UCC27211": true, "UCC27511": true}
	IsolatedSupplyIDs   = map[string]bool{"MGJ2D121505SC": true}
	TransformerIDs      = map[string]bool{"transformer_PQ5050": true}
	FilmCapIDs          = map[string]bool{"C_film": true}
	PowerInductorIDs    = map[string]bool{"Inductor_power": true}
	GenericInductorIDs  = map[string]bool{"L": true}
	PathPartIDs         = map[string]bool{"R": true, "C": true, "C_film": true, "Inductor_power": true, "L": true}
)

func isMOSFET(partID string) bool {
	upper := strings.ToUpper(partID)
	for _, pat := range MOSFETPatterns {
		if strings.Contains(upper, pat) {
			return true
		}
	}
	return false
}

// counts tallies components by recognized category for template checks.
type counts struct {
	mosfets, gateDrivers, isolatedSupplies, transformers, filmCaps, powerInductors, inductors, caps, resistors int
}

func countComponents(snap *snapshot.Snapshot) counts {
	var c counts
	for i := range snap.Components {
		p := snap.Components[i].PartID
		switch {
		case isMOSFET(p):
			c.mosfets++
		case GateDriverIDs[p]:
			c.gateDrivers++
		case IsolatedSupplyIDs[p]:
			c.isolatedSupplies++
		case TransformerIDs[p]:
			c.transformers++
		case FilmCapIDs[p]:
			c.filmCaps++
		case PowerInductorIDs[p]:
			c.powerInductors++
		case GenericInductorIDs[p]:
			c.inductors++
		case p == "C":
			c.caps++
		case p == "R":
			c.resistors++
		}
	}
	return c
}
