// Package constraints implements the fast-fail per-component checks
// (SPEC_FULL.md §4.4, "Phase 2"): generic constraint dispatch plus a small,
// closed set of part-specific checks.
//
// Grounded on original_source/task/topo/phase2_checks.py
// (run_phase2_checks, _check_constraints, and the per-part helpers).
package constraints

import (
	"fmt"
	"strings"

	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// GateFloatTasks is the set of task identifiers for which a gate driver's
// output net is allowed to carry only a single endpoint (the driving_pair
// constraint's floating-gate exemption). Preserved verbatim from
// phase2_checks.py's GATE_FLOAT_TASKS.
var GateFloatTasks = map[int]bool{8: true, 9: true, 10: true, 11: true, 12: true}

// StrictHalfbridgeTasks requires VBUS decoupling caps and full MOSFET pin
// connectivity. Preserved verbatim from phase2_checks.py's
// STRICT_HALFBRIDGE_TASKS.
var StrictHalfbridgeTasks = map[int]bool{8: true, 9: true, 10: true, 11: true, 12: true}

// KSSourceRLCTasks additionally requires the Kelvin source and power source
// to be unreachable from one another through any R/L/C path. Preserved
// verbatim from phase2_checks.py's KS_SOURCE_RLC_TASKS.
var KSSourceRLCTasks = map[int]bool{9: true, 10: true, 11: true}

// Check runs every generic constraint declared by the KG for each
// component, plus the part-specific checks, and returns the accumulated
// diagnostic lines in snapshot order.
func Check(snap *snapshot.Snapshot, kg *kgstore.Store, taskID int) []string {
	var errs []string

	for i := range snap.Components {
		c := &snap.Components[i]
		for _, gc := range kg.Constraints(c.PartID) {
			errs = append(errs, checkGeneric(c, gc, taskID)...)
		}
	}
	errs = append(errs, checkDrivingPairNets(snap, kg, taskID)...)
	errs = append(errs, checkKelvinSource(snap, taskID)...)
	errs = append(errs, checkVBusDecoupling(snap, taskID)...)
	errs = append(errs, checkBootstrapCaps(snap)...)
	errs = append(errs, checkIsolatedDriverOutResistor(snap, taskID)...)

	return errs
}

// checkGeneric dispatches one generic constraint for component c. The
// DrivingPair case only validates the gate pin itself; the companion
// net-endpoint-count rule is net-aware and lives in checkDrivingPairNets.
func checkGeneric(c *snapshot.Component, gc kgstore.GenericConstraint, taskID int) []string {
	var errs []string
	switch v := gc.(type) {
	case kgstore.MustBeConnected:
		for _, pinID := range v.Pins {
			pin, ok := c.Pin(pinID)
			if !ok || !pin.Connected() {
				errs = append(errs, fmt.Sprintf("%s: pin %s must be connected", c.Ref, pinID))
			}
		}

	case kgstore.SupplyPair:
		vdd, vddOK := c.Pin(v.VDDPin)
		gnd, gndOK := c.Pin(v.GNDPin)
		if !vddOK || !gndOK || !vdd.Connected() || !gnd.Connected() {
			errs = append(errs, fmt.Sprintf("%s: supply pair (%s, %s) must both be connected", c.Ref, v.VDDPin, v.GNDPin))
			break
		}
		if vdd.Net == gnd.Net {
			errs = append(errs, fmt.Sprintf("%s: supply pair (%s, %s) shorted on net %s", c.Ref, v.VDDPin, v.GNDPin, vdd.Net))
		}

	case kgstore.DifferentialPairMustBeDistinct:
		if len(v.Pins) != 2 {
			break
		}
		a, aOK := c.Pin(v.Pins[0])
		b, bOK := c.Pin(v.Pins[1])
		if !aOK || !bOK || !a.Connected() || !b.Connected() {
			break
		}
		if a.Net == b.Net {
			errs = append(errs, fmt.Sprintf("%s: differential pins on same net (%s=%s)", c.Ref, v.Pins[0], a.Net))
		}

	case kgstore.DrivingPair:
		gate, ok := c.Pin(v.GatePin)
		if !ok || !gate.Connected() {
			errs = append(errs, fmt.Sprintf("%s: gate pin %s must be connected", c.Ref, v.GatePin))
		}
	}
	return errs
}

// checkDrivingPairNets is the net-aware half of DrivingPair: unless the
// task floats the gate (GateFloatTasks), the gate net must carry at least
// two endpoints (the driver and the MOSFET, at minimum).
func checkDrivingPairNets(snap *snapshot.Snapshot, kg *kgstore.Store, taskID int) []string {
	if GateFloatTasks[taskID] {
		return nil
	}
	var errs []string
	idx := snapshot.BuildIndex(snap)
	for i := range snap.Components {
		c := &snap.Components[i]
		for _, gc := range kg.Constraints(c.PartID) {
			dp, ok := gc.(kgstore.DrivingPair)
			if !ok {
				continue
			}
			gate, ok := c.Pin(dp.GatePin)
			if !ok || !gate.Connected() {
				continue
			}
			if net := idx.NetByName(gate.Net); net != nil && len(net.Endpoints) < 2 {
				errs = append(errs, fmt.Sprintf("%s: gate net (%s) has no driving endpoint", c.Ref, gate.Net))
			}
		}
	}
	return errs
}

// checkKelvinSource implements the MOSFET Kelvin-source checks: a short
// against the power-source net (SPEC_FULL.md S3), and, for
// KSSourceRLCTasks, RLC-path isolation between Kelvin source and source.
func checkKelvinSource(snap *snapshot.Snapshot, taskID int) []string {
	var errs []string
	for i := range snap.Components {
		c := &snap.Components[i]
		source, sOK := c.PinByRole("mosfet_source")
		ks, kOK := c.PinByRole("mosfet_kelvin_source")
		if !sOK || !kOK || !source.Connected() || !ks.Connected() {
			continue
		}
		if source.Net == ks.Net {
			errs = append(errs, fmt.Sprintf("%s: kelvin source should not be shorted to source net (%s)", c.Ref, source.Net))
			continue
		}
		if KSSourceRLCTasks[taskID] {
			allowed := map[string]bool{"R": true, "C": true, "L": true}
			graph := passive.BuildPassiveNetGraph(snap, allowed)
			if passive.NetsConnected(graph, source.Net, ks.Net) {
				errs = append(errs, fmt.Sprintf("%s: kelvin source (%s) reaches source net (%s) through an R/L/C path", c.Ref, ks.Net, source.Net))
			}
		}
	}
	return errs
}

// checkVBusDecoupling requires at least one capacitor on a VBUS-like net
// for strict half-bridge tasks.
func checkVBusDecoupling(snap *snapshot.Snapshot, taskID int) []string {
	if !StrictHalfbridgeTasks[taskID] {
		return nil
	}
	var errs []string
	for _, net := range snap.Nets {
		if !strings.Contains(strings.ToUpper(net.Name), "VBUS") {
			continue
		}
		count := 0
		for _, ep := range net.Endpoints {
			if ep.Category == "passive" && ep.PartID == "C" {
				count++
			}
		}
		if count < 1 {
			errs = append(errs, fmt.Sprintf("%s: VBUS net requires decoupling capacitors, found %d", net.Name, count))
		}
	}
	return errs
}

// checkBootstrapCaps requires a capacitor bridging a component's HB/HS
// role-pin nets for bootstrap-style gate drivers.
func checkBootstrapCaps(snap *snapshot.Snapshot) []string {
	var errs []string
	for i := range snap.Components {
		c := &snap.Components[i]
		hb, hbOK := c.PinByRole("halfbridge_hb")
		hs, hsOK := c.PinByRole("halfbridge_hs")
		if !hbOK || !hsOK || !hb.Connected() || !hs.Connected() {
			continue
		}
		if !hasCapBetween(snap, hb.Net, hs.Net) {
			errs = append(errs, fmt.Sprintf("%s: missing bootstrap capacitor between HB (%s) and HS (%s)", c.Ref, hb.Net, hs.Net))
		}
	}
	return errs
}

// checkIsolatedDriverOutResistor requires a resistor on an isolated gate
// driver's OUT net (task 15, UCC5390E).
func checkIsolatedDriverOutResistor(snap *snapshot.Snapshot, taskID int) []string {
	if taskID != 15 {
		return nil
	}
	var errs []string
	for i := range snap.Components {
		c := &snap.Components[i]
		if c.PartID != "UCC5390E" {
			continue
		}
		out, ok := c.PinByRole("logic_out")
		if !ok {
			out, ok = c.PinByRole("out")
		}
		if !ok || !out.Connected() {
			continue
		}
		if !hasResistorOn(snap, out.Net) {
			errs = append(errs, "UCC5390E: OUT must connect to a gate net through a resistor network")
		}
	}
	return errs
}

func hasCapBetween(snap *snapshot.Snapshot, netA, netB string) bool {
	for i := range snap.Components {
		c := &snap.Components[i]
		if c.PartID != "C" {
			continue
		}
		nets := map[string]bool{}
		for _, p := range c.Pins {
			if p.Connected() {
				nets[p.Net] = true
			}
		}
		if nets[netA] && nets[netB] {
			return true
		}
	}
	return false
}

func hasResistorOn(snap *snapshot.Snapshot, net string) bool {
	for i := range snap.Components {
		c := &snap.Components[i]
		if c.PartID != "R" {
			continue
		}
		for _, p := range c.Pins {
			if p.Connected() && p.Net == net {
				return true
			}
		}
	}
	return false
}
