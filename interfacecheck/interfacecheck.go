// Package interfacecheck verifies gate-driver-to-MOSFET interfaces: a
// driver output on the same net as a MOSFET gate (no gate resistor),
// Kelvin-source wiring for isolated drivers, and isolated-supply output
// connectivity (SPEC_FULL.md §4.7). A driver output that reaches no MOSFET
// gate, or reaches one without passing a resistor, is not reported.
//
// Grounded on original_source/task/topo/interface_checker.py
// (check_interfaces, _check_gate_driver_to_mosfet, _check_gate_resistors,
// _check_kelvin_source_connections, _check_isolated_supply_connections).
package interfacecheck

import (
	"fmt"

	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// IsolatedGateDrivers require their secondary ground to land on a Kelvin
// source, not the MOSFET power source. Preserved verbatim.
var IsolatedGateDrivers = map[string]bool{"UCC5390E": true, "UCC21710": true}

// IsolatedSupplies are isolated DC-DC parts whose three outputs must all
// connect. Preserved verbatim.
var IsolatedSupplies = map[string]bool{"MGJ2D121505SC": true}

var gatePathParts = map[string]bool{"R": true, "D": true}

// Check runs the gate-driver-to-MOSFET interface checks and the
// isolated-supply connectivity check, returning accumulated diagnostics.
func Check(snap *snapshot.Snapshot) []string {
	var errs []string
	errs = append(errs, checkGateDriverToMOSFET(snap)...)
	errs = append(errs, checkKelvinSourceConnections(snap)...)
	errs = append(errs, checkIsolatedSupplyConnections(snap)...)
	return errs
}

func checkGateDriverToMOSFET(snap *snapshot.Snapshot) []string {
	var errs []string
	graph := passive.BuildPassiveNetGraph(snap, gatePathParts)

	for i := range snap.Components {
		drv := &snap.Components[i]
		if drv.Category != "gate-driver" {
			continue
		}
		outPins := driverOutputPins(drv)
		if len(outPins) == 0 {
			continue
		}

		for j := range snap.Components {
			mos := &snap.Components[j]
			if mos.Category != "MOSFET" {
				continue
			}
			gate, ok := mosfetGatePin(mos)
			if !ok || !gate.Connected() {
				continue
			}

			for _, out := range outPins {
				if !out.Connected() {
					continue
				}
				if out.Net == gate.Net {
					errs = append(errs, fmt.Sprintf(
						"%s: Gate driver output (pin %s) connects directly to MOSFET %s without gate resistor",
						drv.Ref, out.ID, mos.Ref))
					continue
				}
				if !passive.NetsConnected(graph, out.Net, gate.Net) {
					continue // not related to this MOSFET at all
				}
			}
		}
	}
	return errs
}

func checkKelvinSourceConnections(snap *snapshot.Snapshot) []string {
	var errs []string
	for i := range snap.Components {
		drv := &snap.Components[i]
		if !IsolatedGateDrivers[drv.PartID] {
			continue
		}
		gnd2, ok := drv.PinByRole("secondary_gnd")
		if !ok || !gnd2.Connected() {
			continue
		}
		for j := range snap.Components {
			mos := &snap.Components[j]
			if mos.Category != "MOSFET" {
				continue
			}
			source, sOK := mos.PinByRole("mosfet_source")
			ks, kOK := mos.PinByRole("mosfet_kelvin_source")
			if !sOK || !source.Connected() {
				continue
			}
			if gnd2.Net != source.Net {
				continue
			}
			if kOK && ks.Connected() {
				errs = append(errs, fmt.Sprintf(
					"%s: Gate driver GND2 connects to power Source of %s, but should connect to Kelvin Source (pin %s) to avoid common-source inductance",
					drv.Ref, mos.Ref, ks.ID))
			}
		}
	}
	return errs
}

func checkIsolatedSupplyConnections(snap *snapshot.Snapshot) []string {
	var errs []string
	for i := range snap.Components {
		c := &snap.Components[i]
		if !IsolatedSupplies[c.PartID] {
			continue
		}
		for _, role := range []string{"out_plus", "out_minus", "logic_out"} {
			if pin, ok := c.PinByRole(role); ok && !pin.Connected() {
				errs = append(errs, fmt.Sprintf("%s: isolated supply output pin (role %s) must be connected", c.Ref, role))
			}
		}
	}
	return errs
}

func driverOutputPins(c *snapshot.Component) []snapshot.Pin {
	var out []snapshot.Pin
	for _, role := range []string{"out", "out_plus", "out_minus", "gate_ho", "gate_lo", "logic_out"} {
		if pin, ok := c.PinByRole(role); ok {
			out = append(out, pin)
		}
	}
	return out
}

func mosfetGatePin(c *snapshot.Component) (snapshot.Pin, bool) {
	return c.PinByRole("mosfet_gate")
}
