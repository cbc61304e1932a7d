package systemtopo

import (
	"fmt"

	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// Check runs the System Topology Verifier for a complex task (SPEC_FULL.md
// §4.11) and returns the accumulated diagnostic lines. Callers should only
// invoke this for IsComplexTask(taskID) task identifiers.
func Check(snap *snapshot.Snapshot, taskID int) []string {
	tmpl, ok := GetTemplate(taskID)
	if !ok {
		return nil
	}

	var errs []string
	errs = append(errs, checkComponentCounts(snap, tmpl)...)
	errs = append(errs, checkVBusDecoupling(snap, tmpl)...)

	switch tmpl.TopologyType {
	case "sync_buck":
		errs = append(errs, verifySyncBuck(snap)...)
	case "sync_boost":
		errs = append(errs, verifySyncBoost(snap)...)
	case "4sw_buckboost":
		errs = append(errs, verify4SwBuckBoost(snap)...)
	case "dab":
		errs = append(errs, verifyDAB(snap)...)
	case "llc":
		errs = append(errs, verifyLLC(snap)...)
	case "3ph_inverter":
		errs = append(errs, verify3PhInverter(snap)...)
	case "1ph_fullbridge":
		errs = append(errs, verify1PhFullbridge(snap)...)
	}
	return errs
}

func checkComponentCounts(snap *snapshot.Snapshot, tmpl Template) []string {
	c := countComponents(snap)
	var errs []string
	if c.mosfets < tmpl.MinMOSFETs {
		errs = append(errs, fmt.Sprintf("%s: expected at least %d MOSFETs, found %d", tmpl.Name, tmpl.MinMOSFETs, c.mosfets))
	}
	if c.gateDrivers < tmpl.MinGateDrivers {
		errs = append(errs, fmt.Sprintf("%s: expected at least %d gate drivers, found %d", tmpl.Name, tmpl.MinGateDrivers, c.gateDrivers))
	}
	if c.isolatedSupplies < tmpl.MinIsolatedSupplies {
		errs = append(errs, fmt.Sprintf("%s: expected at least %d isolated supplies, found %d", tmpl.Name, tmpl.MinIsolatedSupplies, c.isolatedSupplies))
	}
	if tmpl.RequiresTransformer && c.transformers < 1 {
		errs = append(errs, fmt.Sprintf("%s: requires a transformer, found none", tmpl.Name))
	}
	if tmpl.RequiresInductor && c.powerInductors < 1 && c.inductors < 1 {
		errs = append(errs, fmt.Sprintf("%s: requires an inductor, found none", tmpl.Name))
	}
	if tmpl.RequiresBlockingCap && c.filmCaps < 1 {
		errs = append(errs, fmt.Sprintf("%s: requires a blocking capacitor (C_film), found none", tmpl.Name))
	}
	if tmpl.RequiresResonantCap && c.filmCaps < 1 {
		errs = append(errs, fmt.Sprintf("%s: requires a resonant capacitor (C_film), found none", tmpl.Name))
	}
	if tmpl.RequiresResonantInd && c.powerInductors < 1 && c.inductors < 1 {
		errs = append(errs, fmt.Sprintf("%s: requires a resonant inductor, found none", tmpl.Name))
	}
	if tmpl.MinOutputCaps > 0 {
		if got := countOutputCaps(snap); got < tmpl.MinOutputCaps {
			errs = append(errs, fmt.Sprintf("%s: expected at least %d output capacitors, found %d", tmpl.Name, tmpl.MinOutputCaps, got))
		}
	}
	return errs
}

// countOutputCaps counts capacitors with at least one pin on a net whose
// name matches the output-net heuristic.
func countOutputCaps(snap *snapshot.Snapshot) int {
	n := 0
	for i := range snap.Components {
		c := &snap.Components[i]
		if c.PartID != "C" {
			continue
		}
		for _, p := range c.Pins {
			if p.Connected() && isOutputNet(p.Net) {
				n++
				break
			}
		}
	}
	return n
}

// checkVBusDecoupling requires a capacitor on any input-supply-like net,
// for topologies with a hard bus-bar rail (grounded on
// _check_vbus_decoupling).
func checkVBusDecoupling(snap *snapshot.Snapshot, tmpl Template) []string {
	if tmpl.TopologyType == "dab" || tmpl.TopologyType == "llc" {
		return nil // not checked for the isolated-bridge topologies
	}
	for _, net := range snap.Nets {
		if !isInputSupplyNet(net.Name) {
			continue
		}
		found := false
		for _, ep := range net.Endpoints {
			if ep.PartID == "C" {
				found = true
				break
			}
		}
		if !found {
			return []string{fmt.Sprintf("%s: input supply net requires a decoupling capacitor", net.Name)}
		}
	}
	return nil
}

// tankGraph builds the net graph used by tank-path searches: resistors,
// generic capacitors, film capacitors, power inductors and generic
// inductors are all path-eligible (grounded on PATH_PART_IDS /
// _build_passive_net_graph).
func tankGraph(snap *snapshot.Snapshot) map[string][]passive.NetEdge {
	return passive.BuildPassiveNetGraph(snap, PathPartIDs)
}

func verifySyncBuck(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	hbs := inferMultiHalfBridges(byVSW)
	if len(hbs) == 0 {
		for _, list := range byVSW {
			hbs = append(hbs, list...)
			break
		}
	}
	if len(hbs) == 0 {
		return []string{"sync_buck: no half-bridge (high/low MOSFET pair sharing a switch node) found"}
	}
	hb := hbs[0]
	var errs []string
	if !isInputSupplyNet(hb.High.Drain) {
		errs = append(errs, "sync_buck: high-side MOSFET drain is not connected to an input supply net")
	}
	if !isGroundNet(hb.Low.Source) {
		errs = append(errs, "sync_buck: low-side MOSFET source is not connected to ground")
	}
	graph := tankGraph(snap)
	outNet := findOutputNet(snap)
	if outNet == "" || !passive.PathOnNetGraph(graph, hb.VSW, outNet, false, true, FilmCapIDs, unionInductorIDs()) {
		errs = append(errs, "sync_buck: missing inductor path from switch node to output")
	}
	return errs
}

func verifySyncBoost(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	hbs := inferMultiHalfBridges(byVSW)
	if len(hbs) == 0 {
		for _, list := range byVSW {
			hbs = append(hbs, list...)
			break
		}
	}
	if len(hbs) == 0 {
		return []string{"sync_boost: no half-bridge (high/low MOSFET pair sharing a switch node) found"}
	}
	hb := hbs[0]
	var errs []string
	if !isOutputNet(hb.High.Drain) {
		errs = append(errs, "sync_boost: high-side MOSFET drain is not connected to the output net")
	}
	if !isGroundNet(hb.Low.Source) {
		errs = append(errs, "sync_boost: low-side MOSFET source is not connected to ground")
	}
	graph := tankGraph(snap)
	inNet := findInputNet(snap)
	if inNet == "" || !passive.PathOnNetGraph(graph, inNet, hb.VSW, false, true, FilmCapIDs, unionInductorIDs()) {
		errs = append(errs, "sync_boost: missing inductor path from input supply to switch node")
	}
	return errs
}

func verify4SwBuckBoost(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	hbs := inferMultiHalfBridges(byVSW)
	if len(hbs) < 2 {
		return []string{"4sw_buckboost: expected two independent half bridges, found fewer"}
	}
	var errs []string
	var inputHB, outputHB *halfBridge
	for i := range hbs {
		if isInputSupplyNet(hbs[i].High.Drain) {
			inputHB = &hbs[i]
		}
		if isOutputNet(hbs[i].High.Drain) || isGroundNet(hbs[i].Low.Source) {
			outputHB = &hbs[i]
		}
	}
	if inputHB == nil {
		errs = append(errs, "4sw_buckboost: no half bridge connected to an input supply net")
		return errs
	}
	if outputHB == nil || outputHB.VSW == inputHB.VSW {
		errs = append(errs, "4sw_buckboost: no independent second half bridge found on the output side")
		return errs
	}
	graph := tankGraph(snap)
	if !passive.PathOnNetGraph(graph, inputHB.VSW, outputHB.VSW, false, true, FilmCapIDs, unionInductorIDs()) {
		errs = append(errs, "4sw_buckboost: missing inductor path between the two switch nodes")
	}
	return errs
}

func verifyDAB(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	fullBridges := inferFullBridgeFromVSW(byVSW)
	if len(fullBridges) == 0 {
		return []string{"dab: no full bridge (H-bridge) inferred from MOSFET connections"}
	}
	primary, ok := selectInputBridge(fullBridges)
	if !ok {
		return []string{"dab: could not select a primary-side bridge"}
	}
	transformers := extractTransformerConnections(snap)
	if len(transformers) == 0 {
		return []string{"dab: no transformer found"}
	}
	xfmr := transformers[0]
	graph := tankGraph(snap)
	okPath := passive.PathOnNetGraph(graph, primary.Left.VSW, xfmr.PrimaryA, true, true, FilmCapIDs, unionInductorIDs()) ||
		passive.PathOnNetGraph(graph, primary.Right.VSW, xfmr.PrimaryA, true, true, FilmCapIDs, unionInductorIDs()) ||
		passive.PathOnNetGraph(graph, primary.Left.VSW, xfmr.PrimaryB, true, true, FilmCapIDs, unionInductorIDs()) ||
		passive.PathOnNetGraph(graph, primary.Right.VSW, xfmr.PrimaryB, true, true, FilmCapIDs, unionInductorIDs())
	if !okPath {
		return []string{"DAB: missing series tank elements (need both C_film and inductor on VIN-side path to transformer)"}
	}
	return nil
}

func verifyLLC(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	fullBridges := inferFullBridgeFromVSW(byVSW)
	if len(fullBridges) == 0 {
		return []string{"llc: no full bridge (H-bridge) inferred from MOSFET connections"}
	}
	primary, ok := selectInputBridge(fullBridges)
	if !ok {
		return []string{"llc: could not select a primary-side bridge"}
	}
	transformers := extractTransformerConnections(snap)
	if len(transformers) == 0 {
		return []string{"llc: no transformer found"}
	}
	xfmr := transformers[0]
	graph := tankGraph(snap)

	var errs []string
	for _, vsw := range []string{primary.Left.VSW, primary.Right.VSW} {
		okPath := passive.PathOnNetGraph(graph, vsw, xfmr.PrimaryA, true, true, FilmCapIDs, unionInductorIDs()) ||
			passive.PathOnNetGraph(graph, vsw, xfmr.PrimaryB, true, true, FilmCapIDs, unionInductorIDs())
		if !okPath {
			errs = append(errs, fmt.Sprintf("LLC: resonant tank missing between %s and transformer (need C_film + inductor)", vsw))
		}
	}
	return errs
}

func verify3PhInverter(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	legs := inferMultiHalfBridges(byVSW)
	if len(legs) < 3 {
		return []string{fmt.Sprintf("3ph_inverter: expected 3 independent half-bridge legs, found %d", len(legs))}
	}
	var errs []string
	dcRail := ""
	for _, leg := range legs {
		if !isInputSupplyNet(leg.High.Drain) && dcRail == "" {
			continue
		}
		if dcRail == "" {
			dcRail = leg.High.Drain
		} else if leg.High.Drain != dcRail {
			errs = append(errs, "3ph_inverter: legs do not share a common DC bus rail")
		}
		if !isGroundNet(leg.Low.Source) {
			errs = append(errs, fmt.Sprintf("3ph_inverter: leg on %s low-side source is not grounded", leg.VSW))
		}
	}
	return errs
}

func verify1PhFullbridge(snap *snapshot.Snapshot) []string {
	mosfets := extractMOSFETConnections(snap)
	byVSW := enumerateHalfBridges(mosfets)
	fullBridges := inferFullBridgeFromVSW(byVSW)
	if len(fullBridges) == 0 {
		return []string{"1ph_fullbridge: no full bridge (H-bridge) inferred from MOSFET connections"}
	}
	fb := fullBridges[0]
	var errs []string
	if !isInputSupplyNet(fb.Left.High.Drain) {
		errs = append(errs, "1ph_fullbridge: bridge high rail is not connected to an input supply net")
	}
	if !isGroundNet(fb.Left.Low.Source) {
		errs = append(errs, "1ph_fullbridge: bridge low rail is not grounded")
	}
	return errs
}

func findOutputNet(snap *snapshot.Snapshot) string {
	for _, net := range snap.Nets {
		if isOutputNet(net.Name) {
			return net.Name
		}
	}
	return ""
}

func findInputNet(snap *snapshot.Snapshot) string {
	for _, net := range snap.Nets {
		if isInputSupplyNet(net.Name) {
			return net.Name
		}
	}
	return ""
}

func unionInductorIDs() map[string]bool {
	m := make(map[string]bool, len(PowerInductorIDs)+len(GenericInductorIDs))
	for k := range PowerInductorIDs {
		m[k] = true
	}
	for k := range GenericInductorIDs {
		m[k] = true
	}
	return m
}
