package systemtopo

// halfBridge is one high/low MOSFET pair sharing a switch node: the high
// side's source net equals the low side's drain net.
type halfBridge struct {
	High, Low mosfetConn
	VSW       string
}

// inferHalfBridgesOnVSW finds every (high, low) MOSFET pair whose shared
// net could be a switch node, grounded on
// _infer_half_bridge_on_vsw/_infer_multi_half_bridges: candidate pairing is
// "high.Source == low.Drain", since the switch node is the common point
// between the two conduction paths.
func inferHalfBridgesOnVSW(mosfets []mosfetConn) []halfBridge {
	var out []halfBridge
	for _, hi := range mosfets {
		if hi.Source == "" {
			continue
		}
		for _, lo := range mosfets {
			if lo.Ref == hi.Ref || lo.Drain == "" {
				continue
			}
			if hi.Source == lo.Drain {
				out = append(out, halfBridge{High: hi, Low: lo, VSW: hi.Source})
			}
		}
	}
	return out
}

// enumerateHalfBridges groups the candidate pairs by switch node, so callers
// can reason about "the bridge on VSW" even when several mosfets share a
// net (grounded on _enumerate_half_bridges).
func enumerateHalfBridges(mosfets []mosfetConn) map[string][]halfBridge {
	byVSW := map[string][]halfBridge{}
	for _, hb := range inferHalfBridgesOnVSW(mosfets) {
		byVSW[hb.VSW] = append(byVSW[hb.VSW], hb)
	}
	return byVSW
}

// fullBridge is two half bridges sharing a common high rail and low rail,
// whose two switch nodes are the bridge's AC terminals.
type fullBridge struct {
	Left, Right halfBridge
}

// inferFullBridgeFromVSW searches candidates for two half bridges that
// share the same high rail (both High.Drain equal) and the same low rail
// (both Low.Source equal) but have distinct switch nodes — an H-bridge
// (grounded on _infer_full_bridge_from_vsw).
func inferFullBridgeFromVSW(byVSW map[string][]halfBridge) []fullBridge {
	var candidates []halfBridge
	for _, hbs := range byVSW {
		candidates = append(candidates, hbs...)
	}
	var out []fullBridge
	for i := range candidates {
		for j := range candidates {
			if i == j {
				continue
			}
			a, b := candidates[i], candidates[j]
			if a.VSW == b.VSW {
				continue
			}
			if a.High.Drain != "" && a.High.Drain == b.High.Drain && a.Low.Source != "" && a.Low.Source == b.Low.Source {
				out = append(out, fullBridge{Left: a, Right: b})
			}
		}
	}
	return out
}

// bridgeCoversTerms reports whether bridge's two switch nodes match the
// given pair of AC terminal nets, in either order.
func bridgeCoversTerms(fb fullBridge, termA, termB string) bool {
	return (fb.Left.VSW == termA && fb.Right.VSW == termB) || (fb.Left.VSW == termB && fb.Right.VSW == termA)
}

// selectInputBridge picks the full bridge whose high rail is the most
// plausible input-supply net (grounded on _select_input_bridge).
func selectInputBridge(bridges []fullBridge) (fullBridge, bool) {
	for _, fb := range bridges {
		if isInputSupplyNet(fb.Left.High.Drain) {
			return fb, true
		}
	}
	if len(bridges) > 0 {
		return bridges[0], true
	}
	return fullBridge{}, false
}

// inferMultiHalfBridges filters byVSW down to switch nodes with exactly one
// candidate pairing, the shape expected for multi-leg topologies (3-phase
// inverter, 4-switch buck-boost).
func inferMultiHalfBridges(byVSW map[string][]halfBridge) []halfBridge {
	var out []halfBridge
	for _, hbs := range byVSW {
		if len(hbs) == 1 {
			out = append(out, hbs[0])
		}
	}
	return out
}
