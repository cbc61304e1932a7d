package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// Check evaluates rules against candidate, applying the closed list of
// task-aware waivers and task-specific checks from SPEC_FULL.md §4.9, and
// returns the accumulated diagnostic lines.
//
// Task 15 (UCC5390E OUT->gate resistor network) bypasses the generic rule
// loop entirely, matching rule_checker.py's check_rules: "if task_id == 15:
// ...; return errors". Task 6 (TPS54302 EN divider) and task 3 (P3
// gain-ratio) run the generic loop plus an additional task-specific check.
func Check(candidate *snapshot.Snapshot, rs []Rule, taskID int) []string {
	rGraph := passive.BuildPassiveNetGraph(candidate, map[string]bool{"R": true})
	lGraph := passive.BuildPassiveNetGraph(candidate, map[string]bool{"L": true})

	if taskID == 15 {
		return checkTask15OutResistor(candidate, rGraph)
	}

	var errs []string
	for _, r := range rs {
		if taskID == 6 && ruleSkippedForTask6(r) {
			continue
		}
		switch rule := r.(type) {
		case CDirect:
			if waived, hint := waiveCDirect(rule, taskID); waived {
				if hint != "" {
					errs = append(errs, hint)
				}
				continue
			}
			if msg := checkCDirect(candidate, rule); msg != "" {
				errs = append(errs, msg)
			}
		case RPath:
			if msg := checkPathRule(candidate, rGraph, rule.A, rule.B, "R_PATH"); msg != "" {
				errs = append(errs, msg)
			}
		case LPath:
			if msg := checkPathRule(candidate, lGraph, rule.A, rule.B, "L_PATH"); msg != "" {
				errs = append(errs, msg)
			}
		}
	}

	if taskID == 6 {
		errs = append(errs, checkTask6Enable(candidate, rGraph)...)
	}
	if taskID == 3 {
		errs = append(errs, checkP3Gain(candidate)...)
	}
	return errs
}

// ruleSkippedForTask6 excludes rules touching the TPS54302 EN pin (and the
// VIN<->GND/VIN<->FB pairs) from the generic loop for task 6, since
// checkTask6Enable evaluates EN with divider-aware semantics instead
// (rule_checker.py:280-311, skip conditions at check_rules:20-23).
func ruleSkippedForTask6(r Rule) bool {
	var a, b Endpoint
	switch rule := r.(type) {
	case CDirect:
		a, b = rule.A, rule.B
	case RPath:
		a, b = rule.A, rule.B
	case LPath:
		a, b = rule.A, rule.B
	default:
		return false
	}
	if a.Role == "buck_en" || b.Role == "buck_en" {
		return true
	}
	if isPair(a, b, "buck_vin", "buck_gnd") || isPair(a, b, "buck_vin", "buck_fb") {
		return true
	}
	return false
}

// waiveCDirect applies the closed set of C_DIRECT waivers (SPEC_FULL.md
// §4.9): mosfet_source<->mosfet_drain is always waived (ambiguous with
// decoupling caps across half-bridges); UCC27511 OUTH/OUTL may coincide on
// the same net for task 13; UCC21710 CLMPI-driven shorts produce a
// guidance hint instead of a generic error.
func waiveCDirect(r CDirect, taskID int) (waived bool, hint string) {
	if isPair(r.A, r.B, "mosfet_source", "mosfet_drain") {
		return true, ""
	}
	if taskID == 13 && r.A.PartID == "UCC27511" && r.B.PartID == "UCC27511" {
		return true, ""
	}
	if r.A.PartID == "UCC21710" || r.B.PartID == "UCC21710" {
		if isPair(r.A, r.B, "out_plus", "mosfet_gate") || isPair(r.A, r.B, "out_minus", "mosfet_gate") {
			return true, "Hint: UCC21710 CLMPI actively clamps OUTH/OUTL to GATE during off-state; " +
				"this is expected and does not indicate a wiring short."
		}
	}
	return false, ""
}

func isPair(a, b Endpoint, roleA, roleB string) bool {
	return (a.Role == roleA && b.Role == roleB) || (a.Role == roleB && b.Role == roleA)
}

func checkCDirect(snap *snapshot.Snapshot, r CDirect) string {
	netsA := resolveEndpointNets(snap, r.A)
	netsB := resolveEndpointNets(snap, r.B)
	if len(netsA) == 0 || len(netsB) == 0 {
		return fmt.Sprintf("C_DIRECT(%s, %s): endpoint missing", r.A.describe(), r.B.describe())
	}
	aSet, bSet := toSet(netsA), toSet(netsB)

	for i := range snap.Components {
		c := &snap.Components[i]
		if c.PartID != "C" {
			continue
		}
		nets := twoNets(c)
		if len(nets) != 2 {
			continue
		}
		if (aSet[nets[0]] && bSet[nets[1]]) || (aSet[nets[1]] && bSet[nets[0]]) {
			return ""
		}
	}
	for a := range aSet {
		if bSet[a] {
			return fmt.Sprintf("C_DIRECT(%s, %s): shorted (same net %s)", r.A.describe(), r.B.describe(), a)
		}
	}
	return fmt.Sprintf("C_DIRECT(%s, %s): missing capacitor between endpoints", r.A.describe(), r.B.describe())
}

func checkPathRule(snap *snapshot.Snapshot, graph map[string][]passive.NetEdge, a, b Endpoint, kind string) string {
	netsA := resolveEndpointNets(snap, a)
	netsB := resolveEndpointNets(snap, b)
	if len(netsA) == 0 || len(netsB) == 0 {
		return fmt.Sprintf("%s(%s, %s): endpoint missing", kind, a.describe(), b.describe())
	}
	for _, na := range netsA {
		for _, nb := range netsB {
			if na == nb {
				continue
			}
			if passive.NetsConnected(graph, na, nb) {
				return ""
			}
		}
	}
	return fmt.Sprintf("%s(%s, %s): missing path between endpoints", kind, a.describe(), b.describe())
}

// resolveEndpointNets resolves ep to the candidate nets it could refer to,
// preferring part_id+pin_role+pin_id/name and falling back to
// category+pin_role (SPEC_FULL.md §4.9).
func resolveEndpointNets(snap *snapshot.Snapshot, ep Endpoint) []string {
	var exact []string
	seen := map[string]bool{}
	for _, net := range snap.Nets {
		for _, e := range net.Endpoints {
			if ep.PartID == "" || e.PartID != ep.PartID {
				continue
			}
			if ep.Role != "" && e.Role != ep.Role {
				continue
			}
			if ep.PinID != "" && e.PinID != ep.PinID {
				continue
			}
			if ep.PinName != "" && e.PinName != ep.PinName {
				continue
			}
			if !seen[net.Name] {
				seen[net.Name] = true
				exact = append(exact, net.Name)
			}
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var fallback []string
	seen = map[string]bool{}
	for _, net := range snap.Nets {
		for _, e := range net.Endpoints {
			if ep.Category != "" && e.Category != ep.Category {
				continue
			}
			if ep.Role != "" && e.Role != ep.Role {
				continue
			}
			if ep.Category == "" && ep.Role == "" {
				continue
			}
			if !seen[net.Name] {
				seen[net.Name] = true
				fallback = append(fallback, net.Name)
			}
		}
	}
	return fallback
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// checkTask6Enable verifies the TPS54302's EN pin, when wired at all, reaches
// VIN and GND only through a resistor divider (never a direct short), or is
// left floating/NC. Grounded on rule_checker.py:280-311 (_check_task6_enable).
func checkTask6Enable(candidate *snapshot.Snapshot, rGraph map[string][]passive.NetEdge) []string {
	enNets := resolveEndpointNets(candidate, Endpoint{PartID: "TPS54302", Category: "ic", Role: "buck_en"})
	if !isConnectedNets(enNets) {
		return nil
	}

	vinNets := resolveEndpointNets(candidate, Endpoint{PartID: "TPS54302", Category: "ic", Role: "buck_vin"})
	gndNets := resolveEndpointNets(candidate, Endpoint{PartID: "TPS54302", Category: "ic", Role: "buck_gnd"})

	okVin, shortVin := pathStatus(enNets, vinNets, rGraph)
	okGnd, shortGnd := pathStatus(enNets, gndNets, rGraph)

	if okVin && okGnd {
		return nil
	}
	if shortVin || shortGnd {
		return []string{"EN should not be directly shorted; use a resistor divider between VIN and GND"}
	}
	return []string{"EN requires a resistor divider to VIN and GND, or leave EN unconnected/NC"}
}

// isConnectedNets reports whether nets contains at least one real net (not
// empty, "NC", or "__NOCONNECT").
func isConnectedNets(nets []string) bool {
	for _, n := range nets {
		switch strings.ToUpper(n) {
		case "", "NC", "__NOCONNECT":
			continue
		default:
			return true
		}
	}
	return false
}

// pathStatus reports whether any netA/netB pair in nets is connected through
// graph (ok), or whether the pair is a same-net short with no other
// candidate pair to fall back on (shorted). Grounded on rule_checker.py's
// _check_path_rule/_has_nonshort_pair.
func pathStatus(netsA, netsB []string, graph map[string][]passive.NetEdge) (ok, shorted bool) {
	sawShort := false
	for _, na := range netsA {
		for _, nb := range netsB {
			if na == nb {
				sawShort = true
				continue
			}
			if passive.NetsConnected(graph, na, nb) {
				return true, false
			}
		}
	}
	if sawShort && !hasNonShortPair(netsA, netsB) {
		return false, true
	}
	return false, false
}

func hasNonShortPair(netsA, netsB []string) bool {
	for _, na := range netsA {
		for _, nb := range netsB {
			if na != nb {
				return true
			}
		}
	}
	return false
}

// checkTask15OutResistor verifies the UCC5390E's OUT pin reaches a gate net
// through a resistor network rather than a bare wire or a direct connection
// to one of its own supply rails. Grounded on rule_checker.py's
// _check_task15_out_resistor, reusing connectedComponents (the R-induced net
// graph's connected-component grouping already built for R_PATH rules)
// instead of hand-rolling a second traversal.
func checkTask15OutResistor(candidate *snapshot.Snapshot, rGraph map[string][]passive.NetEdge) []string {
	outNets := resolveEndpointNets(candidate, Endpoint{PartID: "UCC5390E", Category: "ic", Role: "out"})
	if len(outNets) == 0 {
		return []string{"UCC5390E: OUT pin missing net"}
	}
	outSet := toSet(outNets)

	supplySet := map[string]bool{}
	for _, role := range []string{"primary_vdd", "primary_gnd", "secondary_vdd", "secondary_gnd"} {
		for _, n := range resolveEndpointNets(candidate, Endpoint{PartID: "UCC5390E", Category: "ic", Role: role}) {
			supplySet[n] = true
		}
	}

	for _, comp := range connectedComponents(rGraph) {
		touchesOut := false
		for _, n := range comp {
			if outSet[n] {
				touchesOut = true
				break
			}
		}
		if !touchesOut {
			continue
		}
		for _, n := range comp {
			if outSet[n] || supplySet[n] {
				continue
			}
			return nil
		}
	}
	return []string{"UCC5390E: OUT must connect to a gate net through a resistor network"}
}

// p3GainTarget/p3GainTolerance are the expected OPA328 feedback resistor
// ratio and its allowed fractional deviation, preserved verbatim from
// rule_checker.py's _check_p3_gain.
const (
	p3GainTarget    = 1.47
	p3GainTolerance = 0.2
)

// p3Resistor is a candidate feedback/gain resistor: its two nets and parsed
// ohm value (valid=false if the value string could not be parsed).
type p3Resistor struct {
	ref      string
	value    float64
	valid    bool
	valueRaw string
	nets     map[string]bool
}

// checkP3Gain verifies the OPA328's +IN/-IN resistor-divider ratio falls
// within tolerance of the expected gain. Grounded on rule_checker.py's
// _check_p3_gain/_check_ratio_for_net.
func checkP3Gain(candidate *snapshot.Snapshot) []string {
	minRatio := p3GainTarget * (1 - p3GainTolerance)
	maxRatio := p3GainTarget * (1 + p3GainTolerance)

	var opa *snapshot.Component
	for i := range candidate.Components {
		if candidate.Components[i].PartID == "OPA328" {
			opa = &candidate.Components[i]
			break
		}
	}
	if opa == nil {
		return []string{"p3 gain check: OPA328 not found"}
	}

	negNet := findPinNet(opa, "-IN", "IN-", "INN", "VINN")
	posNet := findPinNet(opa, "+IN", "IN+", "INP", "VINP")
	if negNet == "" || posNet == "" {
		return []string{"p3 gain check: missing +IN/-IN nets on OPA328"}
	}

	var resistors []p3Resistor
	for i := range candidate.Components {
		c := &candidate.Components[i]
		if passive.Classify(c) != "R" {
			continue
		}
		nets := twoNets(c)
		if len(nets) != 2 {
			continue
		}
		v, ok := parseResistorValue(c.Value)
		resistors = append(resistors, p3Resistor{
			ref: c.Ref, value: v, valid: ok, valueRaw: c.Value,
			nets: map[string]bool{nets[0]: true, nets[1]: true},
		})
	}

	var errs []string
	errs = append(errs, checkRatioForNet(resistors, negNet, "p3 gain check (-IN)", minRatio, maxRatio)...)
	errs = append(errs, checkRatioForNet(resistors, posNet, "p3 gain check (+IN)", minRatio, maxRatio)...)
	return errs
}

func checkRatioForNet(resistors []p3Resistor, targetNet, label string, minRatio, maxRatio float64) []string {
	var related []p3Resistor
	for _, r := range resistors {
		if r.nets[targetNet] {
			related = append(related, r)
		}
	}
	if len(related) != 2 {
		return []string{fmt.Sprintf("%s: expected 2 resistors on net %s, got %d", label, targetNet, len(related))}
	}
	for _, r := range related {
		if !r.valid || r.value <= 0 {
			return []string{fmt.Sprintf("%s: invalid resistor value for %s (%s)", label, r.ref, r.valueRaw)}
		}
	}
	sort.Slice(related, func(i, j int) bool { return related[i].value < related[j].value })
	ratio := related[1].value / related[0].value
	if ratio < minRatio || ratio > maxRatio {
		return []string{"resistance is wrong"}
	}
	return nil
}

func findPinNet(c *snapshot.Component, names ...string) string {
	want := toSet(names)
	for _, p := range c.Pins {
		if want[strings.ToUpper(p.Name)] {
			return p.Net
		}
	}
	return ""
}

var resistorValuePattern = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*([A-Za-zµ]*)$`)

// parseResistorValue parses a resistor value string (plain ohms, an
// R-notation decimal like "4R7", or a suffixed value like "10k"/"4.7meg")
// into ohms. Grounded on rule_checker.py's _parse_value.
func parseResistorValue(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "R") {
		if digits := strings.ReplaceAll(upper, "R", ""); digits != "" && isAllDigits(digits) {
			parts := strings.SplitN(upper, "R", 2)
			whole, frac := parts[0], parts[1]
			if whole == "" {
				whole = "0"
			}
			if frac == "" {
				frac = "0"
			}
			v, err := strconv.ParseFloat(whole+"."+frac, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}

	m := resistorValuePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	base, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	suffix := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(m[2], "ohm", ""), "OHM", ""))
	switch suffix {
	case "":
		return base, true
	case "p":
		return base * 1e-12, true
	case "n":
		return base * 1e-9, true
	case "u", "µ":
		return base * 1e-6, true
	case "k":
		return base * 1e3, true
	case "meg":
		return base * 1e6, true
	case "m":
		return base * 1e-3, true
	case "g":
		return base * 1e9, true
	}
	return 0, false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
