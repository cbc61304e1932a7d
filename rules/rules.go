// Package rules implements the Rule Extractor and Rule Checker
// (SPEC_FULL.md §4.8, §4.9): deriving typed connectivity rules from a
// reference snapshot and evaluating them against a candidate.
//
// Grounded on original_source/task/topo/rule_extractor.py and
// original_source/task/topo/rule_checker.py.
package rules

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/circuitforge/topoverify/core"
	"github.com/circuitforge/topoverify/dfs"
	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// UCC21710 part ID and its primary-/secondary-side pin names, used by
// shouldSkip to recognize the isolated gate driver's cross-domain pin pairs
// (SPEC_FULL.md §4.8). Preserved verbatim from rule_extractor.py.
const ucc21710ID = "UCC21710"

var ucc21710PrimaryPinNames = map[string]bool{
	"GND": true, "IN+": true, "IN-": true, "RDY": true,
	"~{FLT}": true, "~{RST}/EN": true, "VCC": true, "APWM": true,
}

var ucc21710SecondaryPinNames = map[string]bool{
	"AIN": true, "OC": true, "COM": true, "OUTH": true,
	"VDD": true, "OUTL": true, "CLMPI": true, "VEE": true,
}

// Endpoint is a tolerant descriptor for one side of a Rule: any subset of
// fields may be empty, meaning "unspecified"; resolution prefers the most
// specific match (SPEC_FULL.md §3, §9 "Dynamic endpoint descriptors").
type Endpoint struct {
	PartID   string
	Category string
	Role     string
	PinID    string
	PinName  string
}

func (e Endpoint) signature() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", e.PartID, e.Category, e.Role, e.PinID, e.PinName)
}

func (e Endpoint) describe() string {
	if e.Role != "" {
		if e.PartID != "" {
			return fmt.Sprintf("%s.%s", e.PartID, e.Role)
		}
		return e.Role
	}
	return e.PartID
}

// Rule is a tagged variant produced by Extract and consumed by Check.
type Rule interface {
	isRule()
}

// CDirect requires a single capacitor to bridge A's net and B's net.
type CDirect struct {
	A, B        Endpoint
	FailOnShort bool
	AllowSeries bool
}

func (CDirect) isRule() {}

// RPath requires A and B's nets to sit in the same connected component of
// the resistor-induced net graph.
type RPath struct {
	A, B        Endpoint
	FailOnShort bool
	AllowSeries bool
}

func (RPath) isRule() {}

// LPath is RPath's analogue for inductors.
type LPath struct {
	A, B        Endpoint
	FailOnShort bool
	AllowSeries bool
}

func (LPath) isRule() {}

// Extract derives a de-duplicated set of C_DIRECT/R_PATH/L_PATH rules from
// a reference snapshot (SPEC_FULL.md §4.8).
func Extract(ref *snapshot.Snapshot) []Rule {
	var rules []Rule
	seen := map[string]bool{}

	add := func(r Rule, key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		rules = append(rules, r)
	}

	for i := range ref.Components {
		c := &ref.Components[i]
		if c.PartID != "C" {
			continue
		}
		nets := twoNets(c)
		if len(nets) != 2 {
			continue
		}
		a := pickEndpoint(ref, nets[0])
		b := pickEndpoint(ref, nets[1])
		if a.signature() == b.signature() || shouldSkip("C_DIRECT", a, b) {
			continue
		}
		add(CDirect{A: a, B: b, FailOnShort: true}, "C|"+sortedKey(a, b))
	}

	rules = append(rules, extractPathRules(ref, "R", func(a, b Endpoint) Rule {
		return RPath{A: a, B: b, FailOnShort: true}
	})...)
	rules = append(rules, extractPathRules(ref, "L", func(a, b Endpoint) Rule {
		return LPath{A: a, B: b, FailOnShort: true}
	})...)

	return rules
}

func extractPathRules(ref *snapshot.Snapshot, partID string, make_ func(a, b Endpoint) Rule) []Rule {
	graph := passive.BuildPassiveNetGraph(ref, map[string]bool{partID: true})
	comps := connectedComponents(graph)

	var rules []Rule
	seen := map[string]bool{}
	kind := "R_PATH"
	if partID == "L" {
		kind = "L_PATH"
	}

	for _, comp := range comps {
		var identifiable []string
		for _, n := range comp {
			if netHasEndpoint(ref, n) {
				identifiable = append(identifiable, n)
			}
		}
		sort.Strings(identifiable)
		for i := 0; i < len(identifiable); i++ {
			for j := i + 1; j < len(identifiable); j++ {
				a := pickEndpoint(ref, identifiable[i])
				b := pickEndpoint(ref, identifiable[j])
				if shouldSkip(kind, a, b) {
					continue
				}
				key := kind + "|" + sortedKey(a, b)
				if seen[key] {
					continue
				}
				seen[key] = true
				rules = append(rules, make_(a, b))
			}
		}
	}
	return rules
}

func sortedKey(a, b Endpoint) string {
	sa, sb := a.signature(), b.signature()
	if sa > sb {
		sa, sb = sb, sa
	}
	return sa + "||" + sb
}

// shouldSkip applies the structurally-meaningless-rule exclusions
// documented in SPEC_FULL.md §4.8: logic_in<->logic_out pairs,
// supply_vdd<->supply_gnd R_PATH/L_PATH pairs, and, for a pair of pins both
// belonging to a UCC21710 isolated gate driver, the known primary<->secondary
// domain split plus the RDY-to-GND and ~{RST}/EN-to-IN-/GND C_DIRECT pairs
// (rule_extractor.py:143-178: _should_skip_rule/_ucc21710_domain/
// _is_ucc21710_rdy_gnd/_is_ucc21710_rst_en_gnd).
func shouldSkip(kind string, a, b Endpoint) bool {
	if (a.Role == "logic_in" && b.Role == "logic_out") || (a.Role == "logic_out" && b.Role == "logic_in") {
		return true
	}
	if kind != "C_DIRECT" {
		if (a.Role == "supply_vdd" && b.Role == "supply_gnd") || (a.Role == "supply_gnd" && b.Role == "supply_vdd") {
			return true
		}
	}
	if a.PartID == ucc21710ID && b.PartID == ucc21710ID {
		domainA := ucc21710Domain(a.PinID, a.PinName)
		domainB := ucc21710Domain(b.PinID, b.PinName)
		if domainA != "" && domainB != "" && domainA != domainB {
			return true
		}
		if kind == "C_DIRECT" && isUCC21710RdyGnd(a, b) {
			return true
		}
		if kind == "C_DIRECT" && isUCC21710RstEnGnd(a, b) {
			return true
		}
	}
	return false
}

// ucc21710Domain classifies a UCC21710 pin as "primary" (high-side logic
// domain) or "secondary" (isolated driver-output domain), by pin number
// (1-8 secondary, 9-16 primary) falling back to pin name. Returns "" when
// neither identifies the pin.
func ucc21710Domain(pinID, pinName string) string {
	if n, err := strconv.Atoi(pinID); err == nil {
		switch {
		case n >= 1 && n <= 8:
			return "secondary"
		case n >= 9 && n <= 16:
			return "primary"
		}
	}
	if ucc21710PrimaryPinNames[pinName] {
		return "primary"
	}
	if ucc21710SecondaryPinNames[pinName] {
		return "secondary"
	}
	return ""
}

// isUCC21710RdyGnd reports whether the pair is the UCC21710's RDY pin paired
// against a supply_gnd-role pin (spurious C_DIRECT: RDY is an open-drain
// ready flag, not a short-to-ground requirement).
func isUCC21710RdyGnd(a, b Endpoint) bool {
	if a.PinName == "RDY" && b.Role == "supply_gnd" {
		return true
	}
	if b.PinName == "RDY" && a.Role == "supply_gnd" {
		return true
	}
	return false
}

// isUCC21710RstEnGnd reports whether the pair involves the UCC21710's
// ~{RST}/EN pin alongside IN- or GND (spurious C_DIRECT: these are distinct
// logic references, not a required capacitor bridge).
func isUCC21710RstEnGnd(a, b Endpoint) bool {
	names := map[string]bool{a.PinName: true, b.PinName: true}
	if !names["~{RST}/EN"] {
		return false
	}
	return names["IN-"] || names["GND"]
}

func twoNets(c *snapshot.Component) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.Pins {
		if !p.Connected() || seen[p.Net] {
			continue
		}
		seen[p.Net] = true
		out = append(out, p.Net)
	}
	return out
}

func netHasEndpoint(snap *snapshot.Snapshot, netName string) bool {
	idx := snapshot.BuildIndex(snap)
	net := idx.NetByName(netName)
	if net == nil {
		return false
	}
	for _, ep := range net.Endpoints {
		if ep.Role != "" || ep.Category != "" {
			return true
		}
	}
	return false
}

// pickEndpoint selects the most informative endpoint on net (one carrying
// a pin role, if any) and builds its descriptor.
func pickEndpoint(snap *snapshot.Snapshot, netName string) Endpoint {
	idx := snapshot.BuildIndex(snap)
	net := idx.NetByName(netName)
	if net == nil || len(net.Endpoints) == 0 {
		return Endpoint{}
	}
	best := net.Endpoints[0]
	for _, ep := range net.Endpoints {
		if ep.Role != "" {
			best = ep
			break
		}
	}
	return Endpoint{PartID: best.PartID, Category: best.Category, Role: best.Role, PinID: best.PinID, PinName: best.PinName}
}

// connectedComponents groups graph's nets into connected components, using
// dfs.DFS in full-traversal mode (the teacher's forest-covering DFS walker,
// SPEC_FULL.md §2B) rather than a hand-rolled queue: each DFS tree rooted by
// WithFullTraversal is one component, identified by walking each vertex's
// Parent chain up to its tree root.
func connectedComponents(graph map[string][]passive.NetEdge) [][]string {
	g := core.NewGraph()
	for net := range graph {
		_ = g.AddVertex(net)
	}
	for net, edges := range graph {
		for _, e := range edges {
			_, _ = g.AddEdge(net, e.Neighbor, 0)
		}
	}

	res, err := dfs.DFS(g, "", dfs.WithFullTraversal())
	if err != nil {
		return nil
	}

	root := make(map[string]string, len(res.Visited))
	var rootOf func(string) string
	rootOf = func(v string) string {
		if r, ok := root[v]; ok {
			return r
		}
		p, hasParent := res.Parent[v]
		if !hasParent {
			root[v] = v
			return v
		}
		r := rootOf(p)
		root[v] = r
		return r
	}

	byRoot := map[string][]string{}
	var order []string
	for v := range res.Visited {
		r := rootOf(v)
		if _, ok := byRoot[r]; !ok {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], v)
	}

	comps := make([][]string, 0, len(order))
	for _, r := range order {
		comps = append(comps, byRoot[r])
	}
	return comps
}
