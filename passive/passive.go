// Package passive classifies R/C/L/D passive components and builds the
// component<->net bipartite graph used by path queries throughout the
// verifier (SPEC_FULL.md §4.3).
//
// Grounded on original_source/task/topo/passive_collapse.py
// (classify_passive, build_bipartite_graph, _path_exists/_allowed_nodes).
package passive

import (
	"github.com/circuitforge/topoverify/bfs"
	"github.com/circuitforge/topoverify/core"

	"github.com/circuitforge/topoverify/snapshot"
)

// onePassives maps the one-letter library part ids to their passive kind.
var onePassives = map[string]string{"R": "R", "C": "C", "L": "L", "D": "D"}

// Classify returns the passive kind ("R", "C", "L", "D") for comp, or ""
// if comp is not classified as a passive.
//
// A component is passive if its part_id is one of the one-letter passives,
// or its category is "passive" and its reference-designator prefix matches
// one of R/C/L/D.
func Classify(comp *snapshot.Component) string {
	if k, ok := onePassives[comp.PartID]; ok {
		return k
	}
	if comp.Category == "passive" {
		if k, ok := onePassives[refPrefix(comp.Ref)]; ok {
			return k
		}
	}
	return ""
}

func refPrefix(ref string) string {
	for i, r := range ref {
		if r >= '0' && r <= '9' {
			return ref[:i]
		}
	}
	return ref
}

// CompNode returns the bipartite-graph node id for a component reference.
func CompNode(ref string) string { return "comp:" + ref }

// NetNode returns the bipartite-graph node id for a net name.
func NetNode(name string) string { return "net:" + name }

// BuildBipartite builds a component<->net bipartite graph over every
// component and net in snap: one vertex per component ref, one vertex per
// net name, and one edge per connected pin.
func BuildBipartite(snap *snapshot.Snapshot) *core.Graph {
	g := core.NewGraph(core.WithMultiEdges())
	for i := range snap.Components {
		c := &snap.Components[i]
		_ = g.AddVertex(CompNode(c.Ref))
		for _, p := range c.Pins {
			if !p.Connected() {
				continue
			}
			nn := NetNode(p.Net)
			if !g.HasVertex(nn) {
				_ = g.AddVertex(nn)
			}
			_, _ = g.AddEdge(CompNode(c.Ref), nn, 0)
		}
	}
	return g
}

// PathExists reports whether fromNet and toNet are the same net, or are
// connected through the bipartite graph g.
//
// allowCaps=true treats capacitor components as ordinary path edges (used
// when asking "is a bypass/filter element present on this path?");
// allowCaps=false excludes capacitor-component nodes, modelling a DC path.
func PathExists(g *core.Graph, snap *snapshot.Snapshot, fromNet, toNet string, allowCaps bool) bool {
	if fromNet == "" || toNet == "" {
		return false
	}
	if fromNet == toNet {
		return true
	}
	start, target := NetNode(fromNet), NetNode(toNet)
	if !g.HasVertex(start) || !g.HasVertex(target) {
		return false
	}

	var blocked map[string]bool
	if !allowCaps {
		blocked = make(map[string]bool)
		for i := range snap.Components {
			c := &snap.Components[i]
			if Classify(c) == "C" {
				blocked[CompNode(c.Ref)] = true
			}
		}
	}

	res, err := bfs.BFS(g, start, bfs.WithFilterNeighbor(func(_, neighbor string) bool {
		return !blocked[neighbor]
	}))
	if err != nil {
		return false
	}
	_, reached := res.Depth[target]
	return reached
}

// NetEdge is one edge of a passive-induced net adjacency graph (net ->
// edges), labelled by the passive component that induces it. Used by rule checking and
// system-topology tank-path search, which both need to know which specific
// passive kind bridges two nets, not merely whether a path exists.
type NetEdge struct {
	Neighbor string
	PartID   string // the induced passive's part_id ("R", "C", "C_film", ...)
	Ref      string
}

// BuildPassiveNetGraph builds a net->[]NetEdge adjacency using only
// components whose part_id is in allowedParts. Two-pin components
// contribute one edge between their (distinct) connected nets.
func BuildPassiveNetGraph(snap *snapshot.Snapshot, allowedParts map[string]bool) map[string][]NetEdge {
	graph := make(map[string][]NetEdge)
	for i := range snap.Components {
		c := &snap.Components[i]
		if !allowedParts[c.PartID] {
			continue
		}
		nets := connectedNets(c)
		if len(nets) < 2 {
			continue
		}
		a, b := nets[0], nets[1]
		if a == b {
			continue
		}
		graph[a] = append(graph[a], NetEdge{Neighbor: b, PartID: c.PartID, Ref: c.Ref})
		graph[b] = append(graph[b], NetEdge{Neighbor: a, PartID: c.PartID, Ref: c.Ref})
	}
	return graph
}

// connectedNets returns the distinct connected net names across c's pins,
// in pin order, deduplicated.
func connectedNets(c *snapshot.Component) []string {
	seen := make(map[string]bool)
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
