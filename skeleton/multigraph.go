package skeleton

import (
	"github.com/circuitforge/topoverify/passive"
	"github.com/circuitforge/topoverify/snapshot"
)

// node is one vertex of the component/net multigraph: either a component
// (kind "comp", labelled by category) or a net (kind "net", unlabelled).
type node struct {
	id       string
	kind     string // "comp" or "net"
	category string
}

// medge is one labelled edge: a component's pin connecting to a net,
// labelled by the pin's role.
type medge struct {
	from, to string
	role     string
}

type multigraph struct {
	nodes map[string]node
	edges []medge
	adj   map[string][]medge
}

// buildMultigraph builds the component/net multigraph for snap. When
// keyOnly is true, passive (R/C/L/D) components and their edges are
// excluded (SPEC_FULL.md §4.10 "KEY_SUBGRAPH_TASKS").
func buildMultigraph(snap *snapshot.Snapshot, keyOnly bool) *multigraph {
	g := &multigraph{nodes: map[string]node{}, adj: map[string][]medge{}}

	for i := range snap.Components {
		c := &snap.Components[i]
		if keyOnly && passive.Classify(c) != "" {
			continue
		}
		cid := passive.CompNode(c.Ref)
		g.nodes[cid] = node{id: cid, kind: "comp", category: c.Category}
		for _, p := range c.Pins {
			if !p.Connected() {
				continue
			}
			nid := passive.NetNode(p.Net)
			if _, ok := g.nodes[nid]; !ok {
				g.nodes[nid] = node{id: nid, kind: "net"}
			}
			e := medge{from: cid, to: nid, role: p.Role}
			g.edges = append(g.edges, e)
			g.adj[cid] = append(g.adj[cid], e)
			g.adj[nid] = append(g.adj[nid], medge{from: nid, to: cid, role: p.Role})
		}
	}
	return g
}

// isSubgraphIsomorphic reports whether pat embeds into tgt: an injective
// node mapping preserving node kind/category and, for every pattern edge,
// a target edge with the same role between the mapped endpoints.
//
// This is a small hand-rolled VF2-style backtracking search (no library in
// the reference pack or the Go standard library provides subgraph
// isomorphism — see DESIGN.md). It is adequate for the small multigraphs
// this domain produces (tens of nodes per snapshot).
func isSubgraphIsomorphic(pat, tgt *multigraph) bool {
	patIDs := orderedByDegree(pat)
	mapping := make(map[string]string, len(patIDs))
	used := make(map[string]bool, len(tgt.nodes))

	var backtrack func(i int) bool
	backtrack = func(i int) bool {
		if i == len(patIDs) {
			return true
		}
		pid := patIDs[i]
		pn := pat.nodes[pid]
		for tid, tn := range tgt.nodes {
			if used[tid] || tn.kind != pn.kind || tn.category != pn.category {
				continue
			}
			mapping[pid] = tid
			used[tid] = true
			if consistent(pat, tgt, mapping, pid) && backtrack(i+1) {
				return true
			}
			delete(mapping, pid)
			used[tid] = false
		}
		return false
	}

	return backtrack(0)
}

// consistent checks that every pattern edge touching the just-mapped node
// pid has a corresponding target edge, for endpoints already mapped.
func consistent(pat, tgt *multigraph, mapping map[string]string, pid string) bool {
	myTgt := mapping[pid]
	for _, e := range pat.adj[pid] {
		otherTgt, ok := mapping[e.to]
		if !ok {
			continue // other endpoint not yet mapped; checked when it is
		}
		if !hasEdge(tgt, myTgt, otherTgt, e.role) {
			return false
		}
	}
	return true
}

func hasEdge(tgt *multigraph, from, to, role string) bool {
	for _, e := range tgt.adj[from] {
		if e.to == to && e.role == role {
			return true
		}
	}
	return false
}

func orderedByDegree(g *multigraph) []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	// Higher-degree nodes first: fail fast during backtracking.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && len(g.adj[ids[j]]) > len(g.adj[ids[j-1]]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
