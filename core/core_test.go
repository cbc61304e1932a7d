package core_test

import (
	"testing"

	"github.com/circuitforge/topoverify/core"
)

// VERIFIES AddVertex inserts a new vertex and is idempotent on repeat calls.
//
// Stages:
//  1. Add vertex "A" to an empty graph.
//  2. Add vertex "A" again.
//
// Behavior highlights: the second call is a no-op, not an error.
//
// Returns: nil error both times; HasVertex("A") true after.
func TestAddVertexIdempotent(t *testing.T) {
	g := core.NewGraph()
	if err := g.AddVertex("A"); err != nil {
		t.Fatalf("AddVertex(A) = %v, want nil", err)
	}
	if err := g.AddVertex("A"); err != nil {
		t.Fatalf("AddVertex(A) second call = %v, want nil", err)
	}
	if !g.HasVertex("A") {
		t.Fatal("HasVertex(A) = false, want true")
	}
}

// VERIFIES AddVertex rejects an empty ID with ErrEmptyVertexID.
func TestAddVertexEmptyID(t *testing.T) {
	g := core.NewGraph()
	if err := g.AddVertex(""); err != core.ErrEmptyVertexID {
		t.Fatalf("AddVertex(\"\") = %v, want ErrEmptyVertexID", err)
	}
}

// VERIFIES HasVertex reports false for a missing vertex and for an empty ID.
func TestHasVertexMissing(t *testing.T) {
	g := core.NewGraph()
	if g.HasVertex("A") {
		t.Fatal("HasVertex(A) = true on empty graph, want false")
	}
	if g.HasVertex("") {
		t.Fatal("HasVertex(\"\") = true, want false")
	}
}

// VERIFIES Vertices returns IDs sorted lexicographically ascending.
func TestVerticesSorted(t *testing.T) {
	g := core.NewGraph()
	for _, id := range []string{"C", "A", "B"} {
		if err := g.AddVertex(id); err != nil {
			t.Fatalf("AddVertex(%s) = %v", id, err)
		}
	}
	got := g.Vertices()
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("Vertices() = %v, want %v", got, want)
	}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("Vertices()[%d] = %s, want %s", i, got[i], id)
		}
	}
}

// VERIFIES AddEdge auto-creates endpoint vertices and mirrors undirected edges.
//
// Inputs: a default (undirected, unweighted, no loops, no multi-edges) graph.
// Returns: a non-empty edge ID; both endpoints become NeighborIDs of each other.
func TestAddEdgeMirrorsUndirected(t *testing.T) {
	g := core.NewGraph()
	eid, err := g.AddEdge("A", "B", 0)
	if err != nil {
		t.Fatalf("AddEdge(A,B) = %v", err)
	}
	if eid == "" {
		t.Fatal("AddEdge(A,B) returned empty edge ID")
	}
	if !g.HasVertex("A") || !g.HasVertex("B") {
		t.Fatal("AddEdge did not auto-create endpoint vertices")
	}
	nbrsA, err := g.NeighborIDs("A")
	if err != nil || len(nbrsA) != 1 || nbrsA[0] != "B" {
		t.Fatalf("NeighborIDs(A) = %v, %v, want [B], nil", nbrsA, err)
	}
	nbrsB, err := g.NeighborIDs("B")
	if err != nil || len(nbrsB) != 1 || nbrsB[0] != "A" {
		t.Fatalf("NeighborIDs(B) = %v, %v, want [A], nil", nbrsB, err)
	}
}

// VERIFIES AddEdge enforces ErrBadWeight on an unweighted graph.
func TestAddEdgeBadWeight(t *testing.T) {
	g := core.NewGraph()
	if _, err := g.AddEdge("A", "B", 5); err != core.ErrBadWeight {
		t.Fatalf("AddEdge with weight on unweighted graph = %v, want ErrBadWeight", err)
	}
}

// VERIFIES AddEdge enforces ErrLoopNotAllowed unless WithLoops is set.
func TestAddEdgeLoopNotAllowed(t *testing.T) {
	g := core.NewGraph()
	if _, err := g.AddEdge("A", "A", 0); err != core.ErrLoopNotAllowed {
		t.Fatalf("AddEdge(A,A) = %v, want ErrLoopNotAllowed", err)
	}

	gl := core.NewGraph(core.WithLoops())
	if _, err := gl.AddEdge("A", "A", 0); err != nil {
		t.Fatalf("AddEdge(A,A) with WithLoops = %v, want nil", err)
	}
}

// VERIFIES AddEdge enforces ErrMultiEdgeNotAllowed unless WithMultiEdges is set.
func TestAddEdgeMultiEdge(t *testing.T) {
	g := core.NewGraph()
	if _, err := g.AddEdge("A", "B", 0); err != nil {
		t.Fatalf("first AddEdge(A,B) = %v", err)
	}
	if _, err := g.AddEdge("A", "B", 0); err != core.ErrMultiEdgeNotAllowed {
		t.Fatalf("second AddEdge(A,B) = %v, want ErrMultiEdgeNotAllowed", err)
	}

	gm := core.NewGraph(core.WithMultiEdges())
	if _, err := gm.AddEdge("A", "B", 0); err != nil {
		t.Fatalf("first AddEdge(A,B) on multigraph = %v", err)
	}
	if _, err := gm.AddEdge("A", "B", 0); err != nil {
		t.Fatalf("second AddEdge(A,B) on multigraph = %v, want nil", err)
	}
}

// VERIFIES Neighbors on a directed graph only returns edges with e.From == id.
func TestNeighborsDirected(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))
	if _, err := g.AddEdge("A", "B", 0); err != nil {
		t.Fatalf("AddEdge(A,B) = %v", err)
	}
	nbrsA, err := g.NeighborIDs("A")
	if err != nil || len(nbrsA) != 1 || nbrsA[0] != "B" {
		t.Fatalf("NeighborIDs(A) = %v, %v, want [B], nil", nbrsA, err)
	}
	nbrsB, err := g.NeighborIDs("B")
	if err != nil || len(nbrsB) != 0 {
		t.Fatalf("NeighborIDs(B) = %v, %v, want [], nil (directed, no back-edge)", nbrsB, err)
	}
}

// VERIFIES Neighbors rejects a missing vertex with ErrVertexNotFound.
func TestNeighborsMissingVertex(t *testing.T) {
	g := core.NewGraph()
	if _, err := g.Neighbors("ghost"); err != core.ErrVertexNotFound {
		t.Fatalf("Neighbors(ghost) = %v, want ErrVertexNotFound", err)
	}
}

// VERIFIES Weighted/Directed/Looped reflect construction-time flags.
func TestConfigFlags(t *testing.T) {
	g := core.NewGraph(core.WithWeighted(), core.WithDirected(true), core.WithLoops())
	if !g.Weighted() {
		t.Fatal("Weighted() = false, want true")
	}
	if !g.Directed() {
		t.Fatal("Directed() = false, want true")
	}
	if !g.Looped() {
		t.Fatal("Looped() = false, want true")
	}

	g2 := core.NewGraph()
	if g2.Weighted() || g2.Directed() || g2.Looped() {
		t.Fatal("default NewGraph() flags should all be false")
	}
}
