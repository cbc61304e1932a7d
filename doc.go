// Package topoverify verifies electronic circuit descriptions generated by
// an LLM schematic-capture assistant against a reference topology.
//
// A verification run takes a candidate circuit snapshot (components, pins,
// nets), a component knowledge graph, and a task identifier, and returns a
// pass/fail flag plus an ordered list of diagnostic strings. The pipeline:
//
//	snapshot  — circuit data model (components, pins, nets, endpoints)
//	kgstore   — knowledge-graph store: category, pin roles, constraints
//	wire      — JSON decoding for snapshot and knowledge-graph inputs
//	passive   — R/C/L/D classification and the component<->net bipartite graph
//	constraints — fast-fail per-component generic and part-specific checks
//	isolation — primary/secondary isolation-domain identification
//	netconflict — net-naming conflict and naming-hygiene analysis
//	interfacecheck — gate-driver-to-MOSFET interface checks
//	rules     — connectivity-rule extraction (from a reference) and checking
//	skeleton  — component-count tolerance and subgraph-isomorphism matching
//	systemtopo — template-driven checks for the complex power-topology tasks
//	report    — human-readable and LLM-retry-prompt error formatting
//	verifier  — the top-level pipeline orchestrator
//
// The bipartite and isolation net-adjacency graphs are built on a reusable
// in-memory graph primitive, core.Graph, with BFS and DFS traversal
// packages layered on top of it; the passive-induced net graphs and the
// skeleton multigraph are plain maps and structs with their own walkers.
package topoverify
