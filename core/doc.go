// Package core provides the thread-safe in-memory Graph used as the shared
// traversal substrate throughout this module: the component<->net bipartite
// graph and the isolation net-adjacency graph are core.Graph instances
// walked by bfs.BFS, and rules copies its passive-induced net graph into a
// core.Graph to group nets with dfs.DFS.
//
// The Graph supports directed vs. undirected edges (WithDirected), weighted
// vs. unweighted edges (WithWeighted), parallel edges (WithMultiEdges), and
// self-loops (WithLoops); edges are stored in nested maps
// (adjacencyList[from][to][edgeID]) for O(1) amortized mutation, guarded by
// two separate sync.RWMutex locks (muVert for vertices, muEdgeAdj for
// edges+adjacency) to minimize contention.
//
// This module exercises a deliberately small slice of the Graph's surface:
// AddVertex, AddEdge, HasVertex, Vertices, Neighbors, and NeighborIDs, plus
// the Weighted/Directed/Looped flag queries that bfs.BFS and dfs.DFS consult
// internally. Construction, removal, and read-only views beyond that surface
// are not part of this package.
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrBadWeight           – non-zero weight on an unweighted graph
//	ErrLoopNotAllowed      – self-loop when loops are disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges are disabled
//	ErrMixedEdgesNotAllowed – per-edge directed override without mixed mode
package core
