// Package dfs implements depth-first search traversal on a core.Graph,
// supporting both directed and undirected graphs.
//
// What:
//
//   - DFS (Depth-First Search): explores as far as possible along each
//     branch before backtracking. Supports:
//   - Pre-order and post-order hooks
//   - Cancellation via context.Context
//   - Depth limiting
//   - Neighbor filtering
//   - Full-graph (forest) traversal via WithFullTraversal, restarting from
//     every unvisited vertex to cover disconnected components.
//
// Why:
//   - Discover connected components without hand-rolling a second walker.
//   - Build and analyze dependency graphs, determine reachability.
//
// Key Types & Constants:
//
//   - VertexState: White, Gray, Black (visitation markers)
//   - Option: functional options for DFS behavior
//   - DFSOptions: holds Context, hooks, MaxDepth, FilterNeighbor, FullTraversal
//   - DFSResult: collects post-order, Depth, Parent, Visited maps
//
// Complexity:
//
//   - DFS: Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil             graph pointer is nil
//   - ErrStartVertexNotFound  start vertex ID not in graph
//   - context.Canceled        DFS canceled via context
//   - hook errors             propagated from OnVisit or OnExit
//
// Functions:
//
//   - DFS(g *core.Graph, startID string, opts ...Option) (*DFSResult, error)
//     perform depth-first traversal from startID
//   - DefaultOptions(), WithContext(), WithOnVisit(), WithOnExit(),
//     WithMaxDepth(), WithFilterNeighbor(), WithFullTraversal()
package dfs
