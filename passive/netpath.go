package passive

// PathOnNetGraph searches graph (as built by BuildPassiveNetGraph) for a
// path from start to end. When requireFilm/requireInductor are set, the
// path must traverse at least one edge whose PartID is in filmIDs /
// inductorIDs respectively.
//
// This is a BFS whose frontier state is (net, hasFilm, hasInductor) —
// SPEC_FULL.md §4.11's "tank-path with state": the visited set is keyed by
// the full triple so a net can be revisited once progress (a missing flag
// becoming true) is possible, matching
// original_source/task/topo/system_topology_checker.py's
// _path_exists/_exists_required_tank_path.
func PathOnNetGraph(graph map[string][]NetEdge, start, end string, requireFilm, requireInductor bool, filmIDs, inductorIDs map[string]bool) bool {
	if start == "" || end == "" {
		return false
	}
	if start == end {
		return !(requireFilm || requireInductor)
	}

	type state struct {
		net      string
		hasFilm  bool
		hasInd   bool
	}
	seen := make(map[state]bool)
	queue := []state{{net: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		for _, e := range graph[cur.net] {
			nbHasFilm := cur.hasFilm || filmIDs[e.PartID]
			nbHasInd := cur.hasInd || inductorIDs[e.PartID]
			if e.Neighbor == end {
				if (!requireFilm || nbHasFilm) && (!requireInductor || nbHasInd) {
					return true
				}
			}
			queue = append(queue, state{net: e.Neighbor, hasFilm: nbHasFilm, hasInd: nbHasInd})
		}
	}
	return false
}

// NetsConnected reports whether netA and netB are identical or connected
// through graph with no required elements.
func NetsConnected(graph map[string][]NetEdge, netA, netB string) bool {
	if netA == "" || netB == "" {
		return false
	}
	if netA == netB {
		return true
	}
	return PathOnNetGraph(graph, netA, netB, false, false, nil, nil)
}
