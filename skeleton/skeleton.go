// Package skeleton implements the Skeleton Matcher (SPEC_FULL.md §4.10):
// per-part-id component-count tolerance, and subgraph-isomorphism matching
// of a component/net multigraph labelled by category and pin role.
//
// Grounded on original_source/task/topo/match_skeleton.py. The graph
// library in the reference pack ships no subgraph-isomorphism primitive
// (neither does Go's standard library), so the matcher below is hand-built
// — see DESIGN.md and SPEC_FULL.md §9 for the Open Question resolution.
package skeleton

import (
	"fmt"
	"math"
	"sort"

	"github.com/circuitforge/topoverify/snapshot"
)

// FullSubgraphTasks require the reference multigraph to be a subgraph-
// isomorphism target of the candidate's full multigraph.
var FullSubgraphTasks = map[int]bool{3: true}

// KeySubgraphTasks restrict matching to non-passive components.
var KeySubgraphTasks = map[int]bool{1: true, 2: true, 4: true, 5: true, 7: true, 8: true, 9: true, 10: true, 11: true, 12: true}

const (
	componentCountTolerance = 0.5
	p16PassiveTolerance     = 0.6
	p3GraphTolerance        = 5
)

// Option configures a Matcher.
type Option func(*Matcher)

// Matcher runs the skeleton checks. The zero value is ready to use.
type Matcher struct {
	disabled bool
}

// NewMatcher builds a Matcher with the given options.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSkeletonMatching enables (true, the default) or disables (false) the
// subgraph-isomorphism check, preserving the historical "soft skip when the
// graph library is unavailable" behaviour as an explicit, always-available
// switch (SPEC_FULL.md §4.10, §9).
func WithSkeletonMatching(enabled bool) Option {
	return func(m *Matcher) { m.disabled = !enabled }
}

// Check runs both skeleton sub-checks and returns the accumulated
// diagnostics.
func (m *Matcher) Check(reference, candidate *snapshot.Snapshot, taskID int) []string {
	var errs []string
	errs = append(errs, CheckComponentCountTolerance(reference, candidate, taskID)...)

	if m.disabled {
		return append(errs, "Skeleton subgraph matching skipped (disabled via WithSkeletonMatching(false)).")
	}

	keyOnly := KeySubgraphTasks[taskID]
	if !FullSubgraphTasks[taskID] && !keyOnly {
		return errs
	}

	pat := buildMultigraph(reference, keyOnly)
	tgt := buildMultigraph(candidate, false)

	if isSubgraphIsomorphic(pat, tgt) {
		return errs
	}

	if taskID == 3 && withinGraphTolerance(pat, tgt) {
		return errs
	}

	errs = append(errs, fmt.Sprintf(
		"skeleton mismatch: candidate topology (%d nodes, %d edges) does not contain the reference pattern (%d nodes, %d edges)",
		len(tgt.nodes), len(tgt.edges), len(pat.nodes), len(pat.edges)))
	return errs
}

// CheckComponentCountTolerance compares per-part_id component counts
// between reference and candidate, within ±50% (±60% for P16 R/C; P15 D
// is exempt). The lower bound is at least 1, and the upper bound is capped
// at 4 when the reference count is 4 or less.
func CheckComponentCountTolerance(reference, candidate *snapshot.Snapshot, taskID int) []string {
	refCounts := countByPartID(reference)
	candCounts := countByPartID(candidate)

	var parts []string
	for p := range refCounts {
		parts = append(parts, p)
	}
	sort.Strings(parts)

	var errs []string
	for _, partID := range parts {
		if taskID == 15 && partID == "D" {
			continue
		}
		ref := refCounts[partID]
		tol := componentCountTolerance
		if taskID == 16 && (partID == "R" || partID == "C") {
			tol = p16PassiveTolerance
		}
		lower := int(math.Max(1, math.Floor(float64(ref)*(1-tol))))
		upper := int(math.Ceil(float64(ref) * (1 + tol)))
		if ref <= 4 && upper > 4 {
			upper = 4
		}
		got := candCounts[partID]
		if got < lower || got > upper {
			errs = append(errs, fmt.Sprintf(
				"component count for %s out of tolerance: expected %d-%d, got %d (reference had %d)",
				partID, lower, upper, got, ref))
		}
	}
	return errs
}

func countByPartID(snap *snapshot.Snapshot) map[string]int {
	m := map[string]int{}
	for i := range snap.Components {
		m[snap.Components[i].PartID]++
	}
	return m
}

func withinGraphTolerance(pat, tgt *multigraph) bool {
	nodeDiff := abs(len(pat.nodes) - len(tgt.nodes))
	edgeDiff := abs(len(pat.edges) - len(tgt.edges))
	return nodeDiff <= p3GraphTolerance && edgeDiff <= p3GraphTolerance
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
