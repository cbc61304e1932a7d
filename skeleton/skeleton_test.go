package skeleton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/skeleton"
	"github.com/circuitforge/topoverify/snapshot"
)

func twoMOSFETSnapshot(nCopies int) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{}
	for i := 0; i < nCopies; i++ {
		snap.Components = append(snap.Components, snapshot.Component{
			Ref: "Q", PartID: "IMZA120", Category: "MOSFET",
			Pins: []snapshot.Pin{{ID: "G", Net: "GATE", Role: "mosfet_gate"}, {ID: "D", Net: "VSW", Role: "mosfet_drain"}},
		})
	}
	return snap
}

func TestCheckComponentCountToleranceWithinRange(t *testing.T) {
	ref := twoMOSFETSnapshot(3)
	cand := twoMOSFETSnapshot(4)
	errs := skeleton.CheckComponentCountTolerance(ref, cand, 1)
	assert.Empty(t, errs)
}

func TestCheckComponentCountToleranceOutOfRange(t *testing.T) {
	ref := twoMOSFETSnapshot(10)
	cand := twoMOSFETSnapshot(1)
	errs := skeleton.CheckComponentCountTolerance(ref, cand, 1)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "component count for IMZA120 out of tolerance")
}

func TestMatcherSkeletonDisabledStillRunsCountCheck(t *testing.T) {
	m := skeleton.NewMatcher(skeleton.WithSkeletonMatching(false))
	ref := twoMOSFETSnapshot(10)
	cand := twoMOSFETSnapshot(1)

	errs := m.Check(ref, cand, 3)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "out of tolerance")
	assert.Equal(t, "Skeleton subgraph matching skipped (disabled via WithSkeletonMatching(false)).", errs[1])
}

func TestMatcherFindsIdenticalSubgraph(t *testing.T) {
	m := skeleton.NewMatcher()
	snap := twoMOSFETSnapshot(1)
	errs := m.Check(snap, snap, 3)
	for _, e := range errs {
		assert.NotContains(t, e, "skeleton mismatch")
	}
}
