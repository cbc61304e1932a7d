package systemtopo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/snapshot"
	"github.com/circuitforge/topoverify/systemtopo"
)

func mosfet(ref, gate, drain, source string) snapshot.Component {
	return snapshot.Component{
		Ref: ref, PartID: "IMZA120", Category: "MOSFET",
		Pins: []snapshot.Pin{
			{ID: "G", Net: gate, Role: "mosfet_gate"},
			{ID: "D", Net: drain, Role: "mosfet_drain"},
			{ID: "S", Net: source, Role: "mosfet_source"},
		},
	}
}

func inductor(ref, a, b string) snapshot.Component {
	return snapshot.Component{Ref: ref, PartID: "Inductor_power", Pins: []snapshot.Pin{{ID: "1", Net: a}, {ID: "2", Net: b}}}
}

func TestIsComplexTask(t *testing.T) {
	assert.True(t, systemtopo.IsComplexTask(17))
	assert.False(t, systemtopo.IsComplexTask(1))
}

func TestVerifySyncBuckHappyPath(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			mosfet("Q1", "G1", "VIN", "VSW"),
			mosfet("Q2", "G2", "VSW", "GND"),
			inductor("L1", "VSW", "VOUT"),
		},
		Nets: []snapshot.Net{{Name: "VIN"}, {Name: "VSW"}, {Name: "GND"}, {Name: "VOUT"}},
	}
	errs := systemtopo.Check(snap, 17)
	for _, e := range errs {
		assert.NotContains(t, e, "sync_buck: missing inductor path")
		assert.NotContains(t, e, "high-side MOSFET drain")
		assert.NotContains(t, e, "low-side MOSFET source")
	}
}

func TestVerifySyncBuckMissingInductorPath(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			mosfet("Q1", "G1", "VIN", "VSW"),
			mosfet("Q2", "G2", "VSW", "GND"),
		},
		Nets: []snapshot.Net{{Name: "VIN"}, {Name: "VSW"}, {Name: "GND"}, {Name: "VOUT"}},
	}
	errs := systemtopo.Check(snap, 17)
	found := false
	for _, e := range errs {
		if e == "sync_buck: missing inductor path from switch node to output" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckComponentCountsFlagsUndercount(t *testing.T) {
	snap := &snapshot.Snapshot{}
	errs := systemtopo.Check(snap, 17)
	assert.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e == "Synchronous Buck Converter: expected at least 2 MOSFETs, found 0" {
			found = true
		}
	}
	assert.True(t, found)
}
