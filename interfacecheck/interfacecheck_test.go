package interfacecheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/interfacecheck"
	"github.com/circuitforge/topoverify/snapshot"
)

func TestCheckGateDriverDirectShort(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "U1", Category: "gate-driver", Pins: []snapshot.Pin{{ID: "OUT", Net: "GATE", Role: "out"}}},
			{Ref: "Q1", Category: "MOSFET", Pins: []snapshot.Pin{{ID: "G", Net: "GATE", Role: "mosfet_gate"}}},
		},
	}
	errs := interfacecheck.Check(snap)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "without gate resistor")
}

func TestCheckGateDriverThroughResistorIsClean(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "U1", Category: "gate-driver", Pins: []snapshot.Pin{{ID: "OUT", Net: "DRV", Role: "out"}}},
			{Ref: "R1", PartID: "R", Pins: []snapshot.Pin{{ID: "1", Net: "DRV"}, {ID: "2", Net: "GATE"}}},
			{Ref: "Q1", Category: "MOSFET", Pins: []snapshot.Pin{{ID: "G", Net: "GATE", Role: "mosfet_gate"}}},
		},
	}
	errs := interfacecheck.Check(snap)
	assert.Empty(t, errs)
}

func TestCheckKelvinSourceConnections(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "U1", PartID: "UCC5390E", Pins: []snapshot.Pin{{ID: "GND2", Net: "SRC", Role: "secondary_gnd"}}},
			{Ref: "Q1", Category: "MOSFET", Pins: []snapshot.Pin{
				{ID: "S", Net: "SRC", Role: "mosfet_source"},
				{ID: "KS", Net: "KS", Role: "mosfet_kelvin_source"},
			}},
		},
	}
	errs := interfacecheck.Check(snap)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "should connect to Kelvin Source")
}

func TestCheckIsolatedSupplyConnections(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "PS1", PartID: "MGJ2D121505SC", Pins: []snapshot.Pin{
				{ID: "1", Role: "out_plus"},
				{ID: "2", Role: "out_minus"},
			}},
		},
	}
	errs := interfacecheck.Check(snap)
	assert.Len(t, errs, 2)
}
