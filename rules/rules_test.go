package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/rules"
	"github.com/circuitforge/topoverify/snapshot"
)

func refSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "C1", PartID: "C", Pins: []snapshot.Pin{{ID: "1", Net: "VIN"}, {ID: "2", Net: "VOUT"}}},
			{Ref: "R1", PartID: "R", Pins: []snapshot.Pin{{ID: "1", Net: "VOUT"}, {ID: "2", Net: "FB"}}},
		},
		Nets: []snapshot.Net{
			{Name: "VIN", Endpoints: []snapshot.Endpoint{{Ref: "C1", PinID: "1", Role: "supply_vdd", PartID: "C"}}},
			{Name: "VOUT", Endpoints: []snapshot.Endpoint{{Ref: "C1", PinID: "2", Role: "fb_out", PartID: "C"}, {Ref: "R1", PinID: "1", Role: "fb_out", PartID: "R"}}},
			{Name: "FB", Endpoints: []snapshot.Endpoint{{Ref: "R1", PinID: "2", Role: "fb_in", PartID: "R"}}},
		},
	}
}

func TestExtractProducesCDirectAndRPath(t *testing.T) {
	rs := rules.Extract(refSnapshot())
	assert.NotEmpty(t, rs)

	var sawCDirect, sawRPath bool
	for _, r := range rs {
		switch r.(type) {
		case rules.CDirect:
			sawCDirect = true
		case rules.RPath:
			sawRPath = true
		}
	}
	assert.True(t, sawCDirect, "expected a C_DIRECT rule from the C1 capacitor")
	assert.True(t, sawRPath, "expected an R_PATH rule from the R1 resistor")
}

func TestCheckCDirectFlagsMissingCapacitor(t *testing.T) {
	candidate := &snapshot.Snapshot{
		Nets: []snapshot.Net{
			{Name: "VIN", Endpoints: []snapshot.Endpoint{{Ref: "C1", PartID: "C", Role: "supply_vdd"}}},
			{Name: "VOUT", Endpoints: []snapshot.Endpoint{{Ref: "C1", PartID: "C", Role: "fb_out"}}},
		},
	}
	rule := rules.CDirect{
		A: rules.Endpoint{PartID: "C", Role: "supply_vdd"},
		B: rules.Endpoint{PartID: "C", Role: "fb_out"},
	}

	errs := rules.Check(candidate, []rules.Rule{rule}, 1)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "missing capacitor between endpoints")
}

func TestCheckCDirectPassesWhenCapacitorBridges(t *testing.T) {
	candidate := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "C2", PartID: "C", Pins: []snapshot.Pin{{ID: "1", Net: "VIN"}, {ID: "2", Net: "VOUT"}}},
		},
		Nets: []snapshot.Net{
			{Name: "VIN", Endpoints: []snapshot.Endpoint{{Ref: "C2", PartID: "C", Role: "supply_vdd"}}},
			{Name: "VOUT", Endpoints: []snapshot.Endpoint{{Ref: "C2", PartID: "C", Role: "fb_out"}}},
		},
	}
	rule := rules.CDirect{
		A: rules.Endpoint{PartID: "C", Role: "supply_vdd"},
		B: rules.Endpoint{PartID: "C", Role: "fb_out"},
	}

	errs := rules.Check(candidate, []rules.Rule{rule}, 1)
	assert.Empty(t, errs)
}

func TestWaiveMosfetSourceDrainCDirect(t *testing.T) {
	candidate := &snapshot.Snapshot{}
	rule := rules.CDirect{
		A: rules.Endpoint{Role: "mosfet_source"},
		B: rules.Endpoint{Role: "mosfet_drain"},
	}
	errs := rules.Check(candidate, []rules.Rule{rule}, 1)
	assert.Empty(t, errs, "mosfet_source<->mosfet_drain should always be waived")
}
