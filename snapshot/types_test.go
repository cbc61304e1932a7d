package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/snapshot"
)

func TestPinConnected(t *testing.T) {
	cases := []struct {
		net  string
		want bool
	}{
		{"VIN", true},
		{"", false},
		{"  ", false},
		{"NC", false},
		{"nc", false},
		{"__NOCONNECT", false},
	}
	for _, c := range cases {
		p := snapshot.Pin{Net: c.net}
		assert.Equalf(t, c.want, p.Connected(), "net=%q", c.net)
	}
}

func TestComponentPinLookup(t *testing.T) {
	c := snapshot.Component{
		Ref: "Q1",
		Pins: []snapshot.Pin{
			{ID: "1", Name: "G", Net: "GATE", Role: "mosfet_gate"},
			{ID: "2", Name: "D", Net: "VSW", Role: "mosfet_drain"},
		},
	}

	p, ok := c.Pin("1")
	assert.True(t, ok)
	assert.Equal(t, "GATE", p.Net)

	p, ok = c.Pin("D")
	assert.True(t, ok)
	assert.Equal(t, "VSW", p.Net)

	_, ok = c.Pin("missing")
	assert.False(t, ok)

	p, ok = c.PinByRole("mosfet_drain")
	assert.True(t, ok)
	assert.Equal(t, "2", p.ID)
}

func TestResolveNamedNet(t *testing.T) {
	snap := &snapshot.Snapshot{Nets: []snapshot.Net{{Name: "VBUS_1"}, {Name: "gnd"}}}

	assert.Equal(t, "VBUS_1", snap.ResolveNamedNet("vbus_1"))
	assert.Equal(t, "gnd", snap.ResolveNamedNet("GND"))
	assert.Equal(t, "", snap.ResolveNamedNet("VOUT"))
}

func TestBuildIndex(t *testing.T) {
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{{Ref: "R1"}, {Ref: "C1"}},
		Nets:       []snapshot.Net{{Name: "VIN"}},
	}
	idx := snapshot.BuildIndex(snap)

	assert.NotNil(t, idx.ComponentByRef("R1"))
	assert.Nil(t, idx.ComponentByRef("missing"))
	assert.NotNil(t, idx.NetByName("VIN"))
	assert.Nil(t, idx.NetByName(""))
}
