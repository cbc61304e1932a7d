package isolation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/isolation"
	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/snapshot"
)

func isolatedSnapshot() (*snapshot.Snapshot, *kgstore.Store) {
	kg := kgstore.NewStore()
	kg.LoadKG([]*kgstore.Entry{{
		PartID:            "MGJ2D121505SC",
		IsolationBoundary: true,
		PrimaryPins:       []string{"1", "2"},
		SecondaryPins:     []string{"3", "4"},
	}})
	snap := &snapshot.Snapshot{
		Components: []snapshot.Component{
			{Ref: "U1", PartID: "MGJ2D121505SC", Pins: []snapshot.Pin{
				{ID: "1", Net: "VIN"}, {ID: "2", Net: "GND"},
				{ID: "3", Net: "V12_ISO"}, {ID: "4", Net: "GND_ISO"},
			}},
		},
		Nets: []snapshot.Net{{Name: "VIN"}, {Name: "GND"}, {Name: "V12_ISO"}, {Name: "GND_ISO"}},
	}
	return snap, kg
}

func TestIdentifyPartitionsPrimaryAndSecondary(t *testing.T) {
	snap, kg := isolatedSnapshot()
	domains := isolation.Identify(snap, kg)

	assert.Equal(t, "primary", domains.GetNetDomain("VIN"))
	assert.Equal(t, "secondary_0", domains.GetNetDomain("V12_ISO"))
	assert.Equal(t, "unknown", domains.GetNetDomain("NOPE"))
}

func TestCheckBoundaryViolationsDetectsShort(t *testing.T) {
	snap, kg := isolatedSnapshot()
	// short primary pin 1 onto the same net as secondary pin 3
	snap.Components[0].Pins[2].Net = "VIN"

	errs := isolation.CheckBoundaryViolations(snap, kg)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "isolation barrier violation")
}

func TestIdentifyRawExposesOverlap(t *testing.T) {
	snap, kg := isolatedSnapshot()
	// a second isolation boundary whose secondary side sits on the primary's "GND" net
	kg.LoadKG([]*kgstore.Entry{
		{PartID: "MGJ2D121505SC", IsolationBoundary: true, PrimaryPins: []string{"1", "2"}, SecondaryPins: []string{"3", "4"}},
	})
	snap.Components = append(snap.Components, snapshot.Component{
		Ref: "U2", PartID: "MGJ2D121505SC", Pins: []snapshot.Pin{
			{ID: "1", Net: "VIN"}, {ID: "2", Net: "GND"},
			{ID: "3", Net: "GND"}, {ID: "4", Net: "V12_ISO2"},
		},
	})
	snap.Nets = append(snap.Nets, snapshot.Net{Name: "V12_ISO2"})

	raw := isolation.IdentifyRaw(snap, kg)
	assert.True(t, raw.Secondary[0]["GND"] || raw.Secondary[1]["GND"])
}
