package netconflict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/isolation"
	"github.com/circuitforge/topoverify/netconflict"
	"github.com/circuitforge/topoverify/snapshot"
)

func TestCheckCrossDomain(t *testing.T) {
	raw := &isolation.Domains{
		Primary:   map[string]bool{"GND": true, "VIN": true},
		Secondary: []map[string]bool{{"GND": true, "V12_ISO": true}},
	}
	errs := netconflict.CheckCrossDomain(raw)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "NET CONFLICT: 'GND'")
	assert.Contains(t, errs[0], "primary")
	assert.Contains(t, errs[0], "secondary_0")
}

func TestCheckGNDNamingWarnsOnTooFewNames(t *testing.T) {
	domains := &isolation.Domains{Primary: map[string]bool{}, Secondary: []map[string]bool{{}, {}}}
	snap := &snapshot.Snapshot{Nets: []snapshot.Net{{Name: "GND"}}}

	warnings := netconflict.CheckGNDNaming(domains, snap)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "GND NAMING WARNING")
}

func TestCheckInstanceConflicts(t *testing.T) {
	snap := &snapshot.Snapshot{Nets: []snapshot.Net{{Name: "VSW"}, {Name: "VSW_1"}, {Name: "VSW_2"}}}
	warnings := netconflict.CheckInstanceConflicts(snap)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "INSTANCE NAMING WARNING")
}

func TestCheckMOSFETNetConflicts(t *testing.T) {
	snap := &snapshot.Snapshot{
		Nets: []snapshot.Net{{
			Name: "GATE",
			Endpoints: []snapshot.Endpoint{
				{Ref: "Q1", Category: "MOSFET", Role: "mosfet_gate"},
				{Ref: "Q2", Category: "MOSFET", Role: "mosfet_gate"},
				{Ref: "Q3", Category: "MOSFET", Role: "mosfet_gate"},
			},
		}},
	}
	warnings := netconflict.CheckMOSFETNetConflicts(snap)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "connects to 3 MOSFET gates")
}
