package kgstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/kgstore"
)

func TestCategoryFallbackOrder(t *testing.T) {
	s := kgstore.NewStore()
	s.LoadKG([]*kgstore.Entry{{PartID: "UCC5390E", Category: "gate-driver"}})

	assert.Equal(t, "gate-driver", s.Category("UCC5390E", "U1"), "KG category wins")
	assert.Equal(t, "passive", s.Category("RES_0603", "R17"), "ref prefix R -> passive")
	assert.Equal(t, "MOSFET", s.Category("SOME_PART", "Q3"), "ref prefix Q -> MOSFET")
	assert.Equal(t, "passive", s.Category("C", "U9"), "literal one-letter passive")
	assert.Equal(t, "unknown", s.Category("WHATEVER", "X1"))
}

func TestLoadReplacesWholesale(t *testing.T) {
	s := kgstore.NewStore()
	s.LoadKG([]*kgstore.Entry{{PartID: "A", Category: "x"}})
	s.LoadKG([]*kgstore.Entry{{PartID: "B", Category: "y"}})

	_, ok := s.GetComponent("A")
	assert.False(t, ok, "second LoadKG should replace, not merge")
	e, ok := s.GetComponent("B")
	assert.True(t, ok)
	assert.Equal(t, "y", e.Category)
}

func TestPinRoleFallsBackToBase(t *testing.T) {
	s := kgstore.NewStore()
	s.LoadBase([]*kgstore.Entry{{PartID: "Q", PinRoles: map[string]string{"1": "mosfet_gate"}}})

	role, ok := s.PinRole("Q", "1", "")
	assert.True(t, ok)
	assert.Equal(t, "mosfet_gate", role)

	_, ok = s.PinRole("Q", "missing", "")
	assert.False(t, ok)
}

func TestIsolationInfo(t *testing.T) {
	s := kgstore.NewStore()
	s.LoadKG([]*kgstore.Entry{{
		PartID:            "MGJ2D121505SC",
		IsolationBoundary: true,
		PrimaryPins:       []string{"1", "2"},
		SecondaryPins:     []string{"3", "4"},
	}})

	boundary, pri, sec := s.IsolationInfo("MGJ2D121505SC")
	assert.True(t, boundary)
	assert.Equal(t, []string{"1", "2"}, pri)
	assert.Equal(t, []string{"3", "4"}, sec)

	boundary, _, _ = s.IsolationInfo("R")
	assert.False(t, boundary)
}
