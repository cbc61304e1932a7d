package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/snapshot"
	"github.com/circuitforge/topoverify/verifier"
)

func TestVerifyFastFailsOnConstraintViolation(t *testing.T) {
	kg := kgstore.NewStore()
	kg.LoadKG([]*kgstore.Entry{{
		PartID:      "U1PART",
		Constraints: []kgstore.GenericConstraint{kgstore.SupplyPair{VDDPin: "VDD", GNDPin: "GND"}},
	}})
	candidate := &snapshot.Snapshot{
		Components: []snapshot.Component{{
			Ref: "U1", PartID: "U1PART",
			Pins: []snapshot.Pin{{ID: "VDD", Net: "V5"}, {ID: "GND", Net: "V5"}},
		}},
	}

	v := verifier.NewVerifier(kg)
	res := v.Verify(candidate, nil, 1)

	assert.False(t, res.Passed)
	assert.Len(t, res.Errors, 1, "a Phase 2 violation should fast-fail before later stages run")
}

func TestVerifyPassesCleanSimpleTask(t *testing.T) {
	kg := kgstore.NewStore()
	candidate := &snapshot.Snapshot{
		Components: []snapshot.Component{{Ref: "R1", PartID: "R", Pins: []snapshot.Pin{{ID: "1", Net: "A"}, {ID: "2", Net: "B"}}}},
		Nets:       []snapshot.Net{{Name: "A"}, {Name: "B"}},
	}
	reference := &snapshot.Snapshot{
		Components: []snapshot.Component{{Ref: "R1", PartID: "R", Pins: []snapshot.Pin{{ID: "1", Net: "A"}, {ID: "2", Net: "B"}}}},
		Nets:       []snapshot.Net{{Name: "A"}, {Name: "B"}},
	}

	v := verifier.NewVerifier(kg)
	res := v.Verify(candidate, reference, 1)

	assert.True(t, res.Passed, "errors: %v", res.Errors)
}
