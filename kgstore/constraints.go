package kgstore

// GenericConstraint is a tagged variant (SPEC_FULL.md §3): one component-level
// constraint declared by a knowledge-graph entry. Dispatch is by type switch
// in the constraints package, not by reflection on a type name (SPEC_FULL §9).
type GenericConstraint interface {
	isGenericConstraint()
}

// MustBeConnected requires every listed pin to carry a real (non-NC) net.
type MustBeConnected struct {
	Pins []string
}

func (MustBeConnected) isGenericConstraint() {}

// SupplyPair requires VDDPin and GNDPin to be connected and on different nets.
type SupplyPair struct {
	VDDPin string
	GNDPin string
}

func (SupplyPair) isGenericConstraint() {}

// DifferentialPairMustBeDistinct requires the two listed pins, if connected,
// to sit on different nets.
type DifferentialPairMustBeDistinct struct {
	Pins []string
}

func (DifferentialPairMustBeDistinct) isGenericConstraint() {}

// DrivingPair requires GatePin to be connected; unless the task belongs to
// the GATE_FLOAT_TASKS set, its net must carry at least two endpoints.
type DrivingPair struct {
	GatePin   string
	SourcePin string
}

func (DrivingPair) isGenericConstraint() {}
