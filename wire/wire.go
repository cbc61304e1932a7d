// Package wire decodes the two externally-mandated JSON formats (circuit
// snapshot, knowledge graph) into the snapshot and kgstore packages' types.
//
// This is the one package in the module built on the standard library's
// encoding/json rather than a third-party dependency: no repository in the
// reference pack exercises JSON at all, so there is no ecosystem convention
// from this corpus to follow here, and the wire formats are externally
// mandated byte-for-byte (see SPEC_FULL.md §2A, DESIGN.md).
package wire

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/snapshot"
)

// snapshotPin is the wire shape of one pin.
type snapshotPin struct {
	PinID   string `json:"pin_id"`
	PinName string `json:"pin_name"`
	Net     string `json:"net"`
}

// snapshotComponent is the wire shape of one component.
type snapshotComponent struct {
	Ref    string        `json:"ref"`
	PartID string        `json:"part_id"`
	Value  string        `json:"value"`
	Pins   []snapshotPin `json:"pins"`
}

// snapshotEndpoint is the wire shape of one net endpoint.
type snapshotEndpoint struct {
	Ref     string `json:"ref"`
	PinID   string `json:"pin_id"`
	PinName string `json:"pin_name"`
}

// snapshotNet is the wire shape of one net.
type snapshotNet struct {
	Name      string             `json:"name"`
	Endpoints []snapshotEndpoint `json:"endpoints"`
}

// snapshotDoc is the top-level Snapshot JSON document (SPEC_FULL.md §6).
type snapshotDoc struct {
	Components []snapshotComponent `json:"components"`
	Nets       []snapshotNet       `json:"nets"`
}

// DecodeSnapshot parses a Snapshot JSON document from r.
func DecodeSnapshot(r io.Reader) (*snapshot.Snapshot, error) {
	var doc snapshotDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("wire: decode snapshot: %w", err)
	}

	out := &snapshot.Snapshot{
		Components: make([]snapshot.Component, 0, len(doc.Components)),
		Nets:       make([]snapshot.Net, 0, len(doc.Nets)),
	}
	for _, c := range doc.Components {
		comp := snapshot.Component{Ref: c.Ref, PartID: c.PartID, Value: c.Value}
		for _, p := range c.Pins {
			comp.Pins = append(comp.Pins, snapshot.Pin{ID: p.PinID, Name: p.PinName, Net: p.Net})
		}
		out.Components = append(out.Components, comp)
	}
	for _, n := range doc.Nets {
		net := snapshot.Net{Name: n.Name}
		for _, e := range n.Endpoints {
			net.Endpoints = append(net.Endpoints, snapshot.Endpoint{Ref: e.Ref, PinID: e.PinID, PinName: e.PinName})
		}
		out.Nets = append(out.Nets, net)
	}
	return out, nil
}

// kgComponent is the wire shape of one knowledge-graph (or base-table) entry.
type kgComponent struct {
	ID                string              `json:"id"`
	Category          string              `json:"category"`
	PinRoles          map[string]string   `json:"pin_roles"`
	GenericConstraint []genericConstraint `json:"generic_constraints"`
	IsolationBoundary bool                `json:"isolation_boundary"`
	PrimaryPins       []string            `json:"primary_pins"`
	SecondaryPins     []string            `json:"secondary_pins"`
}

// genericConstraint is the wire shape of one tagged generic constraint.
// The "type" discriminator matches SPEC_FULL.md §3's tagged-variant names.
type genericConstraint struct {
	Type   string   `json:"type"`
	Pins   []string `json:"pins"`
	VDD    string   `json:"vdd_pin"`
	GND    string   `json:"gnd_pin"`
	Gate   string   `json:"gate_pin"`
	Source string   `json:"source_pin"`
}

// kgDoc is the top-level Knowledge-Graph JSON document (SPEC_FULL.md §6).
type kgDoc struct {
	Components []kgComponent `json:"components"`
}

// DecodeKG parses a Knowledge-Graph JSON document from r into a slice of
// *kgstore.Entry ready for Store.LoadKG / Store.LoadBase.
func DecodeKG(r io.Reader) ([]*kgstore.Entry, error) {
	var doc kgDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("wire: decode knowledge graph: %w", err)
	}

	entries := make([]*kgstore.Entry, 0, len(doc.Components))
	for _, c := range doc.Components {
		e := &kgstore.Entry{
			PartID:            c.ID,
			Category:          c.Category,
			PinRoles:          c.PinRoles,
			IsolationBoundary: c.IsolationBoundary,
			PrimaryPins:       c.PrimaryPins,
			SecondaryPins:     c.SecondaryPins,
		}
		for _, gc := range c.GenericConstraint {
			switch gc.Type {
			case "must_be_connected":
				e.Constraints = append(e.Constraints, kgstore.MustBeConnected{Pins: gc.Pins})
			case "supply_pair":
				e.Constraints = append(e.Constraints, kgstore.SupplyPair{VDDPin: gc.VDD, GNDPin: gc.GND})
			case "differential_pair_must_be_distinct":
				e.Constraints = append(e.Constraints, kgstore.DifferentialPairMustBeDistinct{Pins: gc.Pins})
			case "driving_pair":
				e.Constraints = append(e.Constraints, kgstore.DrivingPair{GatePin: gc.Gate, SourcePin: gc.Source})
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
