// Package snapshot defines the circuit-snapshot data model shared by every
// verification stage: components, pins, nets, and the net-endpoint
// descriptors used for tolerant rule matching.
//
// A Snapshot is built once by the surrounding runtime and augmented in
// place (see Augment) before any checker sees it; from that point on every
// stage in this module treats it as read-only.
package snapshot

import "strings"

// Pin is a single pin on a Component. Net is empty when the pin is
// unconnected; it may also hold an explicit no-connect marker ("NC",
// "__NOCONNECT"), which Connected treats as unconnected.
type Pin struct {
	ID   string
	Name string
	Net  string
	Role string
}

// Connected reports whether the pin is wired to a real net.
func (p Pin) Connected() bool {
	n := strings.TrimSpace(p.Net)
	if n == "" {
		return false
	}
	switch strings.ToUpper(n) {
	case "NC", "__NOCONNECT":
		return false
	default:
		return true
	}
}

// Component is one instantiated part in the snapshot.
type Component struct {
	Ref      string
	PartID   string
	Value    string
	Category string
	Pins     []Pin
}

// Pin returns the pin matching id (by PinID first, then PinName), or false.
func (c *Component) Pin(id string) (Pin, bool) {
	for _, p := range c.Pins {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range c.Pins {
		if p.Name == id {
			return p, true
		}
	}
	return Pin{}, false
}

// PinByRole returns the first pin carrying the given role, or false.
func (c *Component) PinByRole(role string) (Pin, bool) {
	for _, p := range c.Pins {
		if p.Role == role {
			return p, true
		}
	}
	return Pin{}, false
}

// Endpoint is a net's reference to one pin of one component.
type Endpoint struct {
	Ref      string
	PinID    string
	PinName  string
	Role     string
	Category string
	PartID   string // filled by Augment for endpoint-signature resolution
}

// Net is a named electrical node: a set of component-pin endpoints.
type Net struct {
	Name      string
	Endpoints []Endpoint
}

// Snapshot is the full circuit description: an ordered component list and
// an ordered net list.
type Snapshot struct {
	Components []Component
	Nets       []Net
}

// Index provides O(1) lookup of components and nets by key, built on
// demand from a Snapshot. It never mutates the Snapshot.
type Index struct {
	Components map[string]*Component
	Nets       map[string]*Net
}

// BuildIndex indexes snap's components by Ref and nets by Name.
func BuildIndex(snap *Snapshot) *Index {
	idx := &Index{
		Components: make(map[string]*Component, len(snap.Components)),
		Nets:       make(map[string]*Net, len(snap.Nets)),
	}
	for i := range snap.Components {
		idx.Components[snap.Components[i].Ref] = &snap.Components[i]
	}
	for i := range snap.Nets {
		idx.Nets[snap.Nets[i].Name] = &snap.Nets[i]
	}
	return idx
}

// ComponentByRef looks up a component, or returns nil.
func (idx *Index) ComponentByRef(ref string) *Component {
	return idx.Components[ref]
}

// NetByName looks up a net, or returns nil.
func (idx *Index) NetByName(name string) *Net {
	if name == "" {
		return nil
	}
	return idx.Nets[name]
}

// ResolveNamedNet resolves a canonical net name (e.g. "VIN", "VSW_1") to the
// snapshot's actual net name, matching case-insensitively. Returns "" if
// no such net exists.
func (snap *Snapshot) ResolveNamedNet(desired string) string {
	want := strings.ToUpper(desired)
	for _, net := range snap.Nets {
		if strings.ToUpper(net.Name) == want {
			return net.Name
		}
	}
	return ""
}
