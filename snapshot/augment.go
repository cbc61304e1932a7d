package snapshot

// KGLookup is the minimal knowledge-graph surface the augmenter needs. It is
// satisfied by *kgstore.Store; declared here (rather than importing kgstore)
// to keep snapshot dependency-free of the KG's own representation choices.
type KGLookup interface {
	Category(partID, ref string) string
	PinRole(partID, pinID, pinName string) (string, bool)
}

// Augment annotates every component and every net endpoint in snap with
// category and pin-role data from kg. It is idempotent (SPEC_FULL.md §4.2,
// property P1): running it twice yields the same result as running it once,
// since each pass recomputes the fields from the same snapshot and KG.
func Augment(snap *Snapshot, kg KGLookup) {
	for ci := range snap.Components {
		c := &snap.Components[ci]
		c.Category = kg.Category(c.PartID, c.Ref)
		for pi := range c.Pins {
			p := &c.Pins[pi]
			if role, ok := kg.PinRole(c.PartID, p.ID, p.Name); ok {
				p.Role = role
			} else {
				p.Role = ""
			}
		}
	}

	idx := BuildIndex(snap)
	for ni := range snap.Nets {
		net := &snap.Nets[ni]
		for ei := range net.Endpoints {
			ep := &net.Endpoints[ei]
			comp := idx.ComponentByRef(ep.Ref)
			if comp == nil {
				continue
			}
			ep.Category = comp.Category
			ep.PartID = comp.PartID
			if pin, ok := comp.Pin(ep.PinID); ok {
				ep.Role = pin.Role
			} else if pin, ok := comp.Pin(ep.PinName); ok {
				ep.Role = pin.Role
			}
		}
	}
}
