// Package isolation identifies primary/secondary isolation domains and
// detects direct shorts across an isolation boundary (SPEC_FULL.md §4.5).
//
// Grounded on original_source/task/topo/isolation_domain.py
// (identify_isolation_domains, _build_net_graph, _find_primary_domain,
// _bfs_connected_nets, _find_secondary_domains, check_isolation_boundary_violations).
package isolation

import (
	"fmt"
	"strings"

	"github.com/circuitforge/topoverify/bfs"
	"github.com/circuitforge/topoverify/core"

	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/snapshot"
)

// anchorPatterns seeds the primary-domain BFS. Preserved verbatim per
// SPEC_FULL.md §9's Open Question resolution: "keep the exact seed list."
var anchorPatterns = []string{"VIN", "VBUS", "VCC", "V12", "V5", "GND_PRI", "PGND"}

// Domains is the result of Identify: a primary net set and zero or more
// secondary net sets, one per isolation-boundary component encountered.
type Domains struct {
	Primary   map[string]bool
	Secondary []map[string]bool
}

// GetNetDomain reports which domain a net belongs to: "primary",
// "secondary_N", or "unknown".
func (d *Domains) GetNetDomain(net string) string {
	if d.Primary[net] {
		return "primary"
	}
	for i, sec := range d.Secondary {
		if sec[net] {
			return fmt.Sprintf("secondary_%d", i)
		}
	}
	return "unknown"
}

// boundaryComp captures one isolation-boundary component's side-pin sets,
// keyed by pin id or name (isolation_domain.py's _pin_in_set handles both).
type boundaryComp struct {
	ref           string
	primaryPins   map[string]bool
	secondaryPins map[string]bool
}

// Identify partitions snap's nets into a primary domain and a list of
// secondary domains, one per isolation-boundary component. Each secondary
// domain excludes nets already claimed by an earlier domain, so the result
// is a genuine partition suitable for GetNetDomain.
func Identify(snap *snapshot.Snapshot, kg *kgstore.Store) *Domains {
	return identify(snap, kg, true)
}

// IdentifyRaw computes the same domains as Identify, but without excluding
// a net already claimed by an earlier domain: each domain's BFS is seeded
// and explored independently. This exposes the overlaps that Identify's
// exclusion would otherwise hide, which is exactly what the net-conflict
// checker (SPEC_FULL.md §4.6 "Cross-domain") needs: two domains that, left
// unconstrained, both reach the same net name indicate a naming collision
// across what should be separate isolation domains (SPEC_FULL.md S6).
func IdentifyRaw(snap *snapshot.Snapshot, kg *kgstore.Store) *Domains {
	return identify(snap, kg, false)
}

func identify(snap *snapshot.Snapshot, kg *kgstore.Store, exclusive bool) *Domains {
	boundaries := findIsolationComponents(snap, kg)
	boundarySet := make(map[string]*boundaryComp, len(boundaries))
	for _, b := range boundaries {
		boundarySet[b.ref] = b
	}

	g, netVertex := buildNetGraph(snap, boundarySet)

	primarySeed := findPrimarySeed(snap, netVertex)
	primary := bfsNets(g, netVertex, primarySeed, nil)

	assigned := map[string]bool{}
	if exclusive {
		for n := range primary {
			assigned[n] = true
		}
	}

	var secondaries []map[string]bool
	for _, b := range boundaries {
		var seeds []string
		for i := range snap.Components {
			c := &snap.Components[i]
			if c.Ref != b.ref {
				continue
			}
			for _, p := range c.Pins {
				if !p.Connected() {
					continue
				}
				if pinInSet(p, b.secondaryPins) {
					seeds = append(seeds, p.Net)
				}
			}
		}
		domain := map[string]bool{}
		for _, seed := range seeds {
			for n := range bfsNets(g, netVertex, seed, assigned) {
				domain[n] = true
			}
		}
		if exclusive {
			for n := range domain {
				assigned[n] = true
			}
		}
		secondaries = append(secondaries, domain)
	}

	return &Domains{Primary: primary, Secondary: secondaries}
}

// CheckBoundaryViolations emits a diagnostic when an isolation-boundary
// component's own primary-side and secondary-side net sets intersect
// (a direct short across the barrier it is supposed to maintain).
func CheckBoundaryViolations(snap *snapshot.Snapshot, kg *kgstore.Store) []string {
	var errs []string
	boundaries := findIsolationComponents(snap, kg)
	for _, b := range boundaries {
		var primaryNets, secondaryNets []string
		for i := range snap.Components {
			c := &snap.Components[i]
			if c.Ref != b.ref {
				continue
			}
			for _, p := range c.Pins {
				if !p.Connected() {
					continue
				}
				if pinInSet(p, b.primaryPins) {
					primaryNets = append(primaryNets, p.Net)
				}
				if pinInSet(p, b.secondaryPins) {
					secondaryNets = append(secondaryNets, p.Net)
				}
			}
		}
		for _, pn := range primaryNets {
			for _, sn := range secondaryNets {
				if pn == sn {
					errs = append(errs, fmt.Sprintf("%s: Net '%s' connects both primary and secondary sides (isolation barrier violation)", b.ref, pn))
				}
			}
		}
	}
	return errs
}

func pinInSet(p snapshot.Pin, set map[string]bool) bool {
	return set[p.ID] || set[p.Name]
}

func findIsolationComponents(snap *snapshot.Snapshot, kg *kgstore.Store) []*boundaryComp {
	var out []*boundaryComp
	for i := range snap.Components {
		c := &snap.Components[i]
		boundary, primary, secondary := kg.IsolationInfo(c.PartID)
		if !boundary {
			continue
		}
		out = append(out, &boundaryComp{
			ref:           c.Ref,
			primaryPins:   toSet(primary),
			secondaryPins: toSet(secondary),
		})
	}
	return out
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// buildNetGraph builds a net<->net adjacency graph: non-boundary components
// fully connect all of their connected pins' nets; boundary components only
// connect nets that sit on the same side.
func buildNetGraph(snap *snapshot.Snapshot, boundaries map[string]*boundaryComp) (*core.Graph, map[string]bool) {
	g := core.NewGraph(core.WithMultiEdges())
	vertex := map[string]bool{}
	ensure := func(name string) {
		if !vertex[name] {
			vertex[name] = true
			_ = g.AddVertex(name)
		}
	}
	for i := range snap.Components {
		c := &snap.Components[i]
		var groups [][]string
		if b, ok := boundaries[c.Ref]; ok {
			var pri, sec []string
			for _, p := range c.Pins {
				if !p.Connected() {
					continue
				}
				if pinInSet(p, b.primaryPins) {
					pri = append(pri, p.Net)
				} else if pinInSet(p, b.secondaryPins) {
					sec = append(sec, p.Net)
				}
			}
			groups = [][]string{pri, sec}
		} else {
			var all []string
			for _, p := range c.Pins {
				if p.Connected() {
					all = append(all, p.Net)
				}
			}
			groups = [][]string{all}
		}
		for _, group := range groups {
			for _, n := range group {
				ensure(n)
			}
			for a := 0; a < len(group); a++ {
				for b := a + 1; b < len(group); b++ {
					if group[a] == group[b] {
						continue
					}
					_, _ = g.AddEdge(group[a], group[b], 0)
				}
			}
		}
	}
	return g, vertex
}

// findPrimarySeed resolves the anchor net to seed the primary-domain BFS:
// the first anchor substring that matches any net name (uppercased), then
// any net containing "VIN", then the first net in the snapshot.
func findPrimarySeed(snap *snapshot.Snapshot, vertex map[string]bool) string {
	for _, pat := range anchorPatterns {
		for _, net := range snap.Nets {
			if strings.Contains(strings.ToUpper(net.Name), pat) && vertex[net.Name] {
				return net.Name
			}
		}
	}
	for _, net := range snap.Nets {
		if strings.Contains(strings.ToUpper(net.Name), "VIN") && vertex[net.Name] {
			return net.Name
		}
	}
	if len(snap.Nets) > 0 {
		return snap.Nets[0].Name
	}
	return ""
}

// bfsNets runs BFS from seed over g, skipping nets already in exclude, and
// returns the reached net set (seed included, unless excluded itself).
func bfsNets(g *core.Graph, vertex map[string]bool, seed string, exclude map[string]bool) map[string]bool {
	out := map[string]bool{}
	if seed == "" || !vertex[seed] || (exclude != nil && exclude[seed]) {
		return out
	}
	res, err := bfs.BFS(g, seed, bfs.WithFilterNeighbor(func(_, neighbor string) bool {
		return exclude == nil || !exclude[neighbor]
	}))
	if err != nil {
		out[seed] = true
		return out
	}
	for _, id := range res.Order {
		out[id] = true
	}
	return out
}
