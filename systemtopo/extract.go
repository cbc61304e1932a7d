package systemtopo

import (
	"strings"

	"github.com/circuitforge/topoverify/snapshot"
)

// mosfetConn captures one MOSFET's power-path nets, grounded on
// original_source/task/topo/system_topology_checker.py's
// _extract_mosfet_connections.
type mosfetConn struct {
	Ref    string
	Gate   string
	Drain  string
	Source string
}

func extractMOSFETConnections(snap *snapshot.Snapshot) []mosfetConn {
	var out []mosfetConn
	for i := range snap.Components {
		c := &snap.Components[i]
		if !isMOSFET(c.PartID) {
			continue
		}
		gate, _ := c.PinByRole("mosfet_gate")
		drain, _ := c.PinByRole("mosfet_drain")
		source, _ := c.PinByRole("mosfet_source")
		out = append(out, mosfetConn{Ref: c.Ref, Gate: gate.Net, Drain: drain.Net, Source: source.Net})
	}
	return out
}

// inductorConn is a two-terminal inductor's connected nets.
type inductorConn struct {
	Ref      string
	PartID   string
	Terminal [2]string
}

// extractInductorConnections collects the two-terminal nets of generic (L)
// and power (Inductor_power) inductors, grounded on
// _extract_inductor_connections.
func extractInductorConnections(snap *snapshot.Snapshot) []inductorConn {
	var out []inductorConn
	for i := range snap.Components {
		c := &snap.Components[i]
		if !GenericInductorIDs[c.PartID] && !PowerInductorIDs[c.PartID] {
			continue
		}
		nets := twoTerminalNets(c)
		if len(nets) != 2 {
			continue
		}
		out = append(out, inductorConn{Ref: c.Ref, PartID: c.PartID, Terminal: [2]string{nets[0], nets[1]}})
	}
	return out
}

// transformerConn is a transformer's primary/secondary terminal nets.
type transformerConn struct {
	Ref               string
	PrimaryA, PrimaryB   string
	SecondaryA, SecondaryB string
}

// extractTransformerConnections reads the primary/secondary pin roles off
// transformer_PQ5050 instances, grounded on _extract_transformer_connections.
func extractTransformerConnections(snap *snapshot.Snapshot) []transformerConn {
	var out []transformerConn
	for i := range snap.Components {
		c := &snap.Components[i]
		if !TransformerIDs[c.PartID] {
			continue
		}
		pa, _ := c.PinByRole("transformer_primary_a")
		pb, _ := c.PinByRole("transformer_primary_b")
		sa, _ := c.PinByRole("transformer_secondary_a")
		sb, _ := c.PinByRole("transformer_secondary_b")
		out = append(out, transformerConn{Ref: c.Ref, PrimaryA: pa.Net, PrimaryB: pb.Net, SecondaryA: sa.Net, SecondaryB: sb.Net})
	}
	return out
}

// twoTerminalNets returns the (up to two) distinct connected nets of a
// two-pin passive, in pin order.
func twoTerminalNets(c *snapshot.Component) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.Pins {
		if !p.Connected() || seen[p.Net] {
			continue
		}
		seen[p.Net] = true
		out = append(out, p.Net)
	}
	return out
}

func isInputSupplyNet(name string) bool {
	return nameHasAny(name, []string{"VIN", "VBUS", "VDC", "VBAT", "V+"})
}

func isOutputNet(name string) bool {
	return nameHasAny(name, []string{"VOUT", "OUT", "VO", "OUTPUT"})
}

func isGroundNet(name string) bool {
	return nameHasAny(name, []string{"GND", "PGND", "VSS", "COM", "GROUND"})
}

func nameHasAny(name string, patterns []string) bool {
	upper := strings.ToUpper(name)
	for _, p := range patterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
