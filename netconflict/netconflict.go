// Package netconflict detects net-naming conflicts: cross-domain name
// collisions and multi-instance naming hygiene (SPEC_FULL.md §4.6).
//
// Grounded on original_source/task/topo/net_conflict_checker.py
// (check_net_conflicts, _check_cross_domain_nets, _check_gnd_naming,
// _check_instance_conflicts, check_mosfet_net_conflicts).
package netconflict

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/circuitforge/topoverify/isolation"
	"github.com/circuitforge/topoverify/snapshot"
)

// CheckCrossDomain emits a hard error for every net name independently
// reachable from two or more isolation domains (isolation.IdentifyRaw),
// matching SPEC_FULL.md S6's literal wording.
func CheckCrossDomain(raw *isolation.Domains) []string {
	var errs []string
	type hit struct {
		domain string
	}
	byNet := map[string][]string{}
	for n := range raw.Primary {
		byNet[n] = append(byNet[n], "primary")
	}
	for i, sec := range raw.Secondary {
		label := fmt.Sprintf("secondary_%d", i)
		for n := range sec {
			byNet[n] = append(byNet[n], label)
		}
	}
	for net, domains := range byNet {
		if len(domains) < 2 {
			continue
		}
		sort.Strings(domains)
		errs = append(errs, fmt.Sprintf(
			"NET CONFLICT: '%s' appears in both %s and %s domains. This may cause unintended short circuit.",
			net, domains[0], domains[1]))
	}
	return errs
}

// CheckGNDNaming warns when the number of distinct ground-like nets is
// fewer than the number of isolation domains.
func CheckGNDNaming(domains *isolation.Domains, snap *snapshot.Snapshot) []string {
	numDomains := 1 + len(domains.Secondary)
	gndSet := map[string]bool{}
	for _, net := range snap.Nets {
		if strings.Contains(strings.ToUpper(net.Name), "GND") {
			gndSet[net.Name] = true
		}
	}
	if len(gndSet) >= numDomains {
		return nil
	}
	names := make([]string, 0, len(gndSet))
	for n := range gndSet {
		names = append(names, n)
	}
	sort.Strings(names)
	return []string{fmt.Sprintf(
		"GND NAMING WARNING: Circuit has %d isolation domains but only %d unique GND net(s): %v. "+
			"Consider using distinct names like GND_PRI, GND_SEC1, GND_SEC2.",
		numDomains, len(names), names)}
}

var instanceSuffix = regexp.MustCompile(`^(.*)_([0-9]+)$`)

// CheckInstanceConflicts warns when a base net name exists both with and
// without a numeric instance suffix (e.g. "VSW" and "VSW_1" coexisting).
func CheckInstanceConflicts(snap *snapshot.Snapshot) []string {
	bases := map[string]bool{}
	suffixed := map[string][]string{}
	for _, net := range snap.Nets {
		if m := instanceSuffix.FindStringSubmatch(net.Name); m != nil {
			suffixed[m[1]] = append(suffixed[m[1]], net.Name)
		} else {
			bases[net.Name] = true
		}
	}
	var errs []string
	for base, names := range suffixed {
		if !bases[base] {
			continue
		}
		all := append([]string{base}, names...)
		sort.Strings(all)
		errs = append(errs, fmt.Sprintf(
			"INSTANCE NAMING WARNING: Net '%s' exists both with and without numeric suffixes: %v. "+
				"This may indicate incomplete multi-instance naming.", base, all))
	}
	sort.Strings(errs)
	return errs
}

// CheckMOSFETNetConflicts warns when more than two MOSFET gates share a
// single gate net — a likely unintended parallel connection.
func CheckMOSFETNetConflicts(snap *snapshot.Snapshot) []string {
	byNet := map[string][]string{}
	for _, net := range snap.Nets {
		var refs []string
		for _, ep := range net.Endpoints {
			if ep.Category == "MOSFET" && ep.Role == "mosfet_gate" {
				refs = append(refs, ep.Ref)
			}
		}
		if len(refs) > 2 {
			byNet[net.Name] = refs
		}
	}
	var errs []string
	names := make([]string, 0, len(byNet))
	for n := range byNet {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, net := range names {
		refs := byNet[net]
		errs = append(errs, fmt.Sprintf(
			"GATE NET WARNING: Net '%s' connects to %d MOSFET gates: %v. "+
				"This may indicate unintended parallel connection or missing numeric suffix for multi-half-bridge design.",
			net, len(refs), refs))
	}
	return errs
}

// Check runs every net-naming analysis and returns errors and warnings
// separately, matching SPEC_FULL.md §6's "for complex tasks, warnings are
// returned separately" output shape.
func Check(snap *snapshot.Snapshot, domains *isolation.Domains, raw *isolation.Domains) (errors, warnings []string) {
	errors = append(errors, CheckCrossDomain(raw)...)
	warnings = append(warnings, CheckGNDNaming(domains, snap)...)
	warnings = append(warnings, CheckInstanceConflicts(snap)...)
	warnings = append(warnings, CheckMOSFETNetConflicts(snap)...)
	return errors, warnings
}
