// Package report formats the verifier's accumulated diagnostic strings for
// two audiences: a human-readable failure report (SPEC_FULL.md §4.12), and
// a condensed, imperative feedback block suited for an LLM retry prompt
// (SPEC_FULL.md §4.13, supplemented).
package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Format renders errs as a dashed list under a failure header. An empty
// list renders as the empty string.
func Format(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Topology verification failed:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

var refPrefix = regexp.MustCompile(`^([A-Za-z0-9_]+):\s`)

// FormatForLLM renders errs as short imperative guidance lines suited for a
// retry prompt: several diagnostics sharing the same "<ref>: " prefix
// collapse into one bullet ("Fix <ref>: msgA; msgB"), and UCC21710 CLMPI
// hints are called out separately with their "Hint:" marker.
//
// Pure text formatting over an already-produced error list; it adds no new
// verification semantics.
func FormatForLLM(errs []string) string {
	if len(errs) == 0 {
		return ""
	}

	var order []string
	byRef := map[string][]string{}
	var unprefixed []string
	var hints []string

	for _, e := range errs {
		if strings.HasPrefix(e, "Hint:") {
			hints = append(hints, e)
			continue
		}
		m := refPrefix.FindStringSubmatch(e)
		if m == nil {
			unprefixed = append(unprefixed, e)
			continue
		}
		ref := m[1]
		rest := e[len(m[0]):]
		if _, ok := byRef[ref]; !ok {
			order = append(order, ref)
		}
		if !containsStr(byRef[ref], rest) {
			byRef[ref] = append(byRef[ref], rest)
		}
	}

	var b strings.Builder
	for _, ref := range order {
		fmt.Fprintf(&b, "Fix %s: %s\n", ref, strings.Join(byRef[ref], "; "))
	}
	for _, e := range unprefixed {
		fmt.Fprintf(&b, "Fix: %s\n", e)
	}
	for _, h := range hints {
		fmt.Fprintln(&b, h)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func containsStr(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
