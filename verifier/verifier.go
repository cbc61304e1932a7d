// Package verifier wires every verification stage (SPEC_FULL.md §2) into a
// single pipeline: snapshot augmentation, fast-fail constraint checking,
// isolation/net-conflict/interface analysis, then either rule+skeleton
// checking (simple tasks) or system-topology checking (complex tasks).
package verifier

import (
	"github.com/circuitforge/topoverify/constraints"
	"github.com/circuitforge/topoverify/interfacecheck"
	"github.com/circuitforge/topoverify/isolation"
	"github.com/circuitforge/topoverify/kgstore"
	"github.com/circuitforge/topoverify/netconflict"
	"github.com/circuitforge/topoverify/rules"
	"github.com/circuitforge/topoverify/skeleton"
	"github.com/circuitforge/topoverify/snapshot"
	"github.com/circuitforge/topoverify/systemtopo"
)

// Option configures a Verifier at construction time.
type Option func(*Verifier)

// WithSkeletonMatching forwards to skeleton.WithSkeletonMatching, letting a
// caller disable subgraph-isomorphism matching for simple tasks.
func WithSkeletonMatching(enabled bool) Option {
	return func(v *Verifier) { v.skeletonOpt = enabled }
}

// Verifier runs the full pipeline against a shared, read-only KG Store.
type Verifier struct {
	kg          *kgstore.Store
	skeletonOpt bool
}

// NewVerifier builds a Verifier bound to kg. Skeleton matching defaults to
// enabled, matching skeleton.Matcher's default.
func NewVerifier(kg *kgstore.Store, opts ...Option) *Verifier {
	v := &Verifier{kg: kg, skeletonOpt: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Result is the outcome of one Verify call: the pass flag, the hard error
// list, and the net-conflict soft warnings kept separate (for every task)
// per SPEC_FULL.md §6.
type Result struct {
	Passed   bool
	Errors   []string
	Warnings []string
}

// Verify runs the pipeline for one candidate snapshot against taskID,
// consulting reference when taskID names a simple (non-template) task.
// reference may be nil for complex tasks.
func (v *Verifier) Verify(candidate, reference *snapshot.Snapshot, taskID int) Result {
	snapshot.Augment(candidate, v.kg)
	if reference != nil {
		snapshot.Augment(reference, v.kg)
	}

	if errs := constraints.Check(candidate, v.kg, taskID); len(errs) > 0 {
		return Result{Passed: false, Errors: errs}
	}

	var errs, warnings []string

	domains := isolation.Identify(candidate, v.kg)
	raw := isolation.IdentifyRaw(candidate, v.kg)
	errs = append(errs, isolation.CheckBoundaryViolations(candidate, v.kg)...)

	ncErrs, ncWarnings := netconflict.Check(candidate, domains, raw)
	errs = append(errs, ncErrs...)
	warnings = append(warnings, ncWarnings...)

	errs = append(errs, interfacecheck.Check(candidate)...)

	if systemtopo.IsComplexTask(taskID) {
		errs = append(errs, systemtopo.Check(candidate, taskID)...)
	} else if reference != nil {
		rs := rules.Extract(reference)
		errs = append(errs, rules.Check(candidate, rs, taskID)...)

		m := skeleton.NewMatcher(skeleton.WithSkeletonMatching(v.skeletonOpt))
		errs = append(errs, m.Check(reference, candidate, taskID)...)
	}

	return Result{Passed: len(errs) == 0, Errors: errs, Warnings: warnings}
}
