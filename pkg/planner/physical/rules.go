package physical

import (
	"slices"

	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// SizeEstimator estimates operator output sizes. It is an external
// collaborator, typically fed by runtime metrics of previous executions or
// by static estimates.
type SizeEstimator interface {
	// AverageOutputBytes returns the estimated average output size, in
	// bytes, of one scheduling unit of the node, and whether an estimate is
	// known.
	AverageOutputBytes(Node) (uint64, bool)
}

// inheritBatchFormat makes a sort or aggregation without an explicit batch
// representation adopt the representation its immediate upstream map already
// produces, avoiding a conversion between the two.
type inheritBatchFormat struct {
	plan *Plan
}

var _ rule = (*inheritBatchFormat)(nil)

// name implements rule.
func (r *inheritBatchFormat) name() string { return "inherit_batch_format" }

// apply implements rule.
func (r *inheritBatchFormat) apply(node Node) bool {
	all, ok := node.(*AllToAll)
	if !ok {
		return false
	}
	if all.Operation != AllToAllSort && all.Operation != AllToAllAggregate {
		return false
	}
	if all.BatchFormat != types.BatchFormatUnspecified {
		return false
	}

	children := r.plan.Children(node)
	if len(children) != 1 {
		return false
	}
	up, ok := children[0].(*Map)
	if !ok || up.BatchFormat == types.BatchFormatUnspecified {
		return false
	}

	all.BatchFormat = up.BatchFormat
	return true
}

// configureMapMemory fills in the memory request of operators that left it
// unset, using the size estimator when it knows an average output size. A
// caller-supplied memory value is never overridden.
type configureMapMemory struct {
	plan      *Plan
	estimator SizeEstimator
}

var _ rule = (*configureMapMemory)(nil)

// name implements rule.
func (r *configureMapMemory) name() string { return "configure_map_memory" }

// apply implements rule.
func (r *configureMapMemory) apply(node Node) bool {
	if r.estimator == nil {
		return false
	}
	switch node.(type) {
	case *Map, *Sink:
	default:
		return false
	}

	m := node.meta()
	if m.resources.MemoryBytes != 0 {
		return false
	}
	estimate, ok := r.estimator.AverageOutputBytes(node)
	if !ok || estimate == 0 {
		return false
	}

	m.resources.MemoryBytes = estimate
	return true
}

// collapseReorders removes a block-order randomization that feeds directly
// into another one: only the last reorder is observable.
type collapseReorders struct {
	plan *Plan
}

var _ rule = (*collapseReorders)(nil)

// name implements rule.
func (r *collapseReorders) name() string { return "collapse_reorders" }

// apply implements rule.
func (r *collapseReorders) apply(node Node) bool {
	down, ok := node.(*AllToAll)
	if !ok || down.Operation != AllToAllRandomizeOrder {
		return false
	}

	changed := false
	for _, child := range r.plan.Children(node) {
		up, ok := child.(*AllToAll)
		if !ok || up.Operation != AllToAllRandomizeOrder {
			continue
		}
		if len(r.plan.Parents(up)) != 1 {
			continue
		}
		down.provenance = slices.Concat(up.provenance, down.provenance)
		r.plan.Eliminate(up)
		changed = true
	}
	return changed
}
