package physical

import (
	"slices"

	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// fuseOperators merges adjacent compatible operators into one, eliminating
// the block materialization and task scheduling between them. The rule works
// on one edge at a time: for the visited node it tries to absorb one of its
// inputs, and the driver re-applies it until no pair qualifies.
//
// Every merge removes a node, so the loop terminates. The predicate is local
// and pairwise, and the merged node adopts its combined attributes
// immediately, so the fixpoint does not depend on traversal order.
type fuseOperators struct {
	plan    *Plan
	metrics *optimizerMetrics
}

var _ rule = (*fuseOperators)(nil)

// name implements rule.
func (r *fuseOperators) name() string { return "fuse_operators" }

// apply implements rule.
func (r *fuseOperators) apply(node Node) bool {
	for _, up := range r.plan.Children(node) {
		// Only maps are ever absorbed: buffers and zips produce nothing
		// to inline, and a bulk step's output side stays separate on
		// purpose, see the package documentation.
		upMap, ok := up.(*Map)
		if !ok || !r.canFuse(upMap, node) {
			continue
		}
		r.fuse(upMap, node)
		if r.metrics != nil {
			r.metrics.fusedOperators.Inc()
		}
		return true
	}
	return false
}

// canFuse reports whether the upstream map may be absorbed into the
// downstream node it feeds.
func (r *fuseOperators) canFuse(upMap *Map, down Node) bool {
	switch down := down.(type) {
	case *Map:
	case *AllToAll:
		if !down.absorbsUpstreamMap() {
			return false
		}
	default:
		return false
	}

	// A fan-out producer cannot be inlined into one consumer without
	// duplicating its work for the others.
	if len(r.plan.Parents(upMap)) != 1 {
		return false
	}
	if upMap.outputBarrier {
		return false
	}

	if !upMap.resources.Compatible(down.meta().resources) {
		return false
	}
	return computeCompatible(upMap, down)
}

// computeCompatible checks the compute-kind/concurrency part of the fusion
// predicate. Workers of the merged node must be able to honor both bounds at
// once.
func computeCompatible(up *Map, down Node) bool {
	// An actor pool holds operator state; inlining it elsewhere would lose
	// the pool identity.
	if up.Compute == types.ComputeActorPool {
		return false
	}

	switch down := down.(type) {
	case *Map:
		switch down.Compute {
		case types.ComputeTaskPool:
			if up.Concurrency == nil && down.Concurrency == nil {
				return true
			}
			return up.Concurrency.Fixed() && up.Concurrency.Equal(down.Concurrency)
		case types.ComputeActorPool:
			if up.Concurrency == nil {
				return true
			}
			return down.Concurrency != nil && up.Concurrency.Max == down.Concurrency.Max
		}
		return false
	case *AllToAll:
		// The bulk step schedules its own read phase; an upstream bound
		// cannot be honored across the barrier.
		return up.Concurrency == nil
	}
	return false
}

// fuse merges the upstream map into the downstream node, which takes the
// upstream's place in the graph.
func (r *fuseOperators) fuse(up *Map, down Node) {
	um, dm := up.meta(), down.meta()

	dm.name = um.name + "→" + dm.name
	dm.provenance = slices.Concat(um.provenance, dm.provenance)
	dm.pipeline = concatPipelines(um.pipeline, dm.pipeline)
	dm.resources = um.resources.Merge(dm.resources)
	dm.maxBlockSize = max(um.maxBlockSize, dm.maxBlockSize)
	dm.minRowsPerBundle = max(um.minRowsPerBundle, dm.minRowsPerBundle)

	if down, ok := down.(*Map); ok && down.BatchFormat == types.BatchFormatUnspecified {
		down.BatchFormat = up.BatchFormat
	}

	r.plan.Eliminate(up)
}
