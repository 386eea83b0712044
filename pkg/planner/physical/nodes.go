package physical

import (
	"fmt"

	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// InputBuffer is a leaf node providing blocks that already exist: either
// pre-materialized data handed in by the caller or the task descriptions of a
// read. It performs no transformation and never takes part in fusion.
type InputBuffer struct {
	nodeMeta

	// SourceUnits is the number of independently readable units the buffer
	// holds.
	SourceUnits int
}

var _ Node = (*InputBuffer)(nil)

// Kind implements [Node].
func (*InputBuffer) Kind() NodeKind { return NodeKindInputBuffer }

// Accept implements [Node].
func (n *InputBuffer) Accept(v Visitor) error { return v.VisitInputBuffer(n) }

// Map is a node executing its pipeline on a pool of workers, either
// short-lived tasks or long-lived actors.
type Map struct {
	nodeMeta

	// Compute selects between task-pool and actor-pool execution.
	Compute types.ComputeKind

	// Concurrency bounds the number of concurrent workers. Nil means unset.
	Concurrency *types.Concurrency

	// BatchFormat is the representation the pipeline's re-chunking stage
	// produces, unspecified when the node maps whole blocks.
	BatchFormat types.BatchFormat

	// SplitFactor is greater than one when the node additionally splits
	// each output block to honor a partition-count request exceeding the
	// number of source units.
	SplitFactor int
}

var _ Node = (*Map)(nil)

// Kind implements [Node].
func (*Map) Kind() NodeKind { return NodeKindMap }

// Accept implements [Node].
func (n *Map) Accept(v Visitor) error { return v.VisitMap(n) }

// AllToAllOp identifies the bulk operation an [AllToAll] node performs. The
// algorithm behind each operation belongs to the execution engine; the
// compiler only routes metadata.
type AllToAllOp int

// Recognized values of [AllToAllOp].
const (
	AllToAllShuffle AllToAllOp = iota
	AllToAllRepartition
	AllToAllSort
	AllToAllAggregate
	AllToAllRandomizeOrder
)

// String returns the string representation of the [AllToAllOp].
func (op AllToAllOp) String() string {
	switch op {
	case AllToAllShuffle:
		return "shuffle"
	case AllToAllRepartition:
		return "repartition"
	case AllToAllSort:
		return "sort"
	case AllToAllAggregate:
		return "aggregate"
	case AllToAllRandomizeOrder:
		return "randomize_order"
	default:
		return fmt.Sprintf("AllToAllOp(%d)", int(op))
	}
}

// AllToAll is an opaque bulk-synchronous node: every input block must be
// available before any output block is produced.
type AllToAll struct {
	nodeMeta

	// Operation is the bulk operation performed.
	Operation AllToAllOp

	// Shuffled reports whether the operation redistributes rows across
	// partitions. Repartitioning can go either way; all other operations
	// have a fixed answer.
	Shuffled bool

	// NumOutputs is the requested output partition count of a repartition,
	// zero otherwise.
	NumOutputs int

	// BatchFormat is the representation the operation works in. When
	// unspecified, the batch-format inheritance rule adopts the format of
	// the immediate upstream map.
	BatchFormat types.BatchFormat
}

var _ Node = (*AllToAll)(nil)

// Kind implements [Node].
func (*AllToAll) Kind() NodeKind { return NodeKindAllToAll }

// Accept implements [Node].
func (n *AllToAll) Accept(v Visitor) error { return v.VisitAllToAll(n) }

// absorbsUpstreamMap reports whether an upstream map may fuse into this node
// as its read side. Only redistributing operations read their input through a
// map-shaped phase; sorts and aggregations pin their own read path.
func (n *AllToAll) absorbsUpstreamMap() bool {
	switch n.Operation {
	case AllToAllShuffle:
		return true
	case AllToAllRepartition:
		return n.Shuffled
	default:
		return false
	}
}

// Zip combines the rows of its inputs positionally. It is a fusion boundary
// on both sides.
type Zip struct {
	nodeMeta
}

var _ Node = (*Zip)(nil)

// Kind implements [Node].
func (*Zip) Kind() NodeKind { return NodeKindZip }

// Accept implements [Node].
func (n *Zip) Accept(v Visitor) error { return v.VisitZip(n) }

// Sink is a terminal node writing all rows to an external datasink. Sinks
// execute on short-lived tasks only and never take part in fusion.
type Sink struct {
	nodeMeta

	// Connector is the name of the datasink connector.
	Connector string

	// Concurrency bounds the number of concurrent write tasks. Nil means
	// unset.
	Concurrency *types.Concurrency
}

var _ Node = (*Sink)(nil)

// Kind implements [Node].
func (*Sink) Kind() NodeKind { return NodeKindSink }

// Accept implements [Node].
func (n *Sink) Accept(v Visitor) error { return v.VisitSink(n) }
