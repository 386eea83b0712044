package physical

import (
	"fmt"

	"github.com/blockpipe/blockpipe/pkg/planner/logical"
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// NodeID addresses a node in the arena of a [Plan]. IDs are assigned in
// insertion order and stay stable for the lifetime of the plan; eliminating a
// node tombstones its slot, IDs are never reused.
type NodeID int

// NodeKind identifies the variant of a physical [Node].
type NodeKind int

// Recognized values of [NodeKind].
const (
	// NodeKindInvalid indicates an invalid node.
	NodeKindInvalid NodeKind = iota

	NodeKindInputBuffer // Leaf providing pre-materialized or task-described data.
	NodeKindMap         // Task-pool or actor-pool map executor.
	NodeKindAllToAll    // Opaque bulk-synchronous redistribution step.
	NodeKindZip         // N-ary positional combine.
	NodeKindSink        // Terminal write step.
)

var nodeKindStrings = map[NodeKind]string{
	NodeKindInvalid: "invalid",

	NodeKindInputBuffer: "InputBuffer",
	NodeKindMap:         "Map",
	NodeKindAllToAll:    "AllToAll",
	NodeKindZip:         "Zip",
	NodeKindSink:        "Sink",
}

// String returns the string representation of the [NodeKind].
func (k NodeKind) String() string {
	if s, ok := nodeKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is an executable operator in the physical DAG. The graph structure
// itself (input and output dependencies) is owned by the [Plan]; nodes carry
// only their own metadata.
//
// Node is a sealed interface, implemented by embedding [nodeMeta].
type Node interface {
	// ID returns the arena address of the node within its plan.
	ID() NodeID

	// Kind returns the variant of the node.
	Kind() NodeKind

	// Name returns the display name. Fusion rewrites it to the "→"-joined
	// concatenation of the merged names.
	Name() string

	// Accept dispatches the node to the matching method of the visitor.
	Accept(Visitor) error

	meta() *nodeMeta
}

// nodeMeta is the metadata shared by every node variant. Embedding it
// satisfies the unexported part of [Node], sealing the interface to this
// package.
type nodeMeta struct {
	id   NodeID
	name string

	// provenance lists the logical operators this node stands for, in
	// original DAG order. The planner seeds it with a single entry; fusion
	// extends it.
	provenance []logical.Operator

	// pipeline is the ordered list of transform stages the node applies to
	// each block it processes. Empty for buffers and zips.
	pipeline Pipeline

	// resources is the declarative per-worker resource request.
	resources types.Resources

	// maxBlockSize is the effective upper bound on output block size, in
	// bytes. Fusion keeps the maximum of the merged bounds.
	maxBlockSize uint64

	// minRowsPerBundle is the minimum number of rows bundled into one task
	// invocation. Zero means no minimum. Fusion keeps the maximum.
	minRowsPerBundle int64

	// outputBarrier forbids fusing any downstream node into this one.
	outputBarrier bool
}

func (m *nodeMeta) meta() *nodeMeta { return m }

// ID implements [Node].
func (m *nodeMeta) ID() NodeID { return m.id }

// Name implements [Node].
func (m *nodeMeta) Name() string { return m.name }

// Provenance returns the logical operators the node stands for, in original
// DAG order.
func (m *nodeMeta) Provenance() []logical.Operator { return m.provenance }

// Pipeline returns the transform stages of the node.
func (m *nodeMeta) Pipeline() Pipeline { return m.pipeline }

// Resources returns the declarative resource request of the node.
func (m *nodeMeta) Resources() types.Resources { return m.resources }

// MaxBlockSize returns the effective upper bound on output block size.
func (m *nodeMeta) MaxBlockSize() uint64 { return m.maxBlockSize }

// MinRowsPerBundle returns the minimum number of rows bundled into one task
// invocation.
func (m *nodeMeta) MinRowsPerBundle() int64 { return m.minRowsPerBundle }

// OutputFusionBarrier reports whether downstream nodes are forbidden from
// fusing into this one.
func (m *nodeMeta) OutputFusionBarrier() bool { return m.outputBarrier }
