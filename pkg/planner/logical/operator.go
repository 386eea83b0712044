package logical

import "fmt"

// OperatorKind identifies the variant of a logical [Operator].
type OperatorKind int

// Recognized values of [OperatorKind].
const (
	// KindInvalid indicates an invalid operator.
	KindInvalid OperatorKind = iota

	KindRead            // Read from an external datasource.
	KindInputData       // Pre-materialized input data.
	KindMapRows         // Row-wise map.
	KindMapBatches      // Batch-wise map.
	KindFilter          // Row-wise predicate filter.
	KindFlatMap         // Row-wise map producing zero or more rows.
	KindProject         // Column selection and renaming.
	KindRandomShuffle   // Global random shuffle.
	KindRepartition     // Change of the output partition count.
	KindSort            // Global sort.
	KindAggregate       // Grouped aggregation.
	KindRandomizeBlocks // Randomized block order, without moving rows.
	KindZip             // Positional combination of multiple inputs.
	KindWrite           // Write to an external datasink.
)

var operatorKindStrings = map[OperatorKind]string{
	KindInvalid: "invalid",

	KindRead:            "Read",
	KindInputData:       "InputData",
	KindMapRows:         "Map",
	KindMapBatches:      "MapBatches",
	KindFilter:          "Filter",
	KindFlatMap:         "FlatMap",
	KindProject:         "Project",
	KindRandomShuffle:   "RandomShuffle",
	KindRepartition:     "Repartition",
	KindSort:            "Sort",
	KindAggregate:       "Aggregate",
	KindRandomizeBlocks: "RandomizeBlockOrder",
	KindZip:             "Zip",
	KindWrite:           "Write",
}

// String returns the string representation of the [OperatorKind].
func (k OperatorKind) String() string {
	if s, ok := operatorKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("OperatorKind(%d)", int(k))
}

// Operator is a node in the logical DAG: a declarative description of one
// transformation step, before any execution concern is resolved. Operators
// are built once by the front end and are read-only afterwards; the physical
// planner consumes each operator exactly once.
//
// Operator is a sealed interface. Every variant lives in this package, and
// every dispatch site switches exhaustively over the concrete types so that a
// newly added variant fails to compile rather than misplan.
type Operator interface {
	// Name returns the display name of the operator. For map-family
	// operators the name embeds the user-function name, e.g. "Map(fn)".
	Name() string

	// Inputs returns the upstream operators in order: none for sources, one
	// for unary operators, two or more for n-ary operators.
	Inputs() []Operator

	// Kind returns the variant of the operator.
	Kind() OperatorKind

	isOperator()
}
