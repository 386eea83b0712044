package physical

import "errors"

// Defect errors. A defect signals an internal contract violation, not bad
// user input: compilation aborts immediately and is never retried.
var (
	// ErrInvalidOperator reports a logical operator variant the planner has
	// no translation for.
	ErrInvalidOperator = errors.New("unrecognized logical operator")

	// ErrMalformedPlan reports a structurally invalid plan, such as a
	// non-source node without inputs or a graph without a single terminal
	// node.
	ErrMalformedPlan = errors.New("malformed physical plan")

	// ErrFixpoint reports an optimization pass still producing changes
	// after its iteration cap, which means a rewrite rule is not confluent.
	ErrFixpoint = errors.New("optimization did not reach a fixpoint")
)
