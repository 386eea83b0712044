package logical

// Plan is a complete logical DAG: the terminal operator of the intent graph
// plus the configuration context of the compilation. A Plan is immutable for
// the duration of one compilation.
type Plan struct {
	// Root is the terminal operator. The rest of the DAG is reachable
	// through [Operator.Inputs].
	Root Operator

	// Context is the compilation context. When nil, defaults apply.
	Context *Context
}

// NewPlan returns a Plan for the DAG terminated by root.
func NewPlan(root Operator, ctx *Context) *Plan {
	return &Plan{Root: root, Context: ctx}
}
