package logical

import (
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// Write describes writing all rows to an external datasink. The sink itself
// (file format, external datastore) is an external collaborator.
type Write struct {
	// Input is the upstream operator.
	Input Operator
	// Connector is the name of the datasink connector, e.g. "Parquet".
	Connector string
	// Concurrency bounds the number of concurrent write tasks. Nil means
	// unset.
	Concurrency *types.Concurrency
	// Resources declares the per-write-task resource request.
	Resources types.Resources
}

var _ Operator = (*Write)(nil)

// Name returns the display name.
func (w *Write) Name() string { return "Write" }

// Inputs implements [Operator].
func (w *Write) Inputs() []Operator { return []Operator{w.Input} }

// Kind implements [Operator].
func (w *Write) Kind() OperatorKind { return KindWrite }

func (w *Write) isOperator() {}
