package logical

import (
	"fmt"

	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// MapOptions carries the execution hints shared by all map-family operators.
// The zero value requests defaults for everything.
type MapOptions struct {
	// Resources declares the per-worker resource request.
	Resources types.Resources

	// Compute selects between task-pool and actor-pool execution.
	Compute types.ComputeKind

	// Concurrency bounds the number of concurrent workers. Nil means unset.
	Concurrency *types.Concurrency

	// MinRowsPerBundledInput is the minimum number of rows bundled into a
	// single task invocation. Zero means no minimum.
	MinRowsPerBundledInput int64
}

// MapRows describes applying a user function to each row.
type MapRows struct {
	// Input is the upstream operator.
	Input Operator
	// Fn is the user-function name, used for display only.
	Fn string
	// Opts are shared execution hints.
	Opts MapOptions
}

var _ Operator = (*MapRows)(nil)

// Name returns the display name, e.g. "Map(fn)".
func (m *MapRows) Name() string { return fmt.Sprintf("Map(%s)", m.Fn) }

// Inputs implements [Operator].
func (m *MapRows) Inputs() []Operator { return []Operator{m.Input} }

// Kind implements [Operator].
func (m *MapRows) Kind() OperatorKind { return KindMapRows }

func (m *MapRows) isOperator() {}

// MapBatches describes applying a user function to re-chunked batches of
// rows.
type MapBatches struct {
	// Input is the upstream operator.
	Input Operator
	// Fn is the user-function name, used for display only.
	Fn string
	// BatchSize is the number of rows per batch. Zero leaves the choice to
	// the engine.
	BatchSize int
	// BatchFormat is the representation in which batches are presented to
	// the user function.
	BatchFormat types.BatchFormat
	// Opts are shared execution hints.
	Opts MapOptions
}

var _ Operator = (*MapBatches)(nil)

// Name returns the display name, e.g. "MapBatches(fn)".
func (m *MapBatches) Name() string { return fmt.Sprintf("MapBatches(%s)", m.Fn) }

// Inputs implements [Operator].
func (m *MapBatches) Inputs() []Operator { return []Operator{m.Input} }

// Kind implements [Operator].
func (m *MapBatches) Kind() OperatorKind { return KindMapBatches }

func (m *MapBatches) isOperator() {}

// Filter describes keeping only the rows for which a user predicate holds.
// Predicates referencing columns are resolved against the realized schema at
// first execution; an unknown column surfaces there as a [types.ColumnError],
// never during compilation.
type Filter struct {
	// Input is the upstream operator.
	Input Operator
	// Fn is the user-predicate name, used for display only.
	Fn string
	// Opts are shared execution hints.
	Opts MapOptions
}

var _ Operator = (*Filter)(nil)

// Name returns the display name, e.g. "Filter(fn)".
func (f *Filter) Name() string { return fmt.Sprintf("Filter(%s)", f.Fn) }

// Inputs implements [Operator].
func (f *Filter) Inputs() []Operator { return []Operator{f.Input} }

// Kind implements [Operator].
func (f *Filter) Kind() OperatorKind { return KindFilter }

func (f *Filter) isOperator() {}

// FlatMap describes applying a user function that yields zero or more output
// rows per input row.
type FlatMap struct {
	// Input is the upstream operator.
	Input Operator
	// Fn is the user-function name, used for display only.
	Fn string
	// Opts are shared execution hints.
	Opts MapOptions
}

var _ Operator = (*FlatMap)(nil)

// Name returns the display name, e.g. "FlatMap(fn)".
func (f *FlatMap) Name() string { return fmt.Sprintf("FlatMap(%s)", f.Fn) }

// Inputs implements [Operator].
func (f *FlatMap) Inputs() []Operator { return []Operator{f.Input} }

// Kind implements [Operator].
func (f *FlatMap) Kind() OperatorKind { return KindFlatMap }

func (f *FlatMap) isOperator() {}

// Project describes selecting and/or renaming columns. Column names are
// validated lazily at first execution.
type Project struct {
	// Input is the upstream operator.
	Input Operator
	// Columns are the columns to keep, in order. Empty keeps all columns.
	Columns []string
	// Rename maps existing column names to new ones.
	Rename map[string]string
	// Opts are shared execution hints.
	Opts MapOptions
}

var _ Operator = (*Project)(nil)

// Name returns the display name.
func (p *Project) Name() string { return "Project" }

// Inputs implements [Operator].
func (p *Project) Inputs() []Operator { return []Operator{p.Input} }

// Kind implements [Operator].
func (p *Project) Kind() OperatorKind { return KindProject }

func (p *Project) isOperator() {}
