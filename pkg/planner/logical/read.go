package logical

import (
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// Read describes reading from an external datasource. The datasource itself
// (file format, datastore client) is an external collaborator; the operator
// only records how the read is shaped.
type Read struct {
	// Connector is the name of the datasource connector, e.g. "Parquet" or
	// "Range". It is embedded in the display name.
	Connector string

	// SourceUnits is the number of independently readable units the
	// datasource reports (files, row groups, generated ranges).
	SourceUnits int

	// OutputPartitions is the partition count requested by the caller. When
	// it exceeds SourceUnits, the planner splits the blocks produced by each
	// unit to honor the request.
	OutputPartitions int

	// Resources declares the per-read-task resource request.
	Resources types.Resources
}

var _ Operator = (*Read)(nil)

// Name returns the display name of the read, e.g. "ReadParquet".
func (r *Read) Name() string { return "Read" + r.Connector }

// Inputs implements [Operator]. A read has no upstream operators.
func (r *Read) Inputs() []Operator { return nil }

// Kind implements [Operator].
func (r *Read) Kind() OperatorKind { return KindRead }

func (r *Read) isOperator() {}

// InputData describes input that is already materialized in memory (or
// described by handles the engine can dereference), requiring no read stage.
type InputData struct {
	// Source names where the data came from, e.g. "FromItems". It is used
	// as the display name.
	Source string
}

var _ Operator = (*InputData)(nil)

// Name returns the display name of the input.
func (d *InputData) Name() string { return d.Source }

// Inputs implements [Operator]. Input data has no upstream operators.
func (d *InputData) Inputs() []Operator { return nil }

// Kind implements [Operator].
func (d *InputData) Kind() OperatorKind { return KindInputData }

func (d *InputData) isOperator() {}
