package logical

import (
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// SortKey names the column a [Sort] operator orders by.
type SortKey struct {
	// Column is the name of the column to sort by. It is resolved against
	// the realized schema at first execution.
	Column string
	// Descending reverses the sort order.
	Descending bool
}

// RandomShuffle describes a global random redistribution of all rows.
type RandomShuffle struct {
	// Input is the upstream operator.
	Input Operator
	// Seed, when non-nil, makes the shuffle deterministic.
	Seed *int64
	// Resources declares the per-task resource request of the shuffle.
	Resources types.Resources
}

var _ Operator = (*RandomShuffle)(nil)

// Name returns the display name.
func (s *RandomShuffle) Name() string { return "RandomShuffle" }

// Inputs implements [Operator].
func (s *RandomShuffle) Inputs() []Operator { return []Operator{s.Input} }

// Kind implements [Operator].
func (s *RandomShuffle) Kind() OperatorKind { return KindRandomShuffle }

func (s *RandomShuffle) isOperator() {}

// Repartition describes changing the output partition count, either by
// shuffling rows across partitions or by splitting and coalescing blocks in
// place.
type Repartition struct {
	// Input is the upstream operator.
	Input Operator
	// NumOutputs is the requested partition count.
	NumOutputs int
	// Shuffle selects full redistribution instead of in-place splitting.
	Shuffle bool
	// Resources declares the per-task resource request.
	Resources types.Resources
}

var _ Operator = (*Repartition)(nil)

// Name returns the display name.
func (r *Repartition) Name() string { return "Repartition" }

// Inputs implements [Operator].
func (r *Repartition) Inputs() []Operator { return []Operator{r.Input} }

// Kind implements [Operator].
func (r *Repartition) Kind() OperatorKind { return KindRepartition }

func (r *Repartition) isOperator() {}

// Sort describes a global sort by a single key.
type Sort struct {
	// Input is the upstream operator.
	Input Operator
	// Key is the sort key.
	Key SortKey
	// BatchFormat is the representation rows are sorted in. When
	// unspecified, the batch-format inheritance rule adopts the upstream
	// format.
	BatchFormat types.BatchFormat
	// Resources declares the per-task resource request.
	Resources types.Resources
}

var _ Operator = (*Sort)(nil)

// Name returns the display name.
func (s *Sort) Name() string { return "Sort" }

// Inputs implements [Operator].
func (s *Sort) Inputs() []Operator { return []Operator{s.Input} }

// Kind implements [Operator].
func (s *Sort) Kind() OperatorKind { return KindSort }

func (s *Sort) isOperator() {}

// Aggregate describes a grouped aggregation. The aggregation functions
// themselves are external collaborators; only their names are recorded, for
// display.
type Aggregate struct {
	// Input is the upstream operator.
	Input Operator
	// Key is the grouping column. It is resolved against the realized
	// schema at first execution.
	Key string
	// Fns are the names of the aggregation functions to apply.
	Fns []string
	// BatchFormat is the representation groups are presented in. When
	// unspecified, the batch-format inheritance rule adopts the upstream
	// format.
	BatchFormat types.BatchFormat
	// Resources declares the per-task resource request.
	Resources types.Resources
}

var _ Operator = (*Aggregate)(nil)

// Name returns the display name.
func (a *Aggregate) Name() string { return "Aggregate" }

// Inputs implements [Operator].
func (a *Aggregate) Inputs() []Operator { return []Operator{a.Input} }

// Kind implements [Operator].
func (a *Aggregate) Kind() OperatorKind { return KindAggregate }

func (a *Aggregate) isOperator() {}

// RandomizeBlocks describes randomizing the order of blocks without moving
// any rows between them. Adjacent occurrences are redundant and collapse to
// the last one during optimization.
type RandomizeBlocks struct {
	// Input is the upstream operator.
	Input Operator
	// Seed, when non-nil, makes the reorder deterministic.
	Seed *int64
}

var _ Operator = (*RandomizeBlocks)(nil)

// Name returns the display name.
func (r *RandomizeBlocks) Name() string { return "RandomizeBlockOrder" }

// Inputs implements [Operator].
func (r *RandomizeBlocks) Inputs() []Operator { return []Operator{r.Input} }

// Kind implements [Operator].
func (r *RandomizeBlocks) Kind() OperatorKind { return KindRandomizeBlocks }

func (r *RandomizeBlocks) isOperator() {}
