package logical

import (
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// Builder provides a fluent way to construct a logical DAG. Each call wraps
// the current terminal operator in a new one and returns a new Builder, so
// intermediate builders remain usable for fan-out.
//
// Example:
//
//	plan := logical.NewBuilder(&logical.Read{Connector: "Parquet", SourceUnits: 4, OutputPartitions: 4}).
//		MapBatches("fn", 0, types.BatchFormatUnspecified, logical.MapOptions{}).
//		RandomShuffle(nil).
//		Write("Parquet", nil).
//		ToPlan(ctx)
type Builder struct {
	op Operator
}

// NewBuilder returns a Builder terminated by the given source operator.
func NewBuilder(source Operator) *Builder {
	return &Builder{op: source}
}

// Operator returns the current terminal operator.
func (b *Builder) Operator() Operator {
	return b.op
}

// MapRows applies a row-wise user function.
func (b *Builder) MapRows(fn string, opts MapOptions) *Builder {
	return &Builder{op: &MapRows{Input: b.op, Fn: fn, Opts: opts}}
}

// MapBatches applies a batch-wise user function.
func (b *Builder) MapBatches(fn string, batchSize int, format types.BatchFormat, opts MapOptions) *Builder {
	return &Builder{op: &MapBatches{Input: b.op, Fn: fn, BatchSize: batchSize, BatchFormat: format, Opts: opts}}
}

// Filter keeps only rows matching a user predicate.
func (b *Builder) Filter(fn string, opts MapOptions) *Builder {
	return &Builder{op: &Filter{Input: b.op, Fn: fn, Opts: opts}}
}

// FlatMap applies a user function yielding zero or more rows per input row.
func (b *Builder) FlatMap(fn string, opts MapOptions) *Builder {
	return &Builder{op: &FlatMap{Input: b.op, Fn: fn, Opts: opts}}
}

// Project selects and/or renames columns.
func (b *Builder) Project(columns []string, rename map[string]string) *Builder {
	return &Builder{op: &Project{Input: b.op, Columns: columns, Rename: rename}}
}

// RandomShuffle globally redistributes all rows.
func (b *Builder) RandomShuffle(seed *int64) *Builder {
	return &Builder{op: &RandomShuffle{Input: b.op, Seed: seed}}
}

// Repartition changes the output partition count.
func (b *Builder) Repartition(numOutputs int, shuffle bool) *Builder {
	return &Builder{op: &Repartition{Input: b.op, NumOutputs: numOutputs, Shuffle: shuffle}}
}

// Sort globally sorts by the given key.
func (b *Builder) Sort(key SortKey) *Builder {
	return &Builder{op: &Sort{Input: b.op, Key: key}}
}

// Aggregate groups by key and applies the named aggregation functions.
func (b *Builder) Aggregate(key string, fns ...string) *Builder {
	return &Builder{op: &Aggregate{Input: b.op, Key: key, Fns: fns}}
}

// RandomizeBlocks randomizes block order without moving rows.
func (b *Builder) RandomizeBlocks(seed *int64) *Builder {
	return &Builder{op: &RandomizeBlocks{Input: b.op, Seed: seed}}
}

// Zip combines this builder's output positionally with the outputs of the
// given builders.
func (b *Builder) Zip(others ...*Builder) *Builder {
	sources := make([]Operator, 0, len(others)+1)
	sources = append(sources, b.op)
	for _, other := range others {
		sources = append(sources, other.op)
	}
	return &Builder{op: &Zip{Sources: sources}}
}

// Write writes all rows to an external datasink.
func (b *Builder) Write(connector string, concurrency *types.Concurrency) *Builder {
	return &Builder{op: &Write{Input: b.op, Connector: connector, Concurrency: concurrency}}
}

// ToPlan terminates the DAG and returns the immutable plan. A nil ctx uses
// the default configuration.
func (b *Builder) ToPlan(ctx *Context) *Plan {
	if ctx == nil {
		ctx = NewContext(DefaultConfig())
	}
	return NewPlan(b.op, ctx)
}
