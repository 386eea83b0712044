package physical

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/blockpipe/blockpipe/pkg/planner/logical"
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// Planner creates an executable physical plan from a logical plan. Each
// logical operator is translated into one physical node, with two
// exceptions: a Read becomes an input buffer plus its read-side map, and a
// read requesting more output partitions than it has source units grows a
// block-splitting step fused into the read map.
//
// The planner never rewrites what it translated; all rewriting is left to
// the [Optimizer].
type Planner struct {
	logger  log.Logger
	metrics *plannerMetrics

	plan *Plan
	memo map[logical.Operator]Node
}

// NewPlanner creates a new planner instance.
func NewPlanner(opts ...Option) *Planner {
	o := applyOptions(opts)
	return &Planner{
		logger:  o.logger,
		metrics: newPlannerMetrics(o.registerer),
	}
}

// Build converts a given logical plan into a physical plan and returns an
// error if the conversion fails. The logical DAG is walked in dependency
// order, memoized by operator identity so shared sub-DAGs are translated
// once.
func (p *Planner) Build(lp *logical.Plan) (*Plan, error) {
	if lp == nil || lp.Root == nil {
		return nil, fmt.Errorf("%w: logical plan has no terminal operator", ErrMalformedPlan)
	}

	ctx := lp.Context
	if ctx == nil {
		ctx = logical.NewContext(logical.DefaultConfig())
	}

	p.plan = NewPlan(ctx)
	p.memo = make(map[logical.Operator]Node)

	if _, err := p.process(lp.Root, ctx); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	p.metrics.compilations.Inc()
	p.metrics.planNodes.Observe(float64(p.plan.Len()))
	level.Debug(p.logger).Log("msg", "built physical plan", "plan", p.plan.ID(), "nodes", p.plan.Len())

	return p.plan, nil
}

// validate checks the structural invariants of the freshly built plan. A
// violation is a defect in the translation, not bad user input.
func (p *Planner) validate() error {
	if _, err := p.plan.Root(); err != nil {
		return err
	}
	for _, n := range p.plan.Nodes() {
		if len(p.plan.Children(n)) == 0 && n.Kind() != NodeKindInputBuffer {
			return fmt.Errorf("%w: node %q has no inputs and is not a source", ErrMalformedPlan, n.Name())
		}
	}
	return nil
}

// Convert a [logical.Operator] into a physical [Node].
func (p *Planner) process(op logical.Operator, ctx *logical.Context) (Node, error) {
	if node, ok := p.memo[op]; ok {
		return node, nil
	}

	var (
		node Node
		err  error
	)
	switch op := op.(type) {
	case *logical.Read:
		node, err = p.processRead(op, ctx)
	case *logical.InputData:
		node, err = p.processInputData(op)
	case *logical.MapRows:
		node, err = p.processBlockMap(op, op.Input, op.Fn, op.Opts, ctx)
	case *logical.Filter:
		node, err = p.processBlockMap(op, op.Input, op.Fn, op.Opts, ctx)
	case *logical.FlatMap:
		node, err = p.processBlockMap(op, op.Input, op.Fn, op.Opts, ctx)
	case *logical.Project:
		node, err = p.processBlockMap(op, op.Input, op.Name(), op.Opts, ctx)
	case *logical.MapBatches:
		node, err = p.processMapBatches(op, ctx)
	case *logical.RandomShuffle:
		node, err = p.processAllToAll(op, op.Input, AllToAllShuffle, true, 0, op.Resources, ctx)
	case *logical.Repartition:
		node, err = p.processAllToAll(op, op.Input, AllToAllRepartition, op.Shuffle, op.NumOutputs, op.Resources, ctx)
	case *logical.Sort:
		node, err = p.processSort(op, ctx)
	case *logical.Aggregate:
		node, err = p.processAggregate(op, ctx)
	case *logical.RandomizeBlocks:
		node, err = p.processAllToAll(op, op.Input, AllToAllRandomizeOrder, false, 0, types.Resources{}, ctx)
	case *logical.Zip:
		node, err = p.processZip(op, ctx)
	case *logical.Write:
		node, err = p.processWrite(op, ctx)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidOperator, op)
	}
	if err != nil {
		return nil, err
	}

	ctx.RecordUsage(op.Kind())
	p.memo[op] = node
	return node, nil
}

// connect adds the node to the plan and wires one input edge per logical
// input, translating the inputs first.
func (p *Planner) connect(node Node, ctx *logical.Context, inputs ...logical.Operator) (Node, error) {
	p.plan.Add(node)
	for _, in := range inputs {
		child, err := p.process(in, ctx)
		if err != nil {
			return nil, err
		}
		if err := p.plan.AddEdge(Edge{Parent: node, Child: child}); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Convert [logical.Read] into an [InputBuffer] holding the read task
// descriptions plus the read-side [Map] executing them. When the requested
// partition count exceeds the number of source units, the read map splits
// each output block in place; the composite is named
// "Read<Connector>→SplitBlocks(n)" and becomes a fusion barrier on its
// output side, since fusing a downstream map into it would silently defeat
// the caller's explicit partition request.
func (p *Planner) processRead(op *logical.Read, ctx *logical.Context) (Node, error) {
	buffer := &InputBuffer{
		nodeMeta:    nodeMeta{name: "Input", provenance: []logical.Operator{op}},
		SourceUnits: op.SourceUnits,
	}
	p.plan.Add(buffer)

	name := op.Name()
	split := 0
	if op.SourceUnits > 0 && op.OutputPartitions > op.SourceUnits {
		split = (op.OutputPartitions + op.SourceUnits - 1) / op.SourceUnits
		name = fmt.Sprintf("%s→SplitBlocks(%d)", name, split)
	}

	read := &Map{
		nodeMeta: nodeMeta{
			name:       name,
			provenance: []logical.Operator{op},
			pipeline: Pipeline{
				{Kind: StageBlockMap, Fn: op.Name()},
				{Kind: StageBuildOutputBlocks},
			},
			resources:     op.Resources,
			maxBlockSize:  uint64(ctx.Config.TargetMaxBlockSize),
			outputBarrier: split > 0,
		},
		SplitFactor: split,
	}
	p.plan.Add(read)
	if err := p.plan.AddEdge(Edge{Parent: read, Child: buffer}); err != nil {
		return nil, err
	}
	return read, nil
}

// Convert [logical.InputData] into a bare [InputBuffer]; pre-materialized
// data needs no read stage.
func (p *Planner) processInputData(op *logical.InputData) (Node, error) {
	buffer := &InputBuffer{
		nodeMeta: nodeMeta{name: op.Name(), provenance: []logical.Operator{op}},
	}
	p.plan.Add(buffer)
	return buffer, nil
}

// Convert a row-wise map-family operator into a [Map] with a whole-block
// pipeline.
func (p *Planner) processBlockMap(op logical.Operator, input logical.Operator, fn string, opts logical.MapOptions, ctx *logical.Context) (Node, error) {
	node := &Map{
		nodeMeta: nodeMeta{
			name:       op.Name(),
			provenance: []logical.Operator{op},
			pipeline: Pipeline{
				{Kind: StageBlockMap, Fn: fn},
				{Kind: StageBuildOutputBlocks},
			},
			resources:        opts.Resources,
			maxBlockSize:     uint64(ctx.Config.TargetMaxBlockSize),
			minRowsPerBundle: opts.MinRowsPerBundledInput,
		},
		Compute:     opts.Compute,
		Concurrency: opts.Concurrency,
	}
	return p.connect(node, ctx, input)
}

// Convert [logical.MapBatches] into a [Map] that re-chunks blocks into
// batches before applying the user function.
func (p *Planner) processMapBatches(op *logical.MapBatches, ctx *logical.Context) (Node, error) {
	node := &Map{
		nodeMeta: nodeMeta{
			name:       op.Name(),
			provenance: []logical.Operator{op},
			pipeline: Pipeline{
				{Kind: StageBlocksToBatches, BatchSize: op.BatchSize, BatchFormat: op.BatchFormat},
				{Kind: StageBatchMap, Fn: op.Fn},
				{Kind: StageBuildOutputBlocks},
			},
			resources:        op.Opts.Resources,
			maxBlockSize:     uint64(ctx.Config.TargetMaxBlockSize),
			minRowsPerBundle: op.Opts.MinRowsPerBundledInput,
		},
		Compute:     op.Opts.Compute,
		Concurrency: op.Opts.Concurrency,
		BatchFormat: op.BatchFormat,
	}
	return p.connect(node, ctx, op.Input)
}

// Convert an AllToAll-family operator into an [AllToAll] node. Operations
// that redistribute rows across the bulk-synchronous barrier resolve their
// block-size bound to the shuffle threshold; operations that keep rows in
// place resolve to the default threshold.
func (p *Planner) processAllToAll(op logical.Operator, input logical.Operator, kind AllToAllOp, shuffled bool, numOutputs int, resources types.Resources, ctx *logical.Context) (Node, error) {
	node := &AllToAll{
		nodeMeta: nodeMeta{
			name:         op.Name(),
			provenance:   []logical.Operator{op},
			resources:    resources,
			maxBlockSize: allToAllThreshold(kind, shuffled, ctx),
		},
		Operation:  kind,
		Shuffled:   shuffled,
		NumOutputs: numOutputs,
	}
	return p.connect(node, ctx, input)
}

func (p *Planner) processSort(op *logical.Sort, ctx *logical.Context) (Node, error) {
	node := &AllToAll{
		nodeMeta: nodeMeta{
			name:         op.Name(),
			provenance:   []logical.Operator{op},
			resources:    op.Resources,
			maxBlockSize: uint64(ctx.Config.TargetShuffleMaxBlockSize),
		},
		Operation:   AllToAllSort,
		Shuffled:    true,
		BatchFormat: op.BatchFormat,
	}
	return p.connect(node, ctx, op.Input)
}

func (p *Planner) processAggregate(op *logical.Aggregate, ctx *logical.Context) (Node, error) {
	node := &AllToAll{
		nodeMeta: nodeMeta{
			name:         op.Name(),
			provenance:   []logical.Operator{op},
			resources:    op.Resources,
			maxBlockSize: uint64(ctx.Config.TargetShuffleMaxBlockSize),
		},
		Operation:   AllToAllAggregate,
		Shuffled:    true,
		BatchFormat: op.BatchFormat,
	}
	return p.connect(node, ctx, op.Input)
}

func allToAllThreshold(kind AllToAllOp, shuffled bool, ctx *logical.Context) uint64 {
	switch kind {
	case AllToAllShuffle, AllToAllSort, AllToAllAggregate:
		return uint64(ctx.Config.TargetShuffleMaxBlockSize)
	case AllToAllRepartition:
		if shuffled {
			return uint64(ctx.Config.TargetShuffleMaxBlockSize)
		}
		return uint64(ctx.Config.TargetMaxBlockSize)
	default:
		return uint64(ctx.Config.TargetMaxBlockSize)
	}
}

// Convert [logical.Zip] into a [Zip] with one input edge per logical input.
func (p *Planner) processZip(op *logical.Zip, ctx *logical.Context) (Node, error) {
	if len(op.Sources) < 2 {
		return nil, fmt.Errorf("%w: zip requires at least two inputs, got %d", ErrMalformedPlan, len(op.Sources))
	}
	node := &Zip{
		nodeMeta: nodeMeta{name: op.Name(), provenance: []logical.Operator{op}},
	}
	return p.connect(node, ctx, op.Sources...)
}

// Convert [logical.Write] into a [Sink]. Sinks run on short-lived tasks
// only.
func (p *Planner) processWrite(op *logical.Write, ctx *logical.Context) (Node, error) {
	node := &Sink{
		nodeMeta: nodeMeta{
			name:       op.Name(),
			provenance: []logical.Operator{op},
			pipeline: Pipeline{
				{Kind: StageBlockMap, Fn: op.Name() + op.Connector},
				{Kind: StageBuildOutputBlocks},
			},
			resources:    op.Resources,
			maxBlockSize: uint64(ctx.Config.TargetMaxBlockSize),
		},
		Connector:   op.Connector,
		Concurrency: op.Concurrency,
	}
	return p.connect(node, ctx, op.Input)
}
