package physical

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockpipe/blockpipe/pkg/planner/logical"
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

func compile(t *testing.T, lp *logical.Plan) *Plan {
	t.Helper()
	plan, err := Compile(lp)
	require.NoError(t, err)
	return plan
}

func TestFusion_MapChain(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.Read{Connector: "Parquet", SourceUnits: 4, OutputPartitions: 4}).
		MapRows("f", logical.MapOptions{}).
		MapRows("g", logical.MapOptions{}).
		ToPlan(nil))

	require.ElementsMatch(t, []string{"Input", "ReadParquet→Map(f)→Map(g)"}, nodeNames(plan))

	root, err := plan.Root()
	require.NoError(t, err)
	require.Equal(t, "ReadParquet→Map(f)→Map(g)", root.Name())

	// Provenance keeps the original DAG order.
	origins := root.meta().provenance
	require.Len(t, origins, 3)
	require.Equal(t, "ReadParquet", origins[0].Name())
	require.Equal(t, "Map(f)", origins[1].Name())
	require.Equal(t, "Map(g)", origins[2].Name())
}

func TestFusion_PipelineElision(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.Read{Connector: "Parquet", SourceUnits: 1, OutputPartitions: 1}).
		MapBatches("fn", 32, types.BatchFormatRows, logical.MapOptions{}).
		ToPlan(nil))

	root, err := plan.Root()
	require.NoError(t, err)
	require.Equal(t, "ReadParquet→MapBatches(fn)", root.Name())

	// The read's closing accumulation and the batch map's re-chunking are
	// inverses; the fused pipeline drops the pair.
	require.Equal(t, Pipeline{
		{Kind: StageBlockMap, Fn: "ReadParquet"},
		{Kind: StageBatchMap, Fn: "fn"},
		{Kind: StageBuildOutputBlocks},
	}, root.meta().pipeline)
}

func TestFusion_Idempotence(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.Read{Connector: "Parquet", SourceUnits: 4, OutputPartitions: 4}).
		MapRows("f", logical.MapOptions{}).
		RandomShuffle(nil).
		MapRows("g", logical.MapOptions{}).
		ToPlan(nil))

	before := PrintAsTree(plan)
	require.NoError(t, NewOptimizer().Optimize(plan))
	require.Equal(t, before, PrintAsTree(plan))
}

func TestFusion_ConcurrencyTable(t *testing.T) {
	tests := []struct {
		name     string
		up, down logical.MapOptions
		fused    bool
	}{
		{
			name:  "task unset into task unset",
			up:    logical.MapOptions{},
			down:  logical.MapOptions{},
			fused: true,
		},
		{
			name:  "task unset into task fixed",
			up:    logical.MapOptions{},
			down:  logical.MapOptions{Concurrency: types.FixedConcurrency(2)},
			fused: false,
		},
		{
			name:  "task fixed into identical task fixed",
			up:    logical.MapOptions{Concurrency: types.FixedConcurrency(1)},
			down:  logical.MapOptions{Concurrency: types.FixedConcurrency(1)},
			fused: true,
		},
		{
			name:  "task range into identical task range",
			up:    logical.MapOptions{Concurrency: types.RangeConcurrency(1, 2)},
			down:  logical.MapOptions{Concurrency: types.RangeConcurrency(1, 2)},
			fused: false,
		},
		{
			name:  "task unset into actor",
			up:    logical.MapOptions{},
			down:  logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			fused: true,
		},
		{
			name:  "task fixed into actor with different bound",
			up:    logical.MapOptions{Concurrency: types.FixedConcurrency(1)},
			down:  logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			fused: false,
		},
		{
			name:  "task fixed into actor with equal bound",
			up:    logical.MapOptions{Concurrency: types.FixedConcurrency(2)},
			down:  logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			fused: true,
		},
		{
			name:  "actor into task",
			up:    logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			down:  logical.MapOptions{},
			fused: false,
		},
		{
			name:  "actor into actor",
			up:    logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			down:  logical.MapOptions{Compute: types.ComputeActorPool, Concurrency: types.FixedConcurrency(2)},
			fused: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := compile(t, logical.
				NewBuilder(&logical.InputData{Source: "FromItems"}).
				MapRows("f", tt.up).
				MapRows("g", tt.down).
				ToPlan(nil))

			if tt.fused {
				require.Contains(t, nodeNames(plan), "Map(f)→Map(g)")
			} else {
				require.Contains(t, nodeNames(plan), "Map(f)")
				require.Contains(t, nodeNames(plan), "Map(g)")
			}
		})
	}
}

func TestFusion_ResourceTable(t *testing.T) {
	tests := []struct {
		name     string
		up, down types.Resources
		fused    bool
	}{
		{
			name:  "both default",
			fused: true,
		},
		{
			name:  "equal explicit cpu",
			up:    types.Resources{CPU: 4},
			down:  types.Resources{CPU: 4},
			fused: true,
		},
		{
			name:  "unset matches explicit default",
			up:    types.Resources{CPU: 1},
			fused: true,
		},
		{
			name:  "different cpu",
			up:    types.Resources{CPU: 4},
			down:  types.Resources{CPU: 2},
			fused: false,
		},
		{
			name:  "gpu only on one side",
			up:    types.Resources{GPU: 1},
			fused: false,
		},
		{
			name:  "different custom resources",
			up:    types.Resources{Custom: map[string]float64{"custom1": 1}},
			down:  types.Resources{Custom: map[string]float64{"custom2": 1}},
			fused: false,
		},
		{
			name:  "equal custom resource",
			up:    types.Resources{Custom: map[string]float64{"accelerator": 1}},
			down:  types.Resources{Custom: map[string]float64{"accelerator": 1}},
			fused: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := compile(t, logical.
				NewBuilder(&logical.InputData{Source: "FromItems"}).
				MapRows("f", logical.MapOptions{Resources: tt.up}).
				MapRows("g", logical.MapOptions{Resources: tt.down}).
				ToPlan(nil))

			if tt.fused {
				require.Contains(t, nodeNames(plan), "Map(f)→Map(g)")
			} else {
				require.Contains(t, nodeNames(plan), "Map(f)")
				require.Contains(t, nodeNames(plan), "Map(g)")
			}
		})
	}
}

func TestFusion_MergedResources(t *testing.T) {
	t.Run("adopts an equal explicit value", func(t *testing.T) {
		plan := compile(t, logical.
			NewBuilder(&logical.InputData{Source: "FromItems"}).
			MapRows("f", logical.MapOptions{Resources: types.Resources{CPU: 4}}).
			MapRows("g", logical.MapOptions{Resources: types.Resources{CPU: 4}}).
			ToPlan(nil))

		root, err := plan.Root()
		require.NoError(t, err)
		require.Equal(t, "Map(f)→Map(g)", root.Name())
		require.Equal(t, 4.0, root.meta().resources.CPU)
	})

	t.Run("adopts the explicit default over unset", func(t *testing.T) {
		plan := compile(t, logical.
			NewBuilder(&logical.InputData{Source: "FromItems"}).
			MapRows("f", logical.MapOptions{Resources: types.Resources{CPU: 1}}).
			MapRows("g", logical.MapOptions{}).
			ToPlan(nil))

		root, err := plan.Root()
		require.NoError(t, err)
		require.Equal(t, "Map(f)→Map(g)", root.Name())
		require.Equal(t, 1.0, root.meta().resources.CPU)
	})

	t.Run("a non-default value never meets unset", func(t *testing.T) {
		plan := compile(t, logical.
			NewBuilder(&logical.InputData{Source: "FromItems"}).
			MapRows("f", logical.MapOptions{Resources: types.Resources{CPU: 4}}).
			MapRows("g", logical.MapOptions{}).
			ToPlan(nil))

		require.Contains(t, nodeNames(plan), "Map(f)")
		require.Contains(t, nodeNames(plan), "Map(g)")
	})
}

func TestFusion_MapIntoAllToAll(t *testing.T) {
	source := &logical.InputData{Source: "FromItems"}

	t.Run("map into random shuffle", func(t *testing.T) {
		plan := compile(t, logical.NewBuilder(source).MapRows("f", logical.MapOptions{}).RandomShuffle(nil).ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)→RandomShuffle"}, nodeNames(plan))
	})

	t.Run("map into shuffling repartition", func(t *testing.T) {
		plan := compile(t, logical.NewBuilder(source).MapRows("f", logical.MapOptions{}).Repartition(8, true).ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)→Repartition"}, nodeNames(plan))
	})

	t.Run("map does not fuse into non-shuffling repartition", func(t *testing.T) {
		plan := compile(t, logical.NewBuilder(source).MapRows("f", logical.MapOptions{}).Repartition(8, false).ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)", "Repartition"}, nodeNames(plan))
	})

	t.Run("map does not fuse into sort", func(t *testing.T) {
		plan := compile(t, logical.NewBuilder(source).MapRows("f", logical.MapOptions{}).Sort(logical.SortKey{Column: "a"}).ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)", "Sort"}, nodeNames(plan))
	})

	t.Run("map does not fuse into aggregate", func(t *testing.T) {
		plan := compile(t, logical.NewBuilder(source).MapRows("f", logical.MapOptions{}).Aggregate("a", "count").ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)", "Aggregate"}, nodeNames(plan))
	})

	t.Run("bounded map does not fuse into shuffle", func(t *testing.T) {
		plan := compile(t, logical.
			NewBuilder(source).
			MapRows("f", logical.MapOptions{Concurrency: types.FixedConcurrency(2)}).
			RandomShuffle(nil).
			ToPlan(nil))
		require.ElementsMatch(t, []string{"FromItems", "Map(f)", "RandomShuffle"}, nodeNames(plan))
	})
}

func TestFusion_LongChainIntoShuffle(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.InputData{Source: "FromItems"}).
		MapRows("f1", logical.MapOptions{}).
		MapRows("f2", logical.MapOptions{}).
		MapRows("f3", logical.MapOptions{}).
		MapRows("f4", logical.MapOptions{}).
		MapRows("f5", logical.MapOptions{}).
		RandomShuffle(nil).
		ToPlan(nil))

	require.ElementsMatch(t, []string{
		"FromItems",
		"Map(f1)→Map(f2)→Map(f3)→Map(f4)→Map(f5)→RandomShuffle",
	}, nodeNames(plan))
}

func TestFusion_AllToAllOutputStaysSeparate(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.Read{Connector: "Range", SourceUnits: 2, OutputPartitions: 2}).
		RandomShuffle(nil).
		MapRows("g", logical.MapOptions{}).
		ToPlan(nil))

	// The read fuses into the shuffle; the downstream map never fuses with
	// the shuffle's output side.
	require.ElementsMatch(t, []string{"Input", "ReadRange→RandomShuffle", "Map(g)"}, nodeNames(plan))
}

func TestFusion_SplitBlocksBarrier(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.Read{Connector: "Parquet", SourceUnits: 1, OutputPartitions: 10}).
		MapRows("f", logical.MapOptions{}).
		ToPlan(nil))

	// Fusing the map into the split read would defeat the partition-count
	// request.
	require.ElementsMatch(t, []string{"Input", "ReadParquet→SplitBlocks(10)", "Map(f)"}, nodeNames(plan))
}

func TestFusion_FanOutBoundary(t *testing.T) {
	source := logical.NewBuilder(&logical.Read{Connector: "Range", SourceUnits: 2, OutputPartitions: 2})
	left := source.MapRows("l", logical.MapOptions{})
	right := source.MapRows("r", logical.MapOptions{})
	plan := compile(t, left.Zip(right).ToPlan(nil))

	// The read feeds two consumers, and nothing fuses into a zip.
	require.ElementsMatch(t, []string{"Input", "ReadRange", "Map(l)", "Map(r)", "Zip"}, nodeNames(plan))
}

func TestFusion_SinkBoundary(t *testing.T) {
	plan := compile(t, logical.
		NewBuilder(&logical.InputData{Source: "FromItems"}).
		MapRows("f", logical.MapOptions{}).
		Write("Parquet", nil).
		ToPlan(nil))

	require.ElementsMatch(t, []string{"FromItems", "Map(f)", "Write"}, nodeNames(plan))
}

func TestFusion_ThresholdAndBundleMax(t *testing.T) {
	plan := NewPlan(nil)
	in := plan.Add(&InputBuffer{nodeMeta: nodeMeta{name: "Input"}})
	a := plan.Add(&Map{nodeMeta: nodeMeta{name: "A", maxBlockSize: 2, minRowsPerBundle: 10}})
	b := plan.Add(&Map{nodeMeta: nodeMeta{name: "B", maxBlockSize: 5}})
	c := plan.Add(&Map{nodeMeta: nodeMeta{name: "C", maxBlockSize: 3, minRowsPerBundle: 25}})
	require.NoError(t, plan.AddEdge(Edge{Parent: a, Child: in}))
	require.NoError(t, plan.AddEdge(Edge{Parent: b, Child: a}))
	require.NoError(t, plan.AddEdge(Edge{Parent: c, Child: b}))

	require.NoError(t, NewOptimizer().Optimize(plan))

	root, err := plan.Root()
	require.NoError(t, err)
	require.Equal(t, "A→B→C", root.Name())
	require.Equal(t, uint64(5), root.meta().maxBlockSize)
	require.Equal(t, int64(25), root.meta().minRowsPerBundle)
}

func TestFusion_Disabled(t *testing.T) {
	cfg := logical.DefaultConfig()
	cfg.DisableFusion = true

	plan := compile(t, logical.
		NewBuilder(&logical.InputData{Source: "FromItems"}).
		MapRows("f", logical.MapOptions{}).
		MapRows("g", logical.MapOptions{}).
		ToPlan(logical.NewContext(cfg)))

	require.ElementsMatch(t, []string{"FromItems", "Map(f)", "Map(g)"}, nodeNames(plan))
}
