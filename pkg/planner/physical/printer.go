package physical

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/blockpipe/blockpipe/pkg/planner/internal/tree"
	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// BuildTree converts a physical plan node and its children into a tree
// structure that can be used for visualization and debugging purposes.
func BuildTree(p *Plan, n Node) *tree.Node {
	root := toTreeNode(n)
	for _, child := range p.Children(n) {
		root.Children = append(root.Children, BuildTree(p, child))
	}
	return root
}

func toTreeNode(n Node) *tree.Node {
	properties := []tree.Property{
		tree.NewProperty("name", false, n.Name()),
	}

	switch node := n.(type) {
	case *InputBuffer:
		properties = append(properties, tree.NewProperty("source_units", false, node.SourceUnits))
	case *Map:
		properties = append(properties,
			tree.NewProperty("compute", false, node.Compute),
			tree.NewProperty("concurrency", false, node.Concurrency),
		)
		if node.SplitFactor > 0 {
			properties = append(properties, tree.NewProperty("split_factor", false, node.SplitFactor))
		}
		if node.BatchFormat != types.BatchFormatUnspecified {
			properties = append(properties, tree.NewProperty("batch_format", false, node.BatchFormat))
		}
	case *AllToAll:
		properties = append(properties,
			tree.NewProperty("operation", false, node.Operation),
			tree.NewProperty("shuffled", false, node.Shuffled),
		)
		if node.NumOutputs > 0 {
			properties = append(properties, tree.NewProperty("num_outputs", false, node.NumOutputs))
		}
		if node.BatchFormat != types.BatchFormatUnspecified {
			properties = append(properties, tree.NewProperty("batch_format", false, node.BatchFormat))
		}
	case *Sink:
		properties = append(properties,
			tree.NewProperty("connector", false, node.Connector),
			tree.NewProperty("concurrency", false, node.Concurrency),
		)
	}

	m := n.meta()
	if m.maxBlockSize > 0 {
		properties = append(properties, tree.NewProperty("max_block_size", false, humanize.IBytes(m.maxBlockSize)))
	}
	if m.minRowsPerBundle > 0 {
		properties = append(properties, tree.NewProperty("min_rows_per_bundle", false, m.minRowsPerBundle))
	}
	if m.resources.MemoryBytes > 0 {
		properties = append(properties, tree.NewProperty("memory", false, humanize.IBytes(m.resources.MemoryBytes)))
	}
	if len(m.pipeline) > 0 {
		properties = append(properties, tree.NewProperty("pipeline", true, toAnySlice(m.pipeline)...))
	}
	if len(m.provenance) > 0 {
		origins := make([]any, len(m.provenance))
		for i, op := range m.provenance {
			origins[i] = op.Name()
		}
		properties = append(properties, tree.NewProperty("provenance", true, origins...))
	}

	return tree.NewNode(n.Kind().String(), properties...)
}

func toAnySlice[T any](s []T) []any {
	ret := make([]any, len(s))
	for i := range s {
		ret[i] = s[i]
	}
	return ret
}

// PrintAsTree converts a physical [Plan] into a human-readable tree
// representation. It processes each root node in the plan graph, and returns
// the combined string output of all trees joined by newlines.
func PrintAsTree(p *Plan) string {
	results := make([]string, 0, len(p.Roots()))

	for _, root := range p.Roots() {
		sb := &strings.Builder{}
		printer := tree.NewPrinter(sb)
		printer.Print(BuildTree(p, root))
		results = append(results, sb.String())
	}

	return strings.Join(results, "\n")
}

// Summary renders the stage-level summary of the plan: the display names of
// all executable nodes in execution order, joined by "→". Input buffers are
// omitted, they do not execute anything.
func Summary(p *Plan) string {
	var names []string
	for _, root := range p.Roots() {
		_ = p.Walk(root, func(n Node) error {
			if n.Kind() == NodeKindInputBuffer {
				return nil
			}
			names = append(names, n.Name())
			return nil
		}, PostOrderWalk)
	}
	return strings.Join(names, "→")
}
