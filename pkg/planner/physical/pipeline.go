package physical

import (
	"fmt"
	"strings"

	"github.com/blockpipe/blockpipe/pkg/planner/types"
)

// StageKind identifies the variant of a pipeline [Stage].
type StageKind int

// Recognized values of [StageKind].
const (
	// StageBlockMap applies a user function to whole blocks.
	StageBlockMap StageKind = iota

	// StageBlocksToBatches re-chunks incoming blocks into batches of the
	// requested size and representation.
	StageBlocksToBatches

	// StageBatchMap applies a user function to each batch.
	StageBatchMap

	// StageBuildOutputBlocks accumulates outgoing rows into blocks bounded
	// by the node's block-size threshold.
	StageBuildOutputBlocks
)

// Stage is one composable step of a node's transform pipeline. Only the
// fields relevant to the stage kind are set.
type Stage struct {
	Kind StageKind

	// Fn is the user-function name applied by block-map and batch-map
	// stages.
	Fn string

	// BatchSize is the row count of the batches produced by a re-chunking
	// stage. Zero leaves the choice to the engine.
	BatchSize int

	// BatchFormat is the representation produced by a re-chunking stage.
	BatchFormat types.BatchFormat
}

// String returns a compact human-readable description of the stage.
func (s Stage) String() string {
	switch s.Kind {
	case StageBlockMap:
		return fmt.Sprintf("BlockMap(%s)", s.Fn)
	case StageBlocksToBatches:
		var opts []string
		if s.BatchSize > 0 {
			opts = append(opts, fmt.Sprintf("size=%d", s.BatchSize))
		}
		if s.BatchFormat != types.BatchFormatUnspecified {
			opts = append(opts, fmt.Sprintf("format=%s", s.BatchFormat))
		}
		return fmt.Sprintf("BlocksToBatches(%s)", strings.Join(opts, ","))
	case StageBatchMap:
		return fmt.Sprintf("BatchMap(%s)", s.Fn)
	case StageBuildOutputBlocks:
		return "BuildOutputBlocks"
	default:
		return fmt.Sprintf("Stage(%d)", int(s.Kind))
	}
}

// Pipeline is a lazy ordered sequence of transform stages. The engine
// streams each incoming block through every stage in turn.
type Pipeline []Stage

// String returns the stages joined by commas.
func (p Pipeline) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// concatPipelines joins the pipeline of an upstream node with the pipeline
// of the downstream node it is fused into. A closing accumulation stage
// immediately followed by a re-chunking stage is elided: the two are inverses
// and removing the pair changes nothing observable, while keeping it would
// materialize blocks just to break them apart again.
func concatPipelines(up, down Pipeline) Pipeline {
	if len(up) > 0 && len(down) > 0 &&
		up[len(up)-1].Kind == StageBuildOutputBlocks &&
		down[0].Kind == StageBlocksToBatches {
		up = up[:len(up)-1]
		down = down[1:]
	}
	out := make(Pipeline, 0, len(up)+len(down))
	out = append(out, up...)
	out = append(out, down...)
	return out
}
