package logical

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, uint64(128<<20), uint64(cfg.TargetMaxBlockSize))
	require.Equal(t, uint64(512<<20), uint64(cfg.TargetShuffleMaxBlockSize))
	require.False(t, cfg.DisableFusion)
	require.NoError(t, cfg.Validate())
}

func TestConfig_RegisterFlags(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-planner.target-max-block-size=1GB",
		"-planner.disable-fusion=true",
	}))
	require.Equal(t, uint64(1<<30), uint64(cfg.TargetMaxBlockSize))
	require.Equal(t, uint64(512<<20), uint64(cfg.TargetShuffleMaxBlockSize))
	require.True(t, cfg.DisableFusion)
}

func TestConfig_Yaml(t *testing.T) {
	cfg := DefaultConfig()
	err := yaml.Unmarshal([]byte("target_max_block_size: 256MB\ndisable_fusion: true\n"), &cfg)

	require.NoError(t, err)
	require.Equal(t, uint64(256<<20), uint64(cfg.TargetMaxBlockSize))
	require.True(t, cfg.DisableFusion)
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	err := cfg.Validate()

	require.Error(t, err)
	require.Contains(t, err.Error(), "TargetMaxBlockSize")
	require.Contains(t, err.Error(), "TargetShuffleMaxBlockSize")
}

func TestContext_UsageCounts(t *testing.T) {
	ctx := NewContext(DefaultConfig())
	ctx.RecordUsage(KindRead)
	ctx.RecordUsage(KindMapRows)
	ctx.RecordUsage(KindMapRows)

	require.Equal(t, map[string]int{"Read": 1, "Map": 2}, ctx.UsageCounts())

	// The snapshot is a copy, mutating it must not affect the context.
	counts := ctx.UsageCounts()
	counts["Read"] = 99
	require.Equal(t, 1, ctx.UsageCounts()["Read"])
}
