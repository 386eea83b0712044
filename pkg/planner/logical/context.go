package logical

import (
	"errors"
	"flag"

	"github.com/grafana/dskit/flagext"
)

// Config holds the block-size policy and feature flags of a compilation.
type Config struct {
	// TargetMaxBlockSize is the upper bound on the size of blocks produced
	// by map operators and non-shuffling repartitions.
	TargetMaxBlockSize flagext.Bytes `yaml:"target_max_block_size"`

	// TargetShuffleMaxBlockSize is the upper bound on the size of blocks
	// produced by bulk redistribution steps (shuffle, sort, aggregate).
	// Redistribution tolerates larger blocks since every block is rewritten
	// anyway.
	TargetShuffleMaxBlockSize flagext.Bytes `yaml:"target_shuffle_max_block_size"`

	// DisableFusion turns off the operator-fusion rewrite. Intended as an
	// escape hatch for debugging plans, not for production use.
	DisableFusion bool `yaml:"disable_fusion"`
}

// RegisterFlags registers flags with the default prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("planner.", f)
}

// RegisterFlagsWithPrefix registers flags with the given prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	_ = cfg.TargetMaxBlockSize.Set("128MB")
	_ = cfg.TargetShuffleMaxBlockSize.Set("512MB")

	f.Var(&cfg.TargetMaxBlockSize, prefix+"target-max-block-size", "Upper bound on the size of blocks produced by map operators.")
	f.Var(&cfg.TargetShuffleMaxBlockSize, prefix+"target-shuffle-max-block-size", "Upper bound on the size of blocks produced by bulk redistribution operators.")
	f.BoolVar(&cfg.DisableFusion, prefix+"disable-fusion", false, "Disable the operator fusion rewrite.")
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.TargetMaxBlockSize <= 0 {
		errs = append(errs, errors.New("TargetMaxBlockSize must be greater than 0"))
	}
	if cfg.TargetShuffleMaxBlockSize <= 0 {
		errs = append(errs, errors.New("TargetShuffleMaxBlockSize must be greater than 0"))
	}

	return errors.Join(errs...)
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.RegisterFlags(flag.NewFlagSet("", flag.PanicOnError))
	return cfg
}

// Context carries the configuration of one compilation together with the
// per-compilation usage counters. A Context must not be shared between
// concurrent compilations; scoping it to a single one is what keeps the
// compiler free of ambient global state.
type Context struct {
	// Config is the block-size policy and feature flags.
	Config Config

	usage map[string]int
}

// NewContext returns a Context for a single compilation.
func NewContext(cfg Config) *Context {
	return &Context{
		Config: cfg,
		usage:  make(map[string]int),
	}
}

// RecordUsage counts one use of the given operator kind.
func (c *Context) RecordUsage(k OperatorKind) {
	if c.usage == nil {
		c.usage = make(map[string]int)
	}
	c.usage[k.String()]++
}

// UsageCounts returns a snapshot of the operator kinds recorded so far,
// keyed by kind name.
func (c *Context) UsageCounts() map[string]int {
	counts := make(map[string]int, len(c.usage))
	for k, v := range c.usage {
		counts[k] = v
	}
	return counts
}
