package physical

import (
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

type options struct {
	logger     log.Logger
	registerer prometheus.Registerer
	estimator  SizeEstimator
}

// Option customizes a [Planner] or [Optimizer].
type Option func(*options)

// WithLogger sets the logger used for debug traces. The default discards
// all output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer sets the registerer metrics are registered with. With the
// default nil registerer, metrics are collected but never exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSizeEstimator sets the estimator consulted by the memory
// configuration rewrite. Without one, the rewrite is a no-op.
func WithSizeEstimator(estimator SizeEstimator) Option {
	return func(o *options) { o.estimator = estimator }
}

func applyOptions(opts []Option) options {
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
