package physical

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type plannerMetrics struct {
	compilations prometheus.Counter
	planNodes    prometheus.Histogram
}

func newPlannerMetrics(reg prometheus.Registerer) *plannerMetrics {
	factory := promauto.With(reg)

	return &plannerMetrics{
		compilations: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockpipe_planner_compilations_total",
			Help: "Total number of logical plans compiled into physical plans.",
		}),
		planNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blockpipe_planner_plan_nodes",
			Help:    "Distribution of physical plan node counts after planning.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

type optimizerMetrics struct {
	fusedOperators   prometheus.Counter
	ruleApplications *prometheus.CounterVec
}

func newOptimizerMetrics(reg prometheus.Registerer) *optimizerMetrics {
	factory := promauto.With(reg)

	return &optimizerMetrics{
		fusedOperators: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockpipe_optimizer_fused_operators_total",
			Help: "Total number of physical operators absorbed by fusion.",
		}),
		ruleApplications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blockpipe_optimizer_rule_applications_total",
			Help: "Total number of rewrite rule applications that changed the plan.",
		}, []string{"rule"}),
	}
}
