package physical

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/blockpipe/blockpipe/pkg/planner/logical"
)

// A rule is a transformation that can be applied on a Node.
type rule interface {
	// name identifies the rule in logs and metrics.
	name() string

	// apply tries to apply the transformation on the node.
	// It returns a boolean indicating whether the transformation has been applied.
	apply(Node) bool
}

// optimization represents a single optimization pass and can hold multiple rules.
type optimization struct {
	plan    *Plan
	name    string
	rules   []rule
	logger  log.Logger
	metrics *optimizerMetrics
}

func newOptimization(name string, plan *Plan, logger log.Logger, metrics *optimizerMetrics) *optimization {
	return &optimization{
		name:    name,
		plan:    plan,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *optimization) withRules(rules ...rule) *optimization {
	o.rules = append(o.rules, rules...)
	return o
}

// optimize iterates the pass until it produces no more changes. Every rule
// either removes a node or sets a previously unset attribute, so a pass
// still changing after more iterations than the plan has nodes is a defect
// in a rule, not a slow convergence.
func (o *optimization) optimize() error {
	maxIterations := o.plan.Len() + 1

	for iterations := 0; ; iterations++ {
		if iterations >= maxIterations {
			return fmt.Errorf("%w: pass %q still changing after %d iterations", ErrFixpoint, o.name, maxIterations)
		}

		changed := false
		for _, root := range o.plan.Roots() {
			if o.applyRules(root) {
				changed = true
			}
		}
		if !changed {
			// Stop immediately if an optimization pass produced no changes.
			break
		}
	}
	return nil
}

func (o *optimization) applyRules(node Node) bool {
	anyChanged := false

	for _, child := range o.plan.Children(node) {
		changed := o.applyRules(child)
		if changed {
			anyChanged = true
		}
	}

	for _, rule := range o.rules {
		changed := rule.apply(node)
		if changed {
			anyChanged = true
			o.metrics.ruleApplications.WithLabelValues(rule.name()).Inc()
			level.Debug(o.logger).Log("msg", "applied rewrite rule", "pass", o.name, "rule", rule.name(), "node", node.Name())
		}
	}

	return anyChanged
}

// The Optimizer rewrites physical plans in place using a fixed sequence of
// optimization passes, each iterated to a fixpoint. Operator fusion runs
// first; the auxiliary rewrites run on the fused plan. All rules are total:
// a rule whose precondition is unmet leaves the plan untouched.
type Optimizer struct {
	logger    log.Logger
	metrics   *optimizerMetrics
	estimator SizeEstimator
}

// NewOptimizer creates a new optimizer instance.
func NewOptimizer(opts ...Option) *Optimizer {
	o := applyOptions(opts)
	return &Optimizer{
		logger:    o.logger,
		metrics:   newOptimizerMetrics(o.registerer),
		estimator: o.estimator,
	}
}

// Optimize rewrites the plan in place. The plan must not be read
// concurrently during the call; afterwards it is ready to hand off
// read-only to the execution engine.
func (o *Optimizer) Optimize(plan *Plan) error {
	cfg := plan.config()

	var passes []*optimization
	if !cfg.DisableFusion {
		passes = append(passes, newOptimization("fusion", plan, o.logger, o.metrics).withRules(
			&fuseOperators{plan: plan, metrics: o.metrics},
		))
	}
	passes = append(passes,
		newOptimization("batch format inheritance", plan, o.logger, o.metrics).withRules(
			&inheritBatchFormat{plan: plan},
		),
		newOptimization("memory configuration", plan, o.logger, o.metrics).withRules(
			&configureMapMemory{plan: plan, estimator: o.estimator},
		),
		newOptimization("reorder collapse", plan, o.logger, o.metrics).withRules(
			&collapseReorders{plan: plan},
		),
	)

	for _, pass := range passes {
		if err := pass.optimize(); err != nil {
			return err
		}
	}

	level.Debug(o.logger).Log("msg", "optimized physical plan", "plan", plan.ID(), "nodes", plan.Len())
	return nil
}

// Compile builds the physical plan for a logical plan and optimizes it, in
// one step.
func Compile(lp *logical.Plan, opts ...Option) (*Plan, error) {
	plan, err := NewPlanner(opts...).Build(lp)
	if err != nil {
		return nil, err
	}
	if err := NewOptimizer(opts...).Optimize(plan); err != nil {
		return nil, err
	}
	return plan, nil
}
