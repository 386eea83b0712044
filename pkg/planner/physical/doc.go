// Package physical contains the physical plan representation of a data
// pipeline, the planner that builds it from a logical plan, and the
// optimizer that rewrites it before the plan is handed to the execution
// engine.
//
// The central rewrite is operator fusion: adjacent compatible operators are
// merged into one node so that no block materialization or task scheduling
// happens between them. Fusion is deliberately asymmetric: a map may be
// absorbed into the bulk step it feeds, acting as the bulk step's read side,
// but a bulk step's output never fuses into a following map.
//
// The compiler performs no I/O and runs synchronously. A plan is exclusively
// owned by the optimizer during Optimize and read-only afterwards.
package physical
