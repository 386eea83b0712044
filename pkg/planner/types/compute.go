package types

import "fmt"

// ComputeKind denotes how the workers executing an operator are provisioned
// by the execution engine: as short-lived tasks drawn from a shared pool, or
// as a pool of long-lived actors that are started once and reused.
type ComputeKind int

// Recognized values of [ComputeKind].
const (
	// ComputeTaskPool executes an operator on short-lived tasks.
	ComputeTaskPool ComputeKind = iota

	// ComputeActorPool executes an operator on a pool of long-lived actors.
	ComputeActorPool
)

// String returns the string representation of the [ComputeKind].
func (k ComputeKind) String() string {
	switch k {
	case ComputeTaskPool:
		return "tasks"
	case ComputeActorPool:
		return "actors"
	default:
		return fmt.Sprintf("ComputeKind(%d)", int(k))
	}
}

// Concurrency bounds the number of workers that may execute an operator at
// the same time. A nil *Concurrency means the bound is unset and the engine
// may use as many workers as it sees fit.
type Concurrency struct {
	// Min is the lower bound of the range. For a fixed bound, Min equals Max.
	Min int
	// Max is the upper bound of the range.
	Max int
}

// FixedConcurrency returns a concurrency bound of exactly n workers.
func FixedConcurrency(n int) *Concurrency {
	return &Concurrency{Min: n, Max: n}
}

// RangeConcurrency returns a concurrency bound of between min and max
// workers.
func RangeConcurrency(min, max int) *Concurrency {
	return &Concurrency{Min: min, Max: max}
}

// Fixed reports whether the bound is a single integer rather than a range.
func (c *Concurrency) Fixed() bool {
	return c != nil && c.Min == c.Max
}

// Equal reports whether two bounds are the same, treating nil as unset.
func (c *Concurrency) Equal(o *Concurrency) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Min == o.Min && c.Max == o.Max
}

// String returns the string representation of the [Concurrency] bound.
func (c *Concurrency) String() string {
	if c == nil {
		return "unset"
	}
	if c.Fixed() {
		return fmt.Sprintf("%d", c.Max)
	}
	return fmt.Sprintf("[%d,%d]", c.Min, c.Max)
}
