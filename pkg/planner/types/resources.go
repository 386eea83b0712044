package types

// Default per-worker resource amounts used when a field of [Resources] is
// left unset.
const (
	DefaultCPU = 1.0
	DefaultGPU = 0.0
)

// Resources declares the per-worker resource request of an operator. It is
// purely declarative: the compiler never inspects cluster capacity, it only
// carries the request through to the execution engine.
//
// The zero value of every field means "unset". Unset fields resolve to their
// defaults (1 CPU, 0 GPU, 0 of each custom resource) when two requests are
// compared for mergeability.
type Resources struct {
	// CPU is the number of CPUs requested per worker.
	CPU float64
	// GPU is the number of GPUs requested per worker.
	GPU float64
	// MemoryBytes is the amount of memory requested per worker. It is set
	// either by the caller or by the memory-estimate rewrite rule; a
	// caller-supplied value is never overwritten.
	MemoryBytes uint64
	// Custom holds named custom-resource quantities (e.g. accelerator
	// flavors). Entries with quantity zero are equivalent to absent entries.
	Custom map[string]float64
	// SchedulingStrategy is an opaque placement tag forwarded to the engine.
	// When empty, the operator inherits the strategy of its upstream operator.
	SchedulingStrategy string
}

// EffectiveCPU returns the CPU request with the default applied.
func (r Resources) EffectiveCPU() float64 {
	if r.CPU == 0 {
		return DefaultCPU
	}
	return r.CPU
}

// EffectiveGPU returns the GPU request with the default applied.
func (r Resources) EffectiveGPU() float64 {
	if r.GPU == 0 {
		return DefaultGPU
	}
	return r.GPU
}

// EffectiveCustom returns the requested quantity of the named custom
// resource, zero when absent.
func (r Resources) EffectiveCustom(name string) float64 {
	return r.Custom[name]
}

// Compatible reports whether the request of a downstream operator can be
// served together with this (upstream) request by a single merged worker
// specification. Fields are compared by effective value, so an unset field
// matches an explicitly requested default. The scheduling strategy is
// inherited downstream: the downstream side may leave it unset, the upstream
// side may not introduce a conflicting one.
func (r Resources) Compatible(down Resources) bool {
	if r.EffectiveCPU() != down.EffectiveCPU() {
		return false
	}
	if r.EffectiveGPU() != down.EffectiveGPU() {
		return false
	}
	for name := range r.Custom {
		if r.EffectiveCustom(name) != down.EffectiveCustom(name) {
			return false
		}
	}
	for name := range down.Custom {
		if r.EffectiveCustom(name) != down.EffectiveCustom(name) {
			return false
		}
	}
	if down.SchedulingStrategy != "" && down.SchedulingStrategy != r.SchedulingStrategy {
		return false
	}
	return true
}

// Merge combines a compatible downstream request with this one, keeping the
// explicitly requested value of every field. Merge must only be called when
// [Resources.Compatible] holds.
func (r Resources) Merge(down Resources) Resources {
	merged := Resources{
		CPU: r.CPU,
		GPU: r.GPU,
	}
	if merged.CPU == 0 {
		merged.CPU = down.CPU
	}
	if merged.GPU == 0 {
		merged.GPU = down.GPU
	}
	merged.MemoryBytes = max(r.MemoryBytes, down.MemoryBytes)
	if len(r.Custom) > 0 || len(down.Custom) > 0 {
		merged.Custom = make(map[string]float64, len(r.Custom)+len(down.Custom))
		for name, quantity := range r.Custom {
			if quantity != 0 {
				merged.Custom[name] = quantity
			}
		}
		for name, quantity := range down.Custom {
			if quantity != 0 {
				merged.Custom[name] = quantity
			}
		}
	}
	merged.SchedulingStrategy = down.SchedulingStrategy
	if merged.SchedulingStrategy == "" {
		merged.SchedulingStrategy = r.SchedulingStrategy
	}
	return merged
}
