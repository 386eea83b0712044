package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResources_Compatible(t *testing.T) {
	tests := []struct {
		name       string
		up, down   Resources
		compatible bool
	}{
		{
			name:       "both unset",
			up:         Resources{},
			down:       Resources{},
			compatible: true,
		},
		{
			name:       "equal explicit cpu",
			up:         Resources{CPU: 4},
			down:       Resources{CPU: 4},
			compatible: true,
		},
		{
			name:       "unset matches explicit default",
			up:         Resources{},
			down:       Resources{CPU: 1},
			compatible: true,
		},
		{
			name:       "different cpu",
			up:         Resources{CPU: 1},
			down:       Resources{CPU: 2},
			compatible: false,
		},
		{
			name:       "different gpu",
			up:         Resources{GPU: 1},
			down:       Resources{},
			compatible: false,
		},
		{
			name:       "equal custom resource",
			up:         Resources{Custom: map[string]float64{"accelerator": 1}},
			down:       Resources{Custom: map[string]float64{"accelerator": 1}},
			compatible: true,
		},
		{
			name:       "different custom resources",
			up:         Resources{Custom: map[string]float64{"custom1": 1}},
			down:       Resources{Custom: map[string]float64{"custom2": 1}},
			compatible: false,
		},
		{
			name:       "zero quantity equals absent",
			up:         Resources{Custom: map[string]float64{"accelerator": 0}},
			down:       Resources{},
			compatible: true,
		},
		{
			name:       "memory does not block",
			up:         Resources{MemoryBytes: 100},
			down:       Resources{MemoryBytes: 500},
			compatible: true,
		},
		{
			name:       "downstream inherits scheduling strategy",
			up:         Resources{SchedulingStrategy: "SPREAD"},
			down:       Resources{},
			compatible: true,
		},
		{
			name:       "downstream strategy must match upstream",
			up:         Resources{},
			down:       Resources{SchedulingStrategy: "SPREAD"},
			compatible: false,
		},
		{
			name:       "equal scheduling strategies",
			up:         Resources{SchedulingStrategy: "SPREAD"},
			down:       Resources{SchedulingStrategy: "SPREAD"},
			compatible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.compatible, tt.up.Compatible(tt.down))
		})
	}
}

func TestResources_Merge(t *testing.T) {
	t.Run("explicit values win over defaults", func(t *testing.T) {
		merged := Resources{CPU: 4}.Merge(Resources{})
		require.Equal(t, 4.0, merged.CPU)

		merged = Resources{}.Merge(Resources{GPU: 0, CPU: 4})
		require.Equal(t, 4.0, merged.CPU)
	})

	t.Run("memory takes the maximum", func(t *testing.T) {
		merged := Resources{MemoryBytes: 100}.Merge(Resources{MemoryBytes: 500})
		require.Equal(t, uint64(500), merged.MemoryBytes)
	})

	t.Run("custom resources union without zero entries", func(t *testing.T) {
		merged := Resources{Custom: map[string]float64{"a": 1, "b": 0}}.Merge(Resources{Custom: map[string]float64{"a": 1}})
		require.Equal(t, map[string]float64{"a": 1}, merged.Custom)
	})

	t.Run("scheduling strategy prefers downstream", func(t *testing.T) {
		merged := Resources{SchedulingStrategy: "SPREAD"}.Merge(Resources{})
		require.Equal(t, "SPREAD", merged.SchedulingStrategy)

		merged = Resources{SchedulingStrategy: "SPREAD"}.Merge(Resources{SchedulingStrategy: "PACK"})
		require.Equal(t, "PACK", merged.SchedulingStrategy)
	})
}

func TestResources_EffectiveDefaults(t *testing.T) {
	var r Resources
	require.Equal(t, 1.0, r.EffectiveCPU())
	require.Equal(t, 0.0, r.EffectiveGPU())
	require.Equal(t, 0.0, r.EffectiveCustom("anything"))

	r = Resources{CPU: 2, GPU: 1, Custom: map[string]float64{"accelerator": 0.5}}
	require.Equal(t, 2.0, r.EffectiveCPU())
	require.Equal(t, 1.0, r.EffectiveGPU())
	require.Equal(t, 0.5, r.EffectiveCustom("accelerator"))
}
