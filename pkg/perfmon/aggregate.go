package perfmon

import (
	"github.com/procwatch/procwatch/pkg/counters"
	"github.com/procwatch/procwatch/pkg/types"
)

// aggregateEngines folds the raw per-instance GPU engine samples into a
// per-engine-type map for one process. A process can hold several queue
// instances of the same engine type; those sum, not average.
func aggregateEngines(items []counters.InstanceValue, pidToken string) types.EngineUtilization {
	usage := make(types.EngineUtilization)
	for _, item := range items {
		if !counters.OwnedBy(item.Name, pidToken) {
			continue
		}
		engine, ok := counters.EngineType(item.Name)
		if !ok {
			continue
		}
		usage[engine] += item.Value
	}
	return usage
}

// sumOwnedBytes totals the raw byte values of the instances belonging to
// the process. No smoothing.
func sumOwnedBytes(items []counters.InstanceBytes, pidToken string) uint64 {
	var total uint64
	for _, item := range items {
		if item.Value < 0 || !counters.OwnedBy(item.Name, pidToken) {
			continue
		}
		total += uint64(item.Value)
	}
	return total
}

// fillCoreVector writes each instance's value at its parsed core index.
// Instances outside the vector and aggregate instances are ignored.
func fillCoreVector(items []counters.InstanceValue, dst []float64) {
	for _, item := range items {
		idx, ok := counters.CoreIndex(item.Name)
		if ok && idx < len(dst) {
			dst[idx] = item.Value
		}
	}
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// clip bounds a percentage to [0, 100]. Utility counters report above 100
// on turbo clocks; published values never do.
func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// smooth damps sampling jitter with a fixed 50/50 exponential average.
func smooth(previous, sample float64) float64 {
	return (previous + sample) * 0.5
}
