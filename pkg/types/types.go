package types

// DefaultEngine is the GPU engine type reported when callers do not name one.
const DefaultEngine = "3D"

// EngineUtilization maps a GPU engine type (e.g. "3D", "Copy") to the
// percentage of that engine the process consumed during the last tick.
// The map is replaced wholesale every tick; an absent engine means 0.
type EngineUtilization map[string]float64

// GPUMemory holds the GPU memory footprint of the process in bytes.
type GPUMemory struct {
	DedicatedBytes uint64
	SharedBytes    uint64
}

// Snapshot carries every metric committed by one sampling tick. CPUCores is
// indexed by logical core and has a fixed length for the session lifetime.
type Snapshot struct {
	GPUEngines EngineUtilization
	GPUMemory  GPUMemory
	CPUCores   []float64
	CPUGlobal  float64
	CPUProcess float64
}
