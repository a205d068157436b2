package counters

import "strings"

// Wildcard counter paths registered once at session start.
const (
	GPUEngineUtilizationPath = `\GPU Engine(*)\Utilization Percentage`
	GPUDedicatedMemoryPath   = `\GPU Process Memory(*)\Dedicated Usage`
	GPUSharedMemoryPath      = `\GPU Process Memory(*)\Shared Usage`

	// ProcessorUtilityPath tracks the frequency-aware utility counter so the
	// published values line up with the Windows 11 task manager. It can
	// report above 100 per core; publishing clips it.
	ProcessorUtilityPath = `\Processor Information(*)\% Processor Utility`
)

const processorTimeLeaf = `% Processor Time`

// ProcessIDWildcard builds the wildcard path whose instances enumerate
// every process sharing the given executable base name.
func ProcessIDWildcard(baseName string) string {
	return `\Process(` + baseName + `*)\ID Process`
}

// ProcessorTimePath derives the sibling CPU-time path from a resolved
// "ID Process" instance path by replacing the leaf counter name.
func ProcessorTimePath(idPath string) string {
	pos := strings.LastIndexByte(idPath, '\\')
	if pos < 0 {
		return ""
	}
	return idPath[:pos+1] + processorTimeLeaf
}
