package perfmon

import (
	"sort"
	"sync"

	"github.com/procwatch/procwatch/pkg/types"
)

// store is the single guarded region holding the last committed metrics.
// The worker is the only writer and commits a whole snapshot per tick, so
// readers never observe fields from two different ticks.
type store struct {
	mu   sync.Mutex
	snap types.Snapshot
}

func newStore(cores int) *store {
	return &store{snap: types.Snapshot{CPUCores: make([]float64, cores)}}
}

func (s *store) commit(snap types.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// reset restores the zero defaults after shutdown.
func (s *store) reset() {
	s.commit(types.Snapshot{})
}

func (s *store) engineUtilization(engine string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.GPUEngines[engine]
}

func (s *store) engineNames() []string {
	s.mu.Lock()
	names := make([]string, 0, len(s.snap.GPUEngines))
	for name := range s.snap.GPUEngines {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)
	return names
}

func (s *store) gpuMemory() types.GPUMemory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.GPUMemory
}

func (s *store) cpuGlobal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.CPUGlobal
}

func (s *store) cpuProcess() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.CPUProcess
}

func (s *store) cpuCores() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	cores := make([]float64, len(s.snap.CPUCores))
	copy(cores, s.snap.CPUCores)
	return cores
}

// snapshot copies every field out under one lock acquisition.
func (s *store) snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.CPUCores = make([]float64, len(s.snap.CPUCores))
	copy(snap.CPUCores, s.snap.CPUCores)
	snap.GPUEngines = make(types.EngineUtilization, len(s.snap.GPUEngines))
	for name, value := range s.snap.GPUEngines {
		snap.GPUEngines[name] = value
	}
	return snap
}
