package perfmon

import (
	"time"

	"github.com/procwatch/procwatch/pkg/types"
)

// run is the sampling loop. The timer resets after each tick's work, so
// the period is the interval plus processing time; no drift compensation.
func (s *Session) run() {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-timer.C:
		}
		s.sampleOnce()
		timer.Reset(s.interval)
	}
}

// sampleOnce performs one tick: refresh every registered counter, run the
// aggregators, commit the snapshot. A failed refresh skips the whole tick
// and leaves the previously published values visible; the next tick
// retries on its own.
func (s *Session) sampleOnce() {
	if err := s.query.Collect(); err != nil {
		return
	}

	var snap types.Snapshot

	if s.engines != nil {
		if items, err := s.engines.Array(); err == nil {
			snap.GPUEngines = aggregateEngines(items, s.pidToken)
		}
	}
	if s.dedicated != nil {
		if items, err := s.dedicated.ArrayLarge(); err == nil {
			snap.GPUMemory.DedicatedBytes = sumOwnedBytes(items, s.pidToken)
		}
	}
	if s.shared != nil {
		if items, err := s.shared.ArrayLarge(); err == nil {
			snap.GPUMemory.SharedBytes = sumOwnedBytes(items, s.pidToken)
		}
	}

	// The global scalar averages the raw vector; entries clip on publish.
	raw := make([]float64, s.cores)
	if s.coreTimes != nil {
		if items, err := s.coreTimes.Array(); err == nil {
			fillCoreVector(items, raw)
		}
	}
	snap.CPUGlobal = clip(meanOf(raw))
	snap.CPUCores = make([]float64, len(raw))
	for i, v := range raw {
		snap.CPUCores[i] = clip(v)
	}

	snap.CPUProcess = s.store.cpuProcess()
	if !s.useGlobalCPU {
		s.sampleProcessCPU(&snap)
	}

	s.store.commit(snap)
}

// sampleProcessCPU refreshes the process scalar. When sibling processes
// share the executable name the instance suffixes may have been
// reassigned, so the tick re-resolves and re-registers the counter
// instead of sampling, leaving the published value unchanged.
func (s *Session) sampleProcessCPU(snap *types.Snapshot) {
	if s.res == nil {
		return
	}
	cands, err := s.res.candidates()
	if err != nil {
		return
	}
	if len(cands) > 1 {
		if path, ok := s.res.resolve(cands); ok {
			if s.processCPU != nil {
				s.processCPU.Remove()
			}
			s.processCPU, _ = s.query.Add(path)
		}
		return
	}
	if s.processCPU == nil {
		return
	}
	rawValue, err := s.processCPU.Scalar()
	if err != nil {
		return
	}
	// The raw counter aggregates time across all cores.
	normalized := rawValue / float64(s.cores)
	snap.CPUProcess = clip(smooth(snap.CPUProcess, normalized))
}
