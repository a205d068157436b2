// Package perfmon samples CPU and GPU utilization for the calling process
// from the host performance-counter subsystem and publishes the latest
// values through a lock-protected snapshot.
package perfmon

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/procwatch/procwatch/pkg/counters"
	"github.com/procwatch/procwatch/pkg/pdh"
	"github.com/procwatch/procwatch/pkg/procinfo"
	"github.com/procwatch/procwatch/pkg/types"
)

// DefaultInterval is the sampling period between collection ticks.
const DefaultInterval = 100 * time.Millisecond

// Options configures a sampling session.
type Options struct {
	// UseGlobalCPUUtilization selects whether CPUUtilization reports the
	// system-wide scalar or the process-specific one.
	UseGlobalCPUUtilization bool

	// Interval overrides the sampling period. Zero means DefaultInterval.
	Interval time.Duration

	// Subsystem overrides the counter subsystem. Nil uses the host PDH
	// facility.
	Subsystem counters.Subsystem

	// Process overrides process introspection. Nil describes the calling
	// process.
	Process procinfo.Introspector
}

// Session owns the worker goroutine and the counter queries for one
// sampling lifetime. Any number of goroutines may call the accessors
// concurrently; the worker is the only writer.
type Session struct {
	useGlobalCPU bool
	interval     time.Duration
	pidToken     string
	cores        int

	query counters.Query
	probe counters.Query

	engines    counters.Counter
	dedicated  counters.Counter
	shared     counters.Counter
	coreTimes  counters.Counter
	processCPU counters.Counter

	res   *resolver
	store *store

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Start opens the counter queries, registers the wildcard counters, sizes
// the core vector, and launches the sampling worker. It fails only when
// the subsystem cannot open a query; a counter that fails to register
// degrades its metric to the zero default and nothing else.
func Start(opts Options) (*Session, error) {
	sub := opts.Subsystem
	if sub == nil {
		sub = pdh.New()
	}
	proc := opts.Process
	if proc == nil {
		proc = procinfo.Host(uint32(os.Getpid()))
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	query, err := sub.Open()
	if err != nil {
		return nil, fmt.Errorf("opening counter query: %w", err)
	}
	probe, err := sub.Open()
	if err != nil {
		query.Close()
		return nil, fmt.Errorf("opening probe query: %w", err)
	}

	cores, err := proc.LogicalCores()
	if err != nil || cores <= 0 {
		cores = 1
	}

	s := &Session{
		useGlobalCPU: opts.UseGlobalCPUUtilization,
		interval:     interval,
		pidToken:     counters.PIDToken(proc.PID()),
		cores:        cores,
		query:        query,
		probe:        probe,
		store:        newStore(cores),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	// Registration failures degrade only the affected metric.
	s.engines, _ = query.Add(counters.GPUEngineUtilizationPath)
	s.dedicated, _ = query.Add(counters.GPUDedicatedMemoryPath)
	s.shared, _ = query.Add(counters.GPUSharedMemoryPath)
	s.coreTimes, _ = query.Add(counters.ProcessorUtilityPath)

	if base, err := proc.BaseName(); err == nil {
		s.res = newResolver(sub, probe, proc.PID(), base)
		if !s.useGlobalCPU {
			if cands, err := s.res.candidates(); err == nil {
				if path, ok := s.res.resolve(cands); ok {
					s.processCPU, _ = query.Add(path)
				}
			}
		}
	}

	go s.run()
	return s, nil
}

// Close stops the worker, waits for it, and releases the counter queries.
// Idempotent; safe to call from any goroutine. After Close every accessor
// returns its zero default.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.query.Close()
		s.probe.Close()
		s.store.reset()
	})
}

// CPUUtilization reports the scalar selected by the session options:
// system-wide or process-specific, in [0, 100].
func (s *Session) CPUUtilization() float64 {
	if s.useGlobalCPU {
		return s.store.cpuGlobal()
	}
	return s.store.cpuProcess()
}

// CPUCoresUtilization returns the per-core percentages, indexed by core.
// The length equals the logical processor count captured at Start.
func (s *Session) CPUCoresUtilization() []float64 {
	return s.store.cpuCores()
}

// GPUEngineUtilization reports the percentage for one engine type. An
// empty name means the default "3D" engine; an engine absent from the
// current sample reports 0.
func (s *Session) GPUEngineUtilization(engine string) float64 {
	if engine == "" {
		engine = types.DefaultEngine
	}
	return s.store.engineUtilization(engine)
}

// GPUEngineNames lists the engine types observed in the last tick, sorted.
func (s *Session) GPUEngineNames() []string {
	return s.store.engineNames()
}

// UsedGPUDedicatedMemory returns the dedicated GPU bytes held by the process.
func (s *Session) UsedGPUDedicatedMemory() uint64 {
	return s.store.gpuMemory().DedicatedBytes
}

// UsedGPUSharedMemory returns the shared GPU bytes held by the process.
func (s *Session) UsedGPUSharedMemory() uint64 {
	return s.store.gpuMemory().SharedBytes
}

// Snapshot copies out every published metric under one lock acquisition,
// guaranteeing the fields come from a single tick.
func (s *Session) Snapshot() types.Snapshot {
	return s.store.snapshot()
}

// LogicalCores returns the processor count captured at Start.
func (s *Session) LogicalCores() int {
	return s.cores
}
