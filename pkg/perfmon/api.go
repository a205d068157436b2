package perfmon

import "sync"

// The package-level API mirrors the session methods over one process-wide
// default session, for callers that want drop-in global accessors. Every
// accessor returns its zero default before Initialize and after Shutdown.

var (
	sessionMu sync.Mutex
	active    *Session
)

// Initialize starts the process-wide sampling session. Idempotent: a call
// while a session is active succeeds without starting a second worker.
// Must not be called concurrently with Shutdown.
func Initialize(opts Options) error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if active != nil {
		return nil
	}
	s, err := Start(opts)
	if err != nil {
		return err
	}
	active = s
	return nil
}

// Shutdown stops and releases the process-wide session. No-op when no
// session is active.
func Shutdown() {
	sessionMu.Lock()
	s := active
	active = nil
	sessionMu.Unlock()
	if s != nil {
		s.Close()
	}
}

func current() *Session {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return active
}

// GetCPUUtilization reports the CPU scalar selected at Initialize.
func GetCPUUtilization() float64 {
	if s := current(); s != nil {
		return s.CPUUtilization()
	}
	return 0
}

// GetCPUCoresUtilization returns the per-core percentages.
func GetCPUCoresUtilization() []float64 {
	if s := current(); s != nil {
		return s.CPUCoresUtilization()
	}
	return nil
}

// GetGPUEngineUtilization reports one engine type's percentage; the empty
// string selects the default "3D" engine.
func GetGPUEngineUtilization(engine string) float64 {
	if s := current(); s != nil {
		return s.GPUEngineUtilization(engine)
	}
	return 0
}

// GetGPUEngineNames lists the engine types observed in the last tick.
func GetGPUEngineNames() []string {
	if s := current(); s != nil {
		return s.GPUEngineNames()
	}
	return nil
}

// GetUsedGPUDedicatedMemory returns the process's dedicated GPU bytes.
func GetUsedGPUDedicatedMemory() uint64 {
	if s := current(); s != nil {
		return s.UsedGPUDedicatedMemory()
	}
	return 0
}

// GetUsedGPUSharedMemory returns the process's shared GPU bytes.
func GetUsedGPUSharedMemory() uint64 {
	if s := current(); s != nil {
		return s.UsedGPUSharedMemory()
	}
	return 0
}
