// Package procinfo exposes the little process introspection the sampler
// needs: who am I, what is my executable called, how many logical cores
// does the host have.
package procinfo

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// logicalCounts allows tests to stub the gopsutil topology lookup.
var logicalCounts = cpu.Counts

// Introspector describes the calling process and its host.
type Introspector interface {
	PID() uint32
	// BaseName returns the executable name with its extension stripped,
	// the form under which the counter subsystem names process instances.
	BaseName() (string, error)
	LogicalCores() (int, error)
}

type hostIntrospector struct {
	pid uint32
}

// Host returns an Introspector for the given process id.
func Host(pid uint32) Introspector {
	return hostIntrospector{pid: pid}
}

func (h hostIntrospector) PID() uint32 {
	return h.pid
}

func (h hostIntrospector) BaseName() (string, error) {
	proc, err := process.NewProcess(int32(h.pid))
	if err != nil {
		return "", fmt.Errorf("looking up pid %d: %w", h.pid, err)
	}
	name, err := proc.Name()
	if err != nil {
		return "", fmt.Errorf("reading name of pid %d: %w", h.pid, err)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		return "", fmt.Errorf("empty executable name for pid %d", h.pid)
	}
	return name, nil
}

func (h hostIntrospector) LogicalCores() (int, error) {
	n, err := logicalCounts(true)
	if err != nil || n <= 0 {
		// The sampler can still run with the runtime's view of the host.
		return runtime.NumCPU(), nil
	}
	return n, nil
}
