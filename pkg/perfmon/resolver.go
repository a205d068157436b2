package perfmon

import (
	"sort"

	"github.com/procwatch/procwatch/pkg/counters"
)

// resolver finds the counter instance that belongs to this exact process
// among every process sharing the executable base name. Instance suffixes
// shift as sibling processes start and stop, so resolution repeats
// whenever the candidate list is ambiguous.
type resolver struct {
	sub   counters.Subsystem
	probe counters.Query
	pid   int64
	base  string
}

func newResolver(sub counters.Subsystem, probe counters.Query, pid uint32, base string) *resolver {
	return &resolver{sub: sub, probe: probe, pid: int64(pid), base: base}
}

// candidates lists the concrete "ID Process" instance paths for the base
// name, sorted so the probing order stays deterministic: the subsystem
// does not guarantee a stable enumeration order.
func (r *resolver) candidates() ([]string, error) {
	paths, err := r.sub.ExpandWildcard(counters.ProcessIDWildcard(r.base))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// resolve probes each candidate on the side query, compares its reported
// process id against ours, and derives the sibling processor-time path
// from the first match.
func (r *resolver) resolve(paths []string) (string, bool) {
	for _, path := range paths {
		ctr, err := r.probe.Add(path)
		if err != nil {
			continue
		}
		matched := false
		if err := r.probe.Collect(); err == nil {
			if pid, err := ctr.ScalarLarge(); err == nil && pid == r.pid {
				matched = true
			}
		}
		ctr.Remove()
		if matched {
			return counters.ProcessorTimePath(path), true
		}
	}
	return "", false
}
