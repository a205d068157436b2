package perfmon

import (
	"fmt"

	"github.com/procwatch/procwatch/pkg/counters"
)

// fakeSubsystem is an in-memory counter subsystem for tests. Values are
// keyed by counter path and can be swapped between ticks.
type fakeSubsystem struct {
	openErr     error
	collectErr  error
	addErr      map[string]error
	scalars     map[string]float64
	larges      map[string]int64
	arrays      map[string][]counters.InstanceValue
	arraysLarge map[string][]counters.InstanceBytes
	expansions  map[string][]string
	queries     []*fakeQuery
}

func newFakeSubsystem() *fakeSubsystem {
	return &fakeSubsystem{
		addErr:      map[string]error{},
		scalars:     map[string]float64{},
		larges:      map[string]int64{},
		arrays:      map[string][]counters.InstanceValue{},
		arraysLarge: map[string][]counters.InstanceBytes{},
		expansions:  map[string][]string{},
	}
}

func (f *fakeSubsystem) Open() (counters.Query, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	q := &fakeQuery{sub: f}
	f.queries = append(f.queries, q)
	return q, nil
}

func (f *fakeSubsystem) ExpandWildcard(pattern string) ([]string, error) {
	paths := make([]string, len(f.expansions[pattern]))
	copy(paths, f.expansions[pattern])
	return paths, nil
}

type fakeQuery struct {
	sub    *fakeSubsystem
	closed bool
	regs   []*fakeCounter
}

func (q *fakeQuery) Add(path string) (counters.Counter, error) {
	if err := q.sub.addErr[path]; err != nil {
		return nil, err
	}
	c := &fakeCounter{sub: q.sub, path: path}
	q.regs = append(q.regs, c)
	return c, nil
}

func (q *fakeQuery) Collect() error {
	return q.sub.collectErr
}

func (q *fakeQuery) Close() error {
	q.closed = true
	return nil
}

// registered reports whether a live (non-removed) counter exists for path.
func (q *fakeQuery) registered(path string) bool {
	for _, c := range q.regs {
		if c.path == path && !c.removed {
			return true
		}
	}
	return false
}

type fakeCounter struct {
	sub     *fakeSubsystem
	path    string
	removed bool
}

func (c *fakeCounter) Scalar() (float64, error) {
	v, ok := c.sub.scalars[c.path]
	if !ok {
		return 0, fmt.Errorf("no scalar value for %s", c.path)
	}
	return v, nil
}

func (c *fakeCounter) ScalarLarge() (int64, error) {
	v, ok := c.sub.larges[c.path]
	if !ok {
		return 0, fmt.Errorf("no large value for %s", c.path)
	}
	return v, nil
}

func (c *fakeCounter) Array() ([]counters.InstanceValue, error) {
	return c.sub.arrays[c.path], nil
}

func (c *fakeCounter) ArrayLarge() ([]counters.InstanceBytes, error) {
	return c.sub.arraysLarge[c.path], nil
}

func (c *fakeCounter) Remove() error {
	c.removed = true
	return nil
}

// fakeProcess stands in for OS process introspection.
type fakeProcess struct {
	pid   uint32
	base  string
	cores int
}

func (f fakeProcess) PID() uint32 {
	return f.pid
}

func (f fakeProcess) BaseName() (string, error) {
	if f.base == "" {
		return "", fmt.Errorf("no executable name")
	}
	return f.base, nil
}

func (f fakeProcess) LogicalCores() (int, error) {
	return f.cores, nil
}
