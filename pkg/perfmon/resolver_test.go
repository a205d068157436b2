package perfmon

import (
	"testing"

	"github.com/procwatch/procwatch/pkg/counters"
)

const (
	idPathPlain    = `\Process(app)\ID Process`
	idPathSuffixed = `\Process(app#1)\ID Process`
)

func newTestResolver(t *testing.T, sub *fakeSubsystem, pid uint32) *resolver {
	t.Helper()
	probe, err := sub.Open()
	if err != nil {
		t.Fatalf("opening probe query: %v", err)
	}
	return newResolver(sub, probe, pid, "app")
}

func TestCandidatesAreDeterministicallyOrdered(t *testing.T) {
	sub := newFakeSubsystem()
	sub.expansions[counters.ProcessIDWildcard("app")] = []string{idPathPlain, idPathSuffixed}
	r := newTestResolver(t, sub, 100)

	cands, err := r.candidates()
	if err != nil {
		t.Fatalf("candidates failed: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	// Sorted order, independent of subsystem enumeration order.
	if cands[0] != idPathSuffixed || cands[1] != idPathPlain {
		t.Fatalf("unexpected candidate order: %v", cands)
	}
}

func TestResolveMatchesPidAndDerivesTimePath(t *testing.T) {
	sub := newFakeSubsystem()
	sub.larges[idPathSuffixed] = 999
	sub.larges[idPathPlain] = 100
	r := newTestResolver(t, sub, 100)

	path, ok := r.resolve([]string{idPathSuffixed, idPathPlain})
	if !ok {
		t.Fatalf("expected a match for pid 100")
	}
	if want := `\Process(app)\% Processor Time`; path != want {
		t.Fatalf("got %q, want %q", path, want)
	}

	probe := sub.queries[0]
	for _, c := range probe.regs {
		if !c.removed {
			t.Fatalf("probe counter %q left registered", c.path)
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	sub := newFakeSubsystem()
	sub.larges[idPathPlain] = 999
	r := newTestResolver(t, sub, 100)

	if path, ok := r.resolve([]string{idPathPlain}); ok {
		t.Fatalf("expected no match, got %q", path)
	}
}
