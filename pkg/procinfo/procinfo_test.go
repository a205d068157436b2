package procinfo

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
)

func TestHostBaseNameStripsExtension(t *testing.T) {
	host := Host(uint32(os.Getpid()))
	name, err := host.BaseName()
	if err != nil {
		t.Fatalf("BaseName failed: %v", err)
	}
	if name == "" {
		t.Fatalf("expected a non-empty base name")
	}
	if strings.Contains(name, ".exe") {
		t.Fatalf("extension not stripped: %q", name)
	}
}

func TestHostLogicalCoresFallsBack(t *testing.T) {
	t.Cleanup(func() { logicalCounts = cpu.Counts })
	logicalCounts = func(logical bool) (int, error) {
		return 0, errors.New("topology unavailable")
	}

	n, err := Host(1).LogicalCores()
	if err != nil {
		t.Fatalf("LogicalCores must not fail on fallback: %v", err)
	}
	if n <= 0 {
		t.Fatalf("expected a positive core count, got %d", n)
	}
}

func TestHostPID(t *testing.T) {
	if got := Host(42).PID(); got != 42 {
		t.Fatalf("expected pid 42, got %d", got)
	}
}
