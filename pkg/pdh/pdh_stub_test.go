//go:build !windows
// +build !windows

package pdh

import "testing"

func TestStubRefusesToOpen(t *testing.T) {
	sub := New()
	if q, err := sub.Open(); err == nil {
		q.Close()
		t.Fatalf("expected stub Open to fail off windows")
	}
	if _, err := sub.ExpandWildcard(`\Process(app*)\ID Process`); err == nil {
		t.Fatalf("expected stub ExpandWildcard to fail off windows")
	}
}
