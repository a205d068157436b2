//go:build !windows
// +build !windows

package pdh

import (
	"errors"

	"github.com/procwatch/procwatch/pkg/counters"
)

var errUnsupported = errors.New("performance counters require windows")

// Subsystem is a placeholder on non-Windows platforms.
type Subsystem struct{}

// New returns the stub subsystem; opening a query always fails.
func New() counters.Subsystem {
	return Subsystem{}
}

// Open always fails because PDH is only available on Windows.
func (Subsystem) Open() (counters.Query, error) {
	return nil, errUnsupported
}

// ExpandWildcard always fails on unsupported platforms.
func (Subsystem) ExpandWildcard(pattern string) ([]string, error) {
	return nil, errUnsupported
}
