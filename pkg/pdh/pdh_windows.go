//go:build windows
// +build windows

// Package pdh implements the counter-subsystem contract on top of the
// Windows Performance Data Helper library.
package pdh

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/procwatch/procwatch/pkg/counters"
)

var (
	modpdh = windows.NewLazySystemDLL("pdh.dll")

	procPdhOpenQueryW                = modpdh.NewProc("PdhOpenQueryW")
	procPdhCloseQuery                = modpdh.NewProc("PdhCloseQuery")
	procPdhAddEnglishCounterW        = modpdh.NewProc("PdhAddEnglishCounterW")
	procPdhRemoveCounter             = modpdh.NewProc("PdhRemoveCounter")
	procPdhCollectQueryData          = modpdh.NewProc("PdhCollectQueryData")
	procPdhGetFormattedCounterValue  = modpdh.NewProc("PdhGetFormattedCounterValue")
	procPdhGetFormattedCounterArrayW = modpdh.NewProc("PdhGetFormattedCounterArrayW")
	procPdhExpandWildCardPathW       = modpdh.NewProc("PdhExpandWildCardPathW")
)

const (
	fmtDouble   = 0x00000200
	fmtLarge    = 0x00000400
	fmtNoCap100 = 0x00008000

	statusOK       = 0
	statusMoreData = 0x800007D2
)

// Error is a failed PDH call, carrying the raw status code.
type Error struct {
	Op     string
	Status uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("pdh: %s failed with status 0x%08X", e.Op, e.Status)
}

func pdhErr(op string, status uintptr) error {
	return &Error{Op: op, Status: uint32(status)}
}

// PDH_FMT_COUNTERVALUE with the union read as a double or a 64-bit
// integer. The padding word keeps the union 8-byte aligned.
type fmtValueDouble struct {
	CStatus uint32
	_       uint32
	Value   float64
}

type fmtValueLarge struct {
	CStatus uint32
	_       uint32
	Value   int64
}

// PDH_FMT_COUNTERVALUE_ITEM_W layouts.
type fmtItemDouble struct {
	Name  *uint16
	Value fmtValueDouble
}

type fmtItemLarge struct {
	Name  *uint16
	Value fmtValueLarge
}

// Subsystem is the live PDH facility.
type Subsystem struct{}

// New returns the host counter subsystem.
func New() counters.Subsystem {
	return Subsystem{}
}

// Open creates a new counter query.
func (Subsystem) Open() (counters.Query, error) {
	var handle uintptr
	r, _, _ := procPdhOpenQueryW.Call(0, 0, uintptr(unsafe.Pointer(&handle)))
	if r != statusOK {
		return nil, pdhErr("PdhOpenQuery", r)
	}
	return &query{handle: handle}, nil
}

// ExpandWildcard resolves a wildcard counter path into the concrete
// instance paths that currently exist.
func (Subsystem) ExpandWildcard(pattern string) ([]string, error) {
	pat, err := windows.UTF16PtrFromString(pattern)
	if err != nil {
		return nil, err
	}

	var size uint32
	r, _, _ := procPdhExpandWildCardPathW.Call(
		0, uintptr(unsafe.Pointer(pat)), 0, uintptr(unsafe.Pointer(&size)), 0)
	if r != statusOK && r != statusMoreData {
		return nil, pdhErr("PdhExpandWildCardPath", r)
	}
	if size == 0 {
		return nil, nil
	}

	// Headroom for instances appearing between the sizing and filling calls.
	size += 512
	buf := make([]uint16, size)
	r, _, _ = procPdhExpandWildCardPathW.Call(
		0, uintptr(unsafe.Pointer(pat)), uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)), 0)
	if r != statusOK {
		return nil, pdhErr("PdhExpandWildCardPath", r)
	}
	return splitMultiSz(buf), nil
}

// splitMultiSz splits a double-NUL-terminated UTF-16 string list.
func splitMultiSz(buf []uint16) []string {
	var out []string
	start := 0
	for i := 0; i < len(buf); i++ {
		if buf[i] != 0 {
			continue
		}
		if i == start {
			break
		}
		out = append(out, windows.UTF16ToString(buf[start:i]))
		start = i + 1
	}
	return out
}

type query struct {
	handle uintptr
}

func (q *query) Add(path string) (counters.Counter, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	var handle uintptr
	// English counter names so the fixed paths resolve on localized installs.
	r, _, _ := procPdhAddEnglishCounterW.Call(
		q.handle, uintptr(unsafe.Pointer(p)), 0, uintptr(unsafe.Pointer(&handle)))
	if r != statusOK {
		return nil, pdhErr("PdhAddEnglishCounter", r)
	}
	return &counter{handle: handle}, nil
}

func (q *query) Collect() error {
	r, _, _ := procPdhCollectQueryData.Call(q.handle)
	if r != statusOK {
		return pdhErr("PdhCollectQueryData", r)
	}
	return nil
}

func (q *query) Close() error {
	r, _, _ := procPdhCloseQuery.Call(q.handle)
	if r != statusOK {
		return pdhErr("PdhCloseQuery", r)
	}
	return nil
}

type counter struct {
	handle uintptr
}

func (c *counter) Scalar() (float64, error) {
	var value fmtValueDouble
	r, _, _ := procPdhGetFormattedCounterValue.Call(
		c.handle, fmtDouble|fmtNoCap100, 0, uintptr(unsafe.Pointer(&value)))
	if r != statusOK {
		return 0, pdhErr("PdhGetFormattedCounterValue", r)
	}
	return value.Value, nil
}

func (c *counter) ScalarLarge() (int64, error) {
	var value fmtValueLarge
	r, _, _ := procPdhGetFormattedCounterValue.Call(
		c.handle, fmtLarge, 0, uintptr(unsafe.Pointer(&value)))
	if r != statusOK {
		return 0, pdhErr("PdhGetFormattedCounterValue", r)
	}
	return value.Value, nil
}

func (c *counter) Array() ([]counters.InstanceValue, error) {
	buf, count, err := c.rawArray(fmtDouble)
	if err != nil || count == 0 {
		return nil, err
	}
	items := unsafe.Slice((*fmtItemDouble)(unsafe.Pointer(&buf[0])), count)
	out := make([]counters.InstanceValue, 0, count)
	for _, item := range items {
		out = append(out, counters.InstanceValue{
			Name:  windows.UTF16PtrToString(item.Name),
			Value: item.Value.Value,
		})
	}
	runtime.KeepAlive(buf)
	return out, nil
}

func (c *counter) ArrayLarge() ([]counters.InstanceBytes, error) {
	buf, count, err := c.rawArray(fmtLarge)
	if err != nil || count == 0 {
		return nil, err
	}
	items := unsafe.Slice((*fmtItemLarge)(unsafe.Pointer(&buf[0])), count)
	out := make([]counters.InstanceBytes, 0, count)
	for _, item := range items {
		out = append(out, counters.InstanceBytes{
			Name:  windows.UTF16PtrToString(item.Name),
			Value: item.Value.Value,
		})
	}
	runtime.KeepAlive(buf)
	return out, nil
}

// rawArray performs the size-probe/fill double call shared by both array
// formats. The instance name pointers in the result point into the
// returned buffer.
func (c *counter) rawArray(format uintptr) ([]byte, uint32, error) {
	var size, count uint32
	r, _, _ := procPdhGetFormattedCounterArrayW.Call(
		c.handle, format,
		uintptr(unsafe.Pointer(&size)), uintptr(unsafe.Pointer(&count)), 0)
	if r == statusOK && count == 0 {
		return nil, 0, nil
	}
	if r != statusMoreData {
		return nil, 0, pdhErr("PdhGetFormattedCounterArray", r)
	}

	buf := make([]byte, size)
	r, _, _ = procPdhGetFormattedCounterArrayW.Call(
		c.handle, format,
		uintptr(unsafe.Pointer(&size)), uintptr(unsafe.Pointer(&count)),
		uintptr(unsafe.Pointer(&buf[0])))
	if r != statusOK {
		return nil, 0, pdhErr("PdhGetFormattedCounterArray", r)
	}
	return buf, count, nil
}

func (c *counter) Remove() error {
	r, _, _ := procPdhRemoveCounter.Call(c.handle)
	if r != statusOK {
		return pdhErr("PdhRemoveCounter", r)
	}
	return nil
}
