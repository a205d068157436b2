// Package counters defines the contract with the host performance-counter
// subsystem and the helpers that decode its string-encoded instance names.
package counters

// InstanceValue is one formatted double read from a wildcard counter instance.
type InstanceValue struct {
	Name  string
	Value float64
}

// InstanceBytes is one formatted integer read from a wildcard counter instance.
type InstanceBytes struct {
	Name  string
	Value int64
}

// Counter is a single registered counter on a query.
type Counter interface {
	// Scalar returns the counter formatted as an uncapped double. Values
	// above 100 are possible for utility counters and are clipped by the
	// caller, not here.
	Scalar() (float64, error)
	// ScalarLarge returns the counter formatted as a 64-bit integer.
	ScalarLarge() (int64, error)
	// Array returns every instance of a wildcard counter as doubles.
	Array() ([]InstanceValue, error)
	// ArrayLarge returns every instance of a wildcard counter as integers.
	ArrayLarge() ([]InstanceBytes, error)
	// Remove unregisters the counter from its query.
	Remove() error
}

// Query is an open counter query. Collect refreshes every registered
// counter in one atomic snapshot.
type Query interface {
	Add(path string) (Counter, error)
	Collect() error
	Close() error
}

// Subsystem is the host counter facility. ExpandWildcard resolves a
// wildcard path pattern into concrete instance paths without registering
// them.
type Subsystem interface {
	Open() (Query, error)
	ExpandWildcard(pattern string) ([]string, error)
}
