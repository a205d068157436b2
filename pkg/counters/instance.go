package counters

import (
	"strconv"
	"strings"
)

const engineTypeMarker = "_engtype_"

// PIDToken returns the marker embedded in GPU counter instance names for a
// process, e.g. "pid_1234_". The trailing underscore keeps pid 123 from
// matching pid 1234.
func PIDToken(pid uint32) string {
	return "pid_" + strconv.FormatUint(uint64(pid), 10) + "_"
}

// OwnedBy reports whether a GPU counter instance name belongs to the
// process identified by token.
func OwnedBy(instance, token string) bool {
	return strings.Contains(instance, token)
}

// EngineType extracts the engine-type suffix of a GPU engine instance name
// ("...pid_1234_..._engtype_3D" -> "3D"). It reports false when the marker
// is missing or the suffix is empty.
func EngineType(instance string) (string, bool) {
	pos := strings.Index(instance, engineTypeMarker)
	if pos < 0 {
		return "", false
	}
	engine := instance[pos+len(engineTypeMarker):]
	if engine == "" {
		return "", false
	}
	return engine, true
}

// CoreIndex parses the trailing core index of a "group,core" processor
// instance name. Aggregate instances such as "0,_Total" report false.
func CoreIndex(instance string) (int, bool) {
	_, core, found := strings.Cut(instance, ",")
	if !found {
		return 0, false
	}
	idx, err := strconv.Atoi(core)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
