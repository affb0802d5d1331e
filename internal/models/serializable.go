package models

import "github.com/accesshub/accesshub/pkg/metrics"

// Serializable is implemented by records that can project their current
// in-memory attribute state into a plain map, typically for transmission
// or logging. Keys named in exclude are dropped from the top level of the
// result; names that match nothing are ignored. Exclusion never reaches
// into nested maps.
type Serializable interface {
	ToDict(exclude ...string) map[string]any
}

// dictValues copies fields into a fresh map and strips excluded keys. Each
// call counts one serialization of the given record kind. The input slice
// is never mutated and the result shares no state with the record, so
// callers may modify it freely.
func dictValues(kind string, fields map[string]any, exclude []string) map[string]any {
	metrics.Serializations.WithLabelValues(kind).Inc()

	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	for _, key := range exclude {
		delete(out, key)
	}
	return out
}

func isExcluded(exclude []string, key string) bool {
	for _, name := range exclude {
		if name == key {
			return true
		}
	}
	return false
}
