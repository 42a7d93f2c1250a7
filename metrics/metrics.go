// Package metrics exposes counters about entropy generation in the
// prometheus text format.
package metrics

import (
	"fmt"
	"io"

	vm "github.com/VictoriaMetrics/metrics"
)

var set = vm.NewSet()

var (
	rngReseeds = set.NewCounter("entropy_rng_reseeds_total")
	rngBytes   = set.NewCounter("entropy_rng_bytes_total")
)

// SourceGenerated records n bytes generated by the named source.
func SourceGenerated(source string, n int) {
	set.GetOrCreateCounter(fmt.Sprintf(`entropy_source_bytes_total{source=%q}`, source)).Add(n)
}

// SourceFailed records a failed generation of the named source.
func SourceFailed(source string) {
	set.GetOrCreateCounter(fmt.Sprintf(`entropy_source_errors_total{source=%q}`, source)).Inc()
}

// RNGReseeded records a reseed of the rng.
func RNGReseeded() {
	rngReseeds.Inc()
}

// RNGRead records n bytes read from the rng.
func RNGRead(n int) {
	rngBytes.Add(n)
}

// WritePrometheus writes all entropy metrics to w. If processMetrics is
// set, the go runtime and process metrics are written too.
func WritePrometheus(w io.Writer, processMetrics bool) {
	set.WritePrometheus(w)
	if processMetrics {
		vm.WriteProcessMetrics(w)
	}
}
