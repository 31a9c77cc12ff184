// Package metrics counts generated circuits with Prometheus collectors.
//
// Each Recorder owns its own registry so concurrent sweeps and tests never
// share global state. The registry can be written to a node-exporter
// textfile after a run.
package metrics

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// =============================================================================
// Collectors
// =============================================================================

// Recorder holds the generation collectors.
type Recorder struct {
	registry  *prometheus.Registry
	generated *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	qubits    *prometheus.GaugeVec

	mu        sync.Mutex
	maxQubits map[string]float64
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry:  prometheus.NewRegistry(),
		maxQubits: make(map[string]float64),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parsurf",
			Name:      "circuits_generated_total",
			Help:      "Total circuits generated by family",
		}, []string{"family"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parsurf",
			Name:      "generation_seconds",
			Help:      "Time to build and render one circuit",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"family"}),
		qubits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parsurf",
			Name:      "circuit_qubits",
			Help:      "Qubit count of the largest circuit generated per family",
		}, []string{"family"}),
	}
	r.registry.MustRegister(r.generated, r.duration, r.qubits)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// =============================================================================
// Recording
// =============================================================================

// RecordCircuit records one generated circuit.
//
// Inputs:
//
//	family - The circuit family name.
//	qubits - The number of qubits in the circuit.
//	elapsed - Wall time spent building and rendering it.
func (r *Recorder) RecordCircuit(family string, qubits int, elapsed time.Duration) {
	r.generated.WithLabelValues(family).Inc()
	r.duration.WithLabelValues(family).Observe(elapsed.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	if q := float64(qubits); q > r.maxQubits[family] {
		r.maxQubits[family] = q
		r.qubits.WithLabelValues(family).Set(q)
	}
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// replacing the file atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
