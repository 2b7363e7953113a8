// Package metrics exposes Prometheus instrumentation for solver runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

const namespace = "knapsack"

// Recorder collects selection metrics on its own registry.
type Recorder struct {
	registry      *prometheus.Registry
	selections    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	selectedItems prometheus.Histogram
}

// NewRecorder registers the selection collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Number of completed selections by algorithm.",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Time spent computing a selection.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"algorithm"}),
		selectedItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selected_items",
			Help:      "Number of items included per selection.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	r.registry.MustRegister(
		r.selections,
		r.duration,
		r.selectedItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveSelection records one completed solver run.
func (r *Recorder) ObserveSelection(alg knapsack.Algorithm, elapsed time.Duration, sel knapsack.Selection) {
	if r == nil {
		return
	}
	label := alg.String()
	r.selections.WithLabelValues(label).Inc()
	r.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	r.selectedItems.Observe(float64(sel.Len()))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry, primarily for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
