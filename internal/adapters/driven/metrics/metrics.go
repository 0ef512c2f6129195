// Package metrics records catalogue refresh instrumentation with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.Metrics = (*Recorder)(nil)

const namespace = "palomar"

// Result label values.
const (
	resultOK    = "ok"
	resultError = "error"
	originNone  = "none"
)

// Recorder holds the catalogue collectors.
type Recorder struct {
	registry *prometheus.Registry

	fetchDuration *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
	records       prometheus.Gauge
	upserts       *prometheus.CounterVec
}

// New creates a recorder with its own registry, including Go runtime collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of sheet fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Refreshes by origin of the installed snapshot; none means the refresh failed.",
		}, []string{"origin"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the installed snapshot.",
		}),
		upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlay_upserts_total",
			Help:      "Overlay writes by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		r.fetchDuration, r.refreshes, r.records, r.upserts,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveFetch records the duration of one source fetch.
func (r *Recorder) ObserveFetch(source string, d time.Duration, err error) {
	r.fetchDuration.WithLabelValues(source, result(err)).Observe(d.Seconds())
}

// ObserveRefresh records the outcome of a refresh.
func (r *Recorder) ObserveRefresh(origin domain.Origin, records int) {
	if origin == "" {
		r.refreshes.WithLabelValues(originNone).Inc()
		return
	}
	r.refreshes.WithLabelValues(string(origin)).Inc()
	r.records.Set(float64(records))
}

// ObserveUpsert records an overlay write.
func (r *Recorder) ObserveUpsert(err error) {
	r.upserts.WithLabelValues(result(err)).Inc()
}

// Registry returns the registry the collectors are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
