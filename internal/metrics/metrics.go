// Package metrics records sync protocol activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dyluth/bored/pkg/client"
	"github.com/dyluth/bored/pkg/store"
)

var buckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics implements client.Observer.
type Metrics struct {
	gatherer prometheus.Gatherer

	fetchesTotal    *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	publishesTotal  *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
	updatesSeen     prometheus.Counter
	lastCounter     prometheus.Gauge
}

var _ client.Observer = (*Metrics)(nil)

// New registers the bored metrics with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bored_fetches_total",
				Help: "Total number of bored fetches",
			},
			[]string{"result"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bored_fetch_duration_seconds",
				Help:    "Bored fetch duration in seconds",
				Buckets: buckets,
			},
		),
		publishesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bored_publishes_total",
				Help: "Total number of bored publishes by outcome",
			},
			[]string{"outcome"},
		),
		publishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bored_publish_duration_seconds",
				Help:    "Bored publish duration in seconds",
				Buckets: buckets,
			},
			[]string{"outcome"},
		),
		updatesSeen: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bored_updates_seen_total",
				Help: "Update events received while watching a bored",
			},
		),
		lastCounter: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bored_counter",
				Help: "Counter of the most recent update event seen",
			},
		),
	}
}

// ObserveFetch implements client.Observer.
func (m *Metrics) ObserveFetch(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetchesTotal.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

// ObservePublish implements client.Observer.
func (m *Metrics) ObservePublish(outcome client.Outcome, duration time.Duration) {
	m.publishesTotal.WithLabelValues(string(outcome)).Inc()
	m.publishDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

// ObserveUpdate records an update event from a watch subscription.
func (m *Metrics) ObserveUpdate(event store.UpdateEvent) {
	m.updatesSeen.Inc()
	m.lastCounter.Set(float64(event.Counter))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
