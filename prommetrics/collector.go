// Package prommetrics exports structidx metrics to Prometheus.
//
//	c := prommetrics.New(prometheus.DefaultRegisterer)
//	ex, _ := structidx.NewExtractor(structidx.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.Handler())
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/model"
)

// Collector implements structidx.MetricsCollector with Prometheus collectors.
type Collector struct {
	buildLatency  *prometheus.HistogramVec
	buildUnits    prometheus.Counter
	lookupLatency *prometheus.HistogramVec
	lookups       *prometheus.CounterVec
	invalidations prometheus.Counter
	poolWait      *prometheus.HistogramVec
}

var _ structidx.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers it with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		buildLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "structidx_build_duration_seconds",
			Help:    "Latency of structural index builds.",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2, 5e-2},
		}, []string{"status"}),
		buildUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "structidx_build_units_total",
			Help: "Code units scanned by index builds.",
		}),
		lookupLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "structidx_lookup_duration_seconds",
			Help:    "Latency of path lookups by resolution mode.",
			Buckets: []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3},
		}, []string{"mode"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "structidx_lookups_total",
			Help: "Path lookups by outcome (found, not_found, not_scalar, malformed).",
		}, []string{"outcome"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "structidx_pattern_invalidations_total",
			Help: "Cached patterns that failed to replay and fell back to a full search.",
		}),
		poolWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "structidx_pool_wait_seconds",
			Help:    "Time spent leasing pooled buffers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.buildLatency,
			c.buildUnits,
			c.lookupLatency,
			c.lookups,
			c.invalidations,
			c.poolWait,
		)
	}
	return c
}

func (c *Collector) RecordBuild(units int, d time.Duration, err error) {
	c.buildLatency.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		c.buildUnits.Add(float64(units))
	}
}

func (c *Collector) RecordLookup(outcome model.Outcome, speculative bool, d time.Duration) {
	mode := "search"
	if speculative {
		mode = "speculative"
	}
	c.lookupLatency.WithLabelValues(mode).Observe(d.Seconds())
	c.lookups.WithLabelValues(outcome.String()).Inc()
}

func (c *Collector) RecordPatternInvalidation() {
	c.invalidations.Inc()
}

func (c *Collector) RecordPoolWait(d time.Duration, err error) {
	c.poolWait.WithLabelValues(status(err)).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
