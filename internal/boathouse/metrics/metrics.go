// Package metrics exports boathouse metrics to prometheus: partition cache
// activity and facade operation outcomes.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boathouse"

// Collector implements partitions.Observer and the services metrics
// recorder on top of prometheus collectors.
type Collector struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheSize      prometheus.Gauge
	operations     *prometheus.CounterVec
	durations      *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "partition_cache",
			Name:      "hits_total",
			Help:      "Acquires served from a cached statement set.",
		}, []string{"year"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "partition_cache",
			Name:      "misses_total",
			Help:      "Acquires that had to prepare a statement set.",
		}, []string{"year"}),
		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "partition_cache",
			Name:      "evictions_total",
			Help:      "Statement sets closed by the idle sweep.",
		}, []string{"year"}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "partition_cache",
			Name:      "entries",
			Help:      "Cached statement sets.",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, col := range []prometheus.Collector{
		c.cacheHits, c.cacheMisses, c.cacheEvictions, c.cacheSize, c.operations, c.durations,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Hit(year int)     { c.cacheHits.WithLabelValues(strconv.Itoa(year)).Inc() }
func (c *Collector) Miss(year int)    { c.cacheMisses.WithLabelValues(strconv.Itoa(year)).Inc() }
func (c *Collector) Evicted(year int) { c.cacheEvictions.WithLabelValues(strconv.Itoa(year)).Inc() }
func (c *Collector) Size(n int)       { c.cacheSize.Set(float64(n)) }

// Observe records one facade operation outcome.
func (c *Collector) Observe(_ context.Context, operation string, success bool, d time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	c.operations.WithLabelValues(operation, status).Inc()
	c.durations.WithLabelValues(operation).Observe(d.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
