package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records chain execution metrics. A nil *Collector is valid and
// records nothing, so callers never need to branch on whether metrics are
// configured.
type Collector struct {
	chainsTotal       *prometheus.CounterVec
	chainDuration     prometheus.Histogram
	nodesTotal        *prometheus.CounterVec
	nodeDuration      *prometheus.HistogramVec
	parallelBatchSize prometheus.Histogram

	logger *zap.Logger
}

// NewCollector registers the chain metrics under the given namespace. Pass
// prometheus.DefaultRegisterer in production; tests use a private registry.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.chainsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chains_total",
			Help:      "Total chain executions by status",
		},
		[]string{"status"},
	)

	c.chainDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_duration_seconds",
			Help:      "Wall-clock duration of chain executions",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
		},
	)

	c.nodesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_executions_total",
			Help:      "Node executions by node kind and status",
		},
		[]string{"kind", "status"},
	)

	c.nodeDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of individual node executions",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"kind"},
	)

	c.parallelBatchSize = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parallel_batch_size",
			Help:      "Number of children per parallel batch",
			Buckets:   prometheus.LinearBuckets(2, 2, 10),
		},
	)

	return c
}

// RecordChain records one top-level chain execution.
func (c *Collector) RecordChain(duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.chainsTotal.WithLabelValues(status(err)).Inc()
	c.chainDuration.Observe(duration.Seconds())
}

// RecordNode records one node dispatch.
func (c *Collector) RecordNode(kind string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.nodesTotal.WithLabelValues(kind, status(err)).Inc()
	c.nodeDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveParallelBatch records the fan-out of one parallel batch.
func (c *Collector) ObserveParallelBatch(size int) {
	if c == nil {
		return
	}
	c.parallelBatchSize.Observe(float64(size))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
