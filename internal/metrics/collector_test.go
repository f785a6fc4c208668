package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCollector_RecordChain(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg, zap.NewNop())

	c.RecordChain(50*time.Millisecond, nil)
	c.RecordChain(10*time.Millisecond, nil)
	c.RecordChain(5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.chainsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.chainsTotal.WithLabelValues("error")))
}

func TestCollector_RecordNode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg, zap.NewNop())

	c.RecordNode("command", time.Millisecond, nil)
	c.RecordNode("command", time.Millisecond, nil)
	c.RecordNode("sequential", 2*time.Millisecond, nil)
	c.RecordNode("command", time.Millisecond, errors.New("fail"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.nodesTotal.WithLabelValues("command", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.nodesTotal.WithLabelValues("command", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.nodesTotal.WithLabelValues("sequential", "success")))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector
	c.RecordChain(time.Second, nil)
	c.RecordNode("command", time.Second, errors.New("x"))
	c.ObserveParallelBatch(3)
}

func TestCollector_NilLogger(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg, nil)
	assert.NotNil(t, c)
}
