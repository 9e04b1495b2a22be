package export

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.Observe(&Result{Kind: KindContent, Outcome: Success, Rows: 5, Duration: time.Second})
	m.Observe(&Result{Kind: KindContent, Outcome: Partial, Rows: 3})
	m.Observe(&Result{Kind: KindMedia, Outcome: Fatal})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("content", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("content", "partial")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("media", "fatal")))
	assert.Equal(t, float64(8), testutil.ToFloat64(m.rows.WithLabelValues("content")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe(&Result{Kind: KindContent}) })
}
