package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", "/health", 200, 3*time.Millisecond)
	c.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	c.RecordHTTPRequest("POST", "/risk/calculate", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/risk/calculate", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.httpDuration))
}

func TestCollector_InFlight(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.IncInFlight()
	c.IncInFlight()
	c.DecInFlight()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpInFlight))
}

func TestCollector_RecordFeatureRequest(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordFeatureRequest("market_sentiment")
	c.RecordFeatureRequest("market_sentiment")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.featureRequests.WithLabelValues("market_sentiment")))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}
