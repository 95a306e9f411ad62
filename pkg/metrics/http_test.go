package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("/api/woods/{id}", "PUT", 200, 20*time.Millisecond)
	m.ObserveRequest("/api/woods/{id}", "PUT", 200, 10*time.Millisecond)
	m.ObserveRequest("", "GET", 404, time.Millisecond)
	m.IncUpload("stored")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "timbermill_http_requests_total", "route", "/api/woods/{id}")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "timbermill_http_requests_total", "route", "unknown")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	sum, err := fetchHistogramSum(mfs, "timbermill_http_request_duration_seconds", "route", "/api/woods/{id}")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, sum, 0.0001)

	got, err = fetchCounterValue(mfs, "timbermill_uploads_images_total", "outcome", "stored")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)
}
