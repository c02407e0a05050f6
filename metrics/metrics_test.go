package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRetry(t *testing.T) {
	before := testutil.ToFloat64(upstreamRetries.WithLabelValues("edamam-test"))
	RecordRetry("edamam-test")
	RecordRetry("edamam-test")

	assert.Equal(t, before+2, testutil.ToFloat64(upstreamRetries.WithLabelValues("edamam-test")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordHTTPRequest("GET", "/api/meals", "200", 15*time.Millisecond)
	RecordFailure("backend-test")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mealplanner_http_requests_total")
	assert.Contains(t, rec.Body.String(), `mealplanner_upstream_failures_total{upstream="backend-test"}`)
}
