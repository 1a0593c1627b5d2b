package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/handlers"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		rr := s.get(t, path, "")
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp handlers.HealthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Services["database"])
		assert.NotContains(t, resp.Services, "redis")
	}

	rr := s.get(t, "/ready", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	s := newTestServer(t)
	sqlDB, err := s.DB.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	testutil.AssertStatus(t, s.get(t, "/health", ""), http.StatusServiceUnavailable)
	testutil.AssertStatus(t, s.get(t, "/ready", ""), http.StatusServiceUnavailable)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.get(t, "/api/categories", "")

	rr := s.get(t, "/metrics", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "planazo_http_requests_total")
}
