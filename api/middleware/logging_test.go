package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordsRouteAndStatus(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{Output: &logs})
	reg := prometheus.NewRegistry()

	router := chi.NewRouter()
	router.Use(RequestID(logg), Logging(logg, metrics.NewHTTPMetrics(reg)), Recoverer(logg))
	router.Get("/api/orders/{orderId}/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/123/logs", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	out := logs.String()
	require.Contains(t, out, `"route":"/api/orders/{orderId}/logs"`)
	require.Contains(t, out, `"status":404`)
	require.Contains(t, out, "request_id")

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() != "laundry_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/api/orders/{orderId}/logs" && labels["status"] == "404" {
				found = true
				require.Equal(t, 1.0, m.GetCounter().GetValue())
			}
			if labels["route"] == "/boom" {
				require.Equal(t, "500", labels["status"])
			}
		}
	}
	require.True(t, found, "expected request counter for the order logs route")
	require.False(t, strings.Contains(rec.Body.String(), "kaboom"))
}
