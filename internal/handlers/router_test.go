package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/handlers"
)

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := handlers.NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, "ok", payload["status"])
}

func TestRouterNotFoundEnvelope(t *testing.T) {
	t.Parallel()

	router := handlers.NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, "route_not_found", payload["error"])
}

func TestRouterUnconfiguredGroupReportsNotImplemented(t *testing.T) {
	t.Parallel()

	router := handlers.NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/anything", nil))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRouterMountsConfiguredGroup(t *testing.T) {
	t.Parallel()

	router := handlers.NewRouter(
		handlers.WithCartRoutes(func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
		}),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := handlers.NewRouter(
		handlers.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterReadyzReportsFailingCheck(t *testing.T) {
	t.Parallel()

	health := handlers.NewHealthHandlers(map[string]handlers.ReadinessCheck{
		"redis": func(ctx context.Context) error { return errors.New("redis down") },
	})
	router := handlers.NewRouter(handlers.WithHealthHandlers(health))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var payload struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, "degraded", payload.Status)
	require.Contains(t, payload.Checks["redis"], "redis down")
}
