package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewingdesk/internal/appointment"
	"viewingdesk/internal/metrics"
	"viewingdesk/pkg/config"
	"viewingdesk/pkg/session"
)

func newTestRouter(t *testing.T, env string, checks map[string]func(context.Context) error) http.Handler {
	t.Helper()
	store, err := appointment.NewMemoryStore()
	require.NoError(t, err)
	cfg := config.Config{
		AppEnv:                  env,
		Operator:                config.OperatorConfig{TokenSecret: "s3cret", TokenAudience: "viewingdesk"},
		DashboardAllowedOrigins: []string{"http://localhost:5173"},
	}
	m := metrics.New()
	return NewRouter(Dependencies{
		Cfg:          cfg,
		Appointments: appointment.NewService(store, appointment.WithMetrics(m)),
		Metrics:      m,
		ReadyChecks:  checks,
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, "dev", nil)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Readyz(t *testing.T) {
	h := newTestRouter(t, "dev", map[string]func(context.Context) error{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis: connection refused")
}

func TestRouter_RequiresOperator(t *testing.T) {
	h := newTestRouter(t, "prod", nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/appointments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/appointments", nil)
	req.Header.Set("X-Operator", "admin")
	rec = serve(h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "header fallback is dev only")

	tok, err := session.IssueOperatorToken("admin", "viewingdesk", "s3cret", time.Now(), time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestRouter_CreateConfirmAndMetrics(t *testing.T) {
	h := newTestRouter(t, "dev", nil)

	body := `{"requester":{"name":"Li Wei"},"property":{"name":"Sunrise 1204","listedRent":"3200"},"scheduledAt":"2025-03-15T10:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/appointments", strings.NewReader(body))
	req.Header.Set("X-Operator", "front-desk")
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"operator":"front-desk"`)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `viewingdesk_appointments_created_total{result="ok"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, "dev", nil)
	req := httptest.NewRequest(http.MethodOptions, "/v1/appointments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := serve(h, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
