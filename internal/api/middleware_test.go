package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"viewingdesk/pkg/config"
	"viewingdesk/pkg/session"
)

func echoOperator() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(OperatorFromContext(r.Context())))
	})
}

func testConfig(env string) config.Config {
	return config.Config{
		AppEnv:   env,
		Operator: config.OperatorConfig{TokenSecret: "s3cret", TokenAudience: "viewingdesk"},
	}
}

func TestOperatorAuth_BearerToken(t *testing.T) {
	tok, err := session.IssueOperatorToken("admin", "viewingdesk", "s3cret", time.Now(), time.Minute)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	OperatorAuth(testConfig("prod"))(echoOperator()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestOperatorAuth_ProdRejectsHeaderFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Operator", "mallory")
	rec := httptest.NewRecorder()
	OperatorAuth(testConfig("prod"))(echoOperator()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestOperatorAuth_DevHeaderFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	req.Header.Set("X-Operator", "front-desk")
	rec := httptest.NewRecorder()
	OperatorAuth(testConfig("dev"))(echoOperator()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "front-desk", rec.Body.String())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	h := CORSMiddleware(CORSOptions{AllowedOrigins: []string{"http://localhost:5173"}})(echoOperator())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
