package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func init() { gin.SetMode(gin.TestMode) }

func perform(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func authRouter(secret string) *gin.Engine {
	r := gin.New()
	enabled := secret != ""
	r.DELETE("/x", JWTAuth(secret), RequireRole(enabled, RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/x", JWTAuth(secret), RequireRole(enabled, RoleAdmin, RoleOperator), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func bearer(t *testing.T, role string, ttl time.Duration) map[string]string {
	t.Helper()
	tok, err := IssueToken(testSecret, "tester", role, ttl)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestAuthRoles(t *testing.T) {
	r := authRouter(testSecret)

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodPost, "/x", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodPost, "/x", map[string]string{"Authorization": "Bearer garbage"}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodPost, "/x", bearer(t, RoleAdmin, -time.Minute)).Code)

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/x", bearer(t, RoleOperator, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodDelete, "/x", bearer(t, RoleOperator, time.Hour)).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodDelete, "/x", bearer(t, RoleAdmin, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPost, "/x", bearer(t, "guest", time.Hour)).Code)
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	r := authRouter("")
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodDelete, "/x", nil).Code)

	_, err := IssueToken("", "x", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestTokenCarriesClaims(t *testing.T) {
	r := gin.New()
	var got *Claims
	r.GET("/me", JWTAuth(testSecret), func(c *gin.Context) { got = GetClaims(c) })

	perform(r, http.MethodGet, "/me", bearer(t, RoleOperator, time.Hour))
	require.NotNil(t, got)
	assert.Equal(t, RoleOperator, got.Role)
	assert.Equal(t, "tester", got.Subject)
}

// ── Errors, request id ────────────────────────────────────────────────────────

func TestErrorHandlerHidesDetails(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Recovery())
	r.GET("/err", func(c *gin.Context) { _ = c.Error(errors.New("pq: password authentication failed")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/err", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Contains(t, w.Body.String(), `"requestId":"`+id+`"`)

	w = perform(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := perform(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

// ── CORS ──────────────────────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://app.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodOptions, "/", map[string]string{"Origin": "http://app.test"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w = perform(r, http.MethodGet, "/", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := gin.New()
	open.Use(CORS([]string{"*"}))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, "*", perform(open, http.MethodGet, "/", nil).Header().Get("Access-Control-Allow-Origin"))
}

// ── Rate limiting ─────────────────────────────────────────────────────────────

func TestRateLimiterWindow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return clock }

	ok, _ := l.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Allow("1.1.1.1")
	assert.False(t, ok)
	ok, _ = l.Allow("2.2.2.2")
	assert.True(t, ok)

	clock = clock.Add(time.Minute + time.Second)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok)
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// ── Metrics ───────────────────────────────────────────────────────────────────

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics("inventory")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	perform(r, http.MethodGet, "/items/42", nil)
	m.ObserveReport("pdf")

	body := perform(r, http.MethodGet, "/metrics", nil).Body.String()
	assert.True(t, strings.Contains(body, `inventory_http_requests_total{method="GET",path="/items/:id",status="200"} 1`), body)
	assert.Contains(t, body, `inventory_reports_generated_total{format="pdf"} 1`)

	// a second instance must not collide on registration
	assert.NotPanics(t, func() { NewMetrics("inventory") })
}
