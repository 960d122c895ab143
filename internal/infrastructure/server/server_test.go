package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/adapters/repository"
	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/infrastructure/config"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/infrastructure/metrics"
	"github.com/taskmaster/dashboard/internal/infrastructure/seed"
	"github.com/taskmaster/dashboard/internal/ports"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "Project Dashboard", Version: "test"},
		Server: config.ServerConfig{Port: 8080, WriteTimeout: 5 * time.Second},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "http://localhost:3000, https://dashboard.example.com",
			RateLimitRequests:  100,
			RateLimitWindow:    time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	dash := services.NewDashboard(repository.NewRepositories(), services.Options{
		Clock: ports.FixedClock(time.Date(2025, time.April, 20, 10, 0, 0, 0, time.UTC)),
	})
	t.Cleanup(dash.Close)

	fx, err := seed.Sample()
	require.NoError(t, err)
	require.NoError(t, dash.Load(context.Background(), fx))

	m := metrics.New()
	t.Cleanup(m.Attach(dash.Bus))

	srv, err := New(cfg, dash, m, logger.NewNop())
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := serve(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), "2025-04-20T10:00:00Z")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))

	rec = serve(srv, http.MethodGet, "/health/detailed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":5`)
}

func TestAPIRoutesAreMounted(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := serve(srv, http.MethodGet, "/api/v1/board", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(srv, http.MethodPost, "/api/v1/tasks", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"validation failed"`)

	rec = serve(srv, http.MethodGet, "/api/v1/meetings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(srv, http.MethodGet, "/api/v2/board", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig())

	serve(srv, http.MethodPost, "/api/v1/tasks/task-2/toggle", "")

	rec := serve(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/tasks/:id/toggle",status="200"} 1`)
	assert.Contains(t, body, `dashboard_tasks{status="done"} 2`)
	assert.Contains(t, body, `dashboard_store_events_total{type="task.completed"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	srv := newTestServer(t, cfg)

	rec := serve(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwaggerUI(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := serve(srv, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/tasks")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitRequests = 2
	cfg.Security.RateLimitWindow = time.Hour
	srv := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := serve(srv, http.MethodGet, "/api/v1/board", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := serve(srv, http.MethodGet, "/api/v1/board", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins(""))
	assert.Equal(t, []string{"a", "b"}, splitOrigins(" a, ,b "))
}

func TestEnvironmentSettings(t *testing.T) {
	dev := testConfig()
	dev.App.Environment = "development"
	prod := testConfig()
	prod.App.Environment = "production"

	hsts := func(srv *Server) string {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(echo.HeaderXForwardedProto, "https")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Header().Get(echo.HeaderStrictTransportSecurity)
	}

	devSrv := newTestServer(t, dev)
	assert.True(t, devSrv.echo.Debug)
	assert.Empty(t, hsts(devSrv))

	prodSrv := newTestServer(t, prod)
	assert.False(t, prodSrv.echo.Debug)
	assert.Equal(t, "max-age=31536000; includeSubdomains", hsts(prodSrv))
}
