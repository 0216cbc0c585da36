package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) CheckHealth(ctx context.Context) error {
	return s.err
}

func performHealthRequest(t *testing.T, svc *Service) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	e := echo.New()
	svc.RegisterEndpoints(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth_AllDependenciesHealthy(t *testing.T) {
	svc := NewService("rider-daemon", func() string { return "open" })
	svc.AddChecker("redis", stubChecker{})
	svc.AddChecker("postgres", stubChecker{})

	rec, body := performHealthRequest(t, svc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "rider-daemon", body.Service)
	assert.Equal(t, "open", body.SessionState)
	assert.Equal(t, "ok", body.Dependencies["redis"])
	assert.Equal(t, "ok", body.Dependencies["postgres"])
}

func TestHealth_DegradedWhenCheckerFails(t *testing.T) {
	svc := NewService("rider-daemon", nil)
	svc.AddChecker("redis", stubChecker{err: errors.New("connection refused")})
	svc.AddChecker("postgres", stubChecker{})

	rec, body := performHealthRequest(t, svc)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection refused", body.Dependencies["redis"])
	assert.Equal(t, "ok", body.Dependencies["postgres"])
	assert.Empty(t, body.SessionState)
}

func TestPing(t *testing.T) {
	svc := NewService("rider-daemon", nil)
	e := echo.New()
	svc.RegisterEndpoints(e)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
