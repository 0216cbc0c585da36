// Package health exposes liveness and readiness endpoints for the rider
// daemon over echo.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uniride/uniride/internal/pkg/database"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/nats"
)

// Checker reports whether one backend dependency is reachable.
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// StateFunc reports the realtime session's current connection state.
type StateFunc func() string

// PostgresChecker pings the bookings database.
type PostgresChecker struct {
	client *database.PostgresClient
}

func NewPostgresChecker(client *database.PostgresClient) *PostgresChecker {
	return &PostgresChecker{client: client}
}

func (p *PostgresChecker) CheckHealth(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.GetDB().PingContext(ctx)
}

// RedisChecker pings the presence cache.
type RedisChecker struct {
	client *database.RedisClient
}

func NewRedisChecker(client *database.RedisClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) CheckHealth(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.GetClient().Ping(ctx).Err()
}

// NATSChecker verifies the notification gateway connection.
type NATSChecker struct {
	client *nats.Client
}

func NewNATSChecker(client *nats.Client) *NATSChecker {
	return &NATSChecker{client: client}
}

func (n *NATSChecker) CheckHealth(ctx context.Context) error {
	if n.client == nil {
		return nil
	}
	conn := n.client.GetConn()
	if conn == nil || !conn.IsConnected() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "NATS not connected")
	}
	return nil
}

// Service aggregates dependency checkers and the session state into one
// health report.
type Service struct {
	serviceName string
	checkers    map[string]Checker
	session     StateFunc
}

func NewService(serviceName string, session StateFunc) *Service {
	return &Service{
		serviceName: serviceName,
		checkers:    make(map[string]Checker),
		session:     session,
	}
}

// AddChecker registers a named dependency checker.
func (s *Service) AddChecker(name string, checker Checker) {
	s.checkers[name] = checker
}

// Response is the JSON body of the /health endpoint.
type Response struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	SessionState string            `json:"session_state,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies"`
}

// RegisterEndpoints wires /ping and /health onto the echo instance.
func (s *Service) RegisterEndpoints(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/health", s.handleHealth)
}

func (s *Service) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := Response{
		Status:       "healthy",
		Service:      s.serviceName,
		Timestamp:    time.Now().UTC(),
		Dependencies: make(map[string]string),
	}
	if s.session != nil {
		resp.SessionState = s.session()
	}

	code := http.StatusOK
	for name, checker := range s.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			logger.Warn("Health check failed",
				logger.String("dependency", name),
				logger.Err(err))
			resp.Dependencies[name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	return c.JSON(code, resp)
}
