package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

const checkTimeout = 2 * time.Second

// Checker defines the interface for checking a backend.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler reports the health of every configured backend.
type Handler struct {
	checkers map[string]Checker
}

// NewHandler creates a health handler. checkers maps backend names to checkers;
// it may be empty when the service runs in memory.
func NewHandler(checkers map[string]Checker) *Handler {
	return &Handler{checkers: checkers}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string            `doc:"ok, or degraded when a backend is unhealthy" json:"status"`
		Backends map[string]string `doc:"Health of each backend"                      json:"backends"`
	}
}

// Check pings each backend. The endpoint itself always answers 200.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Backends = make(map[string]string, len(h.checkers))

	for name, checker := range h.checkers {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := checker.Ping(pingCtx)
		cancel()

		if err != nil {
			resp.Body.Backends[name] = "unhealthy"
			resp.Body.Status = "degraded"

			continue
		}

		resp.Body.Backends[name] = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}
