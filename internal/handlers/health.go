package handlers

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// HealthChecker defines the interface for probing a dependency.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RedisHealthChecker adapts redis.Client to HealthChecker.
type RedisHealthChecker struct {
	client *redis.Client
}

// NewRedisHealthChecker creates a new Redis health checker.
func NewRedisHealthChecker(client *redis.Client) *RedisHealthChecker {
	return &RedisHealthChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisHealthChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// HealthHandler reports gateway and dependency health.
type HealthHandler struct {
	redis  HealthChecker
	bucket HealthChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(redis, bucket HealthChecker) *HealthHandler {
	return &HealthHandler{redis: redis, bucket: bucket}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status      string `json:"status"`
		Redis       string `json:"redis"`
		ObjectStore string `json:"objectStore"`
	}
}

// Check probes the counter store and the object store bucket.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = "healthy"
	resp.Body.ObjectStore = "healthy"

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	}

	if err := h.bucket.Ping(ctx); err != nil {
		resp.Body.ObjectStore = "unhealthy"
		resp.Body.Status = "degraded"
	}

	return resp, nil
}
