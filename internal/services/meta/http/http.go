// Package http provides meta endpoints
package http

import (
	stdctx "context"
	stdhttp "net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"meridian/internal/core/version"
	"meridian/internal/modkit/httpkit"
	ptime "meridian/internal/platform/time"
)

const checkTimeout = 2500 * time.Millisecond

// Deps are the handler dependencies
// empty PostgresURL or RedisURL marks that check skipped
type Deps struct {
	ServiceName string
	Environment string
	StartedAt   time.Time
	PostgresURL string
	RedisURL    string
}

// Check describes one dependency probe
type Check struct {
	Status    string   `json:"status"` // ok error skipped
	Detail    string   `json:"detail"`
	LatencyMs *float64 `json:"latency_ms"`
}

// HealthResponse summarizes service health and dependency probes
type HealthResponse struct {
	Status      string           `json:"status"` // ok degraded
	Service     string           `json:"service"`
	Environment string           `json:"environment"`
	Timestamp   string           `json:"timestamp"`
	Checks      map[string]Check `json:"checks"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// Register mounts the meta routes
func Register(r httpkit.Router, deps Deps) {
	h := &handlers{deps: deps}
	r.Get("/health", HealthHandler(deps))
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthHandler builds the health probe handler, exported so the root router
// can expose the same endpoint outside the versioned API
func HealthHandler(deps Deps) httpkit.Handler {
	h := &handlers{deps: deps}
	return httpkit.Handle(h.health)
}

type handlers struct {
	deps Deps
}

func (h *handlers) health(r *stdhttp.Request) httpkit.Response {
	ctx := r.Context()

	checks := map[string]Check{
		"api":      okCheck("service operational"),
		"postgres": checkPostgres(ctx, h.deps.PostgresURL),
		"redis":    checkRedis(ctx, h.deps.RedisURL),
	}

	overall := "ok"
	status := stdhttp.StatusOK
	for _, c := range checks {
		if c.Status == "error" {
			overall = "degraded"
			status = stdhttp.StatusServiceUnavailable
			break
		}
	}

	return httpkit.Response{Status: status, Body: HealthResponse{
		Status:      overall,
		Service:     h.deps.ServiceName,
		Environment: h.deps.Environment,
		Timestamp:   ptime.NowRFC3339(),
		Checks:      checks,
	}}
}

func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *stdhttp.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: ptime.RFC3339(h.deps.StartedAt),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

func okCheck(detail string) Check {
	zero := 0.0
	return Check{Status: "ok", Detail: detail, LatencyMs: &zero}
}

func skippedCheck(detail string) Check {
	return Check{Status: "skipped", Detail: detail}
}

func elapsedMs(started time.Time) *float64 {
	ms := float64(time.Since(started).Microseconds()) / 1000
	return &ms
}

func checkPostgres(ctx stdctx.Context, url string) Check {
	if url == "" {
		return skippedCheck("SERVICE_PGSQL_DBURL not configured")
	}

	ctx, cancel := stdctx.WithTimeout(ctx, checkTimeout)
	defer cancel()

	started := time.Now()
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return Check{Status: "error", Detail: err.Error(), LatencyMs: elapsedMs(started)}
	}
	defer func() { _ = conn.Close(ctx) }()

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return Check{Status: "error", Detail: err.Error(), LatencyMs: elapsedMs(started)}
	}
	return Check{Status: "ok", Detail: "postgres reachable", LatencyMs: elapsedMs(started)}
}

func checkRedis(ctx stdctx.Context, url string) Check {
	if url == "" {
		return skippedCheck("SERVICE_REDIS_URL not configured")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return Check{Status: "error", Detail: err.Error(), LatencyMs: nil}
	}

	ctx, cancel := stdctx.WithTimeout(ctx, checkTimeout)
	defer cancel()

	started := time.Now()
	client := redis.NewClient(opts)
	defer func() { _ = client.Close() }()

	if err := client.Ping(ctx).Err(); err != nil {
		return Check{Status: "error", Detail: err.Error(), LatencyMs: elapsedMs(started)}
	}
	return Check{Status: "ok", Detail: "redis reachable", LatencyMs: elapsedMs(started)}
}
