package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/crm-retention/internal/pkg/httputil"
)

// HealthStatus is the overall health of the service.
type HealthStatus struct {
	Status string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Uptime string                    `json:"uptime"`
	Checks map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"`            // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

const notConfigured = "not configured"

// HealthChecker checks the service's dependencies. Any of them may be nil.
type HealthChecker struct {
	db          *sql.DB
	redisClient *redis.Client
	protected   ProtectedList
	startTime   time.Time
}

// NewHealthChecker creates a HealthChecker.
func NewHealthChecker(db *sql.DB, redisClient *redis.Client, protected ProtectedList) *HealthChecker {
	return &HealthChecker{
		db:          db,
		redisClient: redisClient,
		protected:   protected,
		startTime:   time.Now(),
	}
}

// HealthCheck reports dependency status. It always answers 200; the body
// carries the verdict.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		httputil.OK(w, map[string]string{"status": "healthy"})
		return
	}
	checks := h.health.runAllChecks(r.Context())
	httputil.OK(w, HealthStatus{
		Status: determineOverallStatus(checks),
		Uptime: formatUptime(time.Since(h.health.startTime)),
		Checks: checks,
	})
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	type result struct {
		name  string
		check ComponentCheck
	}
	ch := make(chan result, 3)

	go func() { ch <- result{"database", hc.checkDatabase(ctx)} }()
	go func() { ch <- result{"redis", hc.checkRedis(ctx)} }()
	go func() { ch <- result{"protected_list", hc.checkProtected(ctx)} }()

	checks := make(map[string]ComponentCheck, 3)
	for i := 0; i < 3; i++ {
		r := <-ch
		checks[r.name] = r.check
	}
	return checks
}

func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.db == nil {
		return ComponentCheck{Status: "down", Message: notConfigured}
	}
	return timedPing(ctx, 3*time.Second, time.Second, hc.db.PingContext)
}

func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if hc.redisClient == nil {
		return ComponentCheck{Status: "down", Message: notConfigured}
	}
	return timedPing(ctx, 2*time.Second, 500*time.Millisecond, func(ctx context.Context) error {
		return hc.redisClient.Ping(ctx).Err()
	})
}

// checkProtected is degraded when the list is empty: every eligible contact
// would then be proposed for cleanup.
func (hc *HealthChecker) checkProtected(ctx context.Context) ComponentCheck {
	if hc.protected == nil {
		return ComponentCheck{Status: "down", Message: notConfigured}
	}
	n, err := hc.protected.Count(ctx)
	if err != nil {
		return ComponentCheck{Status: "down", Message: fmt.Sprintf("count failed: %v", err)}
	}
	if n == 0 {
		return ComponentCheck{Status: "degraded", Message: "protected list is empty"}
	}
	return ComponentCheck{Status: "up", Message: fmt.Sprintf("%d addresses", n)}
}

func timedPing(ctx context.Context, timeout, slow time.Duration, ping func(context.Context) error) ComponentCheck {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := ping(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	if latency > slow {
		return ComponentCheck{
			Status:  "degraded",
			Latency: latency.String(),
			Message: fmt.Sprintf("slow response (%s)", latency),
		}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: "connected"}
}

// determineOverallStatus is "unhealthy" when a configured database is down,
// "degraded" when anything else configured is down or degraded, and
// "healthy" otherwise.
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if db, ok := checks["database"]; ok && db.Status == "down" && db.Message != notConfigured {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status == "degraded" {
			return "degraded"
		}
		if c.Status == "down" && c.Message != notConfigured {
			return "degraded"
		}
	}
	return "healthy"
}

// formatUptime renders d like "3d 4h 12m 5s".
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
