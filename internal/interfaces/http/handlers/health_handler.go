package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

const readinessTimeout = 5 * time.Second

// HealthChecker reports the health of one dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// NamedCheck adapts a plain function to the HealthChecker interface.
type NamedCheck struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (n NamedCheck) Name() string                    { return n.CheckName }
func (n NamedCheck) Check(ctx context.Context) error { return n.Fn(ctx) }

// HealthHandler serves the Kubernetes liveness and readiness probes.
type HealthHandler struct {
	checkers   []HealthChecker
	appMetrics *metrics.AppMetrics
	version    string
	startAt    time.Time
}

// NewHealthHandler creates a HealthHandler over the given dependency checks.
func NewHealthHandler(version string, appMetrics *metrics.AppMetrics, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers:   checkers,
		appMetrics: appMetrics,
		version:    version,
		startAt:    time.Now(),
	}
}

// LivenessResponse is the payload for GET /healthz.
type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
}

// ReadinessResponse is the payload for GET /readyz.
type ReadinessResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Liveness handles GET /healthz. It only confirms the process is running and
// never consults external dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz. Every registered dependency is checked
// concurrently; any failure turns the probe into a 503 so load balancers
// stop routing traffic here until the dependency recovers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := h.checkAll(ctx)

	status := common.HealthUp
	code := http.StatusOK
	for _, comp := range components {
		if comp.Status != common.HealthUp {
			status = common.HealthDown
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, ReadinessResponse{Status: status, Components: components})
}

// checkAll runs every checker concurrently and publishes the results to the
// health gauge. Output order matches registration order so probe responses
// stay diffable.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	components := make([]common.ComponentHealth, len(h.checkers))

	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(slot int, chk HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := chk.Check(ctx)
			latency := time.Since(start)

			comp := common.ComponentHealth{
				Name:    chk.Name(),
				Status:  common.HealthUp,
				Latency: latency,
			}
			if err != nil {
				comp.Status = common.HealthDown
				comp.Message = err.Error()
			}
			metrics.SetHealthStatus(h.appMetrics, chk.Name(), err == nil)

			components[slot] = comp
		}(i, checker)
	}
	wg.Wait()

	return components
}

//Personal.AI order the ending
