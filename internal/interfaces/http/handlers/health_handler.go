package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version    string
	startedAt  time.Time
	components map[string]Pinger
}

// NewHealthHandler builds the handler.  components maps a component name to
// its reachability check; pass nil entries for components that are disabled.
func NewHealthHandler(version string, components map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version:    version,
		startedAt:  time.Now(),
		components: components,
	}
}

// Liveness handles GET /healthz.  It answers 200 whenever the process is
// able to serve requests at all.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  Each registered component is pinged with a
// short deadline; any failure flips the response to 503 while still listing
// per-component state.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.components))
	for name, p := range h.components {
		if p == nil {
			components[name] = "disabled"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			components[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	body := gin.H{"status": "ok", "components": components}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

//Personal.AI order the ending
