package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type Handler struct {
	checks  map[string]repository.Pinger
	gateway string
	timeout time.Duration
}

// NewHandler reports readiness from the given dependencies; an empty map
// means the service is ready as soon as it is up.
func NewHandler(gateway string, checks map[string]repository.Pinger) *Handler {
	return &Handler{
		checks:  checks,
		gateway: gateway,
		timeout: 2 * time.Second,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health/live", h.LivenessCheck)
	r.GET("/health/ready", h.ReadinessCheck)
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"gateway": h.gateway,
			"failed":  failed,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "gateway": h.gateway})
}
