package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/outputs"
	"github.com/nulzo/hub-proxy/internal/version"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health reports process liveness. It deliberately never probes the upstream
// catalog: orchestrators poll this with tight intervals and a dead upstream
// must not get the process restarted.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, outputs.Health{
		Status:  "healthy",
		Version: version.Version,
	})
}
