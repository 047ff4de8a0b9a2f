package api

import (
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Show renders the counters; a count that failed reads zero and a notice is shown.
func (h *DashboardHandler) Show(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	errMsg := ""
	if err != nil {
		errMsg = listFailed(c, "statistics", err)
	}
	render(c, http.StatusOK, "dashboard.html", "Dashboard", stats, errMsg)
}
