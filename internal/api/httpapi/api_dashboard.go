package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/dashboard/summary
func (h *Handler) DashboardSummary(ctx *gin.Context) {
	summary, err := h.DashboardService.Summary(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GET /api/dashboard/patients-over-time
func (h *Handler) PatientsOverTime(ctx *gin.Context) {
	points, err := h.DashboardService.PatientsOverTime(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, points)
}

// GET /api/dashboard/age-distribution
func (h *Handler) AgeDistribution(ctx *gin.Context) {
	groups, err := h.DashboardService.AgeDistribution(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, groups)
}
