package handler

import (
	"net/http"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

// Dashboard godoc
// @Summary Dashboard totals
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
