package handlers

import (
	"github.com/gin-gonic/gin"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/reports"
	"comexa/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the dashboard endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the report endpoints on rg.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
}

// Dashboard returns the operational counters, computed at call time.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	var filter reports.DashboardFilter

	if raw := c.Query("despachanteId"); raw != "" {
		despachanteID, ok := dto.ParseID(raw)
		if !ok {
			h.Error(c, apperror.NewValidation("despachanteId is not a valid id").
				WithDetail("field", "despachanteId"))
			return
		}
		filter.DespachanteID = &despachanteID
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dashboard)
}
