package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/despacho"
	"comexa/internal/infrastructure/http/v1/dto"
	"comexa/internal/infrastructure/storage/postgres"
)

// DespachoHandler serves the declaration lifecycle endpoints.
type DespachoHandler struct {
	*BaseHandler
	service *despacho.Service
	trail   *postgres.SeguimientoWriter
}

// NewDespachoHandler creates a despacho handler. trail may be nil when
// the timeline endpoint is disabled.
func NewDespachoHandler(base *BaseHandler, service *despacho.Service, trail *postgres.SeguimientoWriter) *DespachoHandler {
	return &DespachoHandler{BaseHandler: base, service: service, trail: trail}
}

// RegisterRoutes mounts the despacho endpoints on rg.
func (h *DespachoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/bulk-transition", h.BulkTransition)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/transition", h.Transition)
	rg.PUT("/:id/prioridad", h.SetPrioridad)
	rg.GET("/:id/seguimiento", h.Seguimiento)
}

// Create opens a new declaration.
func (h *DespachoHandler) Create(c *gin.Context) {
	var req dto.CreateDespachoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		h.Error(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), cmd)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Get returns one declaration with its joined client summary.
func (h *DespachoHandler) Get(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), despachoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// List returns declarations with filtering and pagination.
func (h *DespachoHandler) List(c *gin.Context) {
	var query dto.ListDespachosQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update replaces the mutable commercial data.
func (h *DespachoHandler) Update(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	var req dto.UpdateDespachoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.UpdateComercial(c.Request.Context(), despachoID, req.ToCommand())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Transition moves one declaration to a new lifecycle state.
func (h *DespachoHandler) Transition(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Transition(c.Request.Context(), despachoID, despacho.Estado(req.Estado))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// BulkTransition applies one transition to many declarations. Partial
// success is the normal outcome, reported per row.
func (h *DespachoHandler) BulkTransition(c *gin.Context) {
	var req dto.BulkTransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.BulkTransition(c.Request.Context(), ids, despacho.Estado(req.Estado))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// SetPrioridad changes the work-queue priority.
func (h *DespachoHandler) SetPrioridad(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	var req dto.SetPrioridadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.SetPrioridad(c.Request.Context(), despachoID, despacho.Prioridad(req.Prioridad))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Delete removes a declaration (soft when the store supports it).
func (h *DespachoHandler) Delete(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), despachoID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Seguimiento returns the audit trail of a declaration, newest first.
func (h *DespachoHandler) Seguimiento(c *gin.Context) {
	if h.trail == nil {
		h.Error(c, apperror.NewNotFound("seguimiento", c.Param("id")))
		return
	}

	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)
	entries, err := h.trail.History(c.Request.Context(), despachoID, limit)
	if err != nil {
		h.Error(c, apperror.NewDatabase("seguimiento history", err))
		return
	}
	h.OK(c, entries)
}
