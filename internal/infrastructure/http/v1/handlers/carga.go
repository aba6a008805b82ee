package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/carga"
	"comexa/internal/infrastructure/http/v1/dto"
)

// CargaHandler serves the shipment tracking endpoints.
type CargaHandler struct {
	*BaseHandler
	service *carga.Service
}

// NewCargaHandler creates a carga handler.
func NewCargaHandler(base *BaseHandler, service *carga.Service) *CargaHandler {
	return &CargaHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the nested and top-level carga endpoints.
func (h *CargaHandler) RegisterRoutes(despachos, cargas *gin.RouterGroup) {
	despachos.POST("/:id/cargas", h.Create)
	despachos.GET("/:id/cargas", h.ListByDespacho)

	cargas.GET("/:id", h.Get)
	cargas.POST("/:id/transition", h.Transition)
	cargas.POST("/:id/avanzar", h.Advance)
	cargas.DELETE("/:id", h.Delete)
}

// Create registers a shipment for a despacho.
func (h *CargaHandler) Create(c *gin.Context) {
	var req dto.CreateCargaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := req.ToEntity(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), entity)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns one shipment.
func (h *CargaHandler) Get(c *gin.Context) {
	cargaID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), cargaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListByDespacho returns the shipments of a declaration.
func (h *CargaHandler) ListByDespacho(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	cargas, err := h.service.ListByDespacho(c.Request.Context(), despachoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cargas)
}

// Transition moves a shipment to an explicit target state.
func (h *CargaHandler) Transition(c *gin.Context) {
	cargaID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	var req dto.CargaTransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Transition(c.Request.Context(), cargaID, carga.Estado(req.Estado))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Advance moves a shipment to its single next state.
func (h *CargaHandler) Advance(c *gin.Context) {
	cargaID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	result, err := h.service.Advance(c.Request.Context(), cargaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Delete removes a shipment record.
func (h *CargaHandler) Delete(c *gin.Context) {
	cargaID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), cargaID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
