package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/documento"
	"comexa/internal/infrastructure/http/v1/dto"
)

// DocumentoHandler serves the document checklist endpoints.
type DocumentoHandler struct {
	*BaseHandler
	service *documento.Service
}

// NewDocumentoHandler creates a documento handler.
func NewDocumentoHandler(base *BaseHandler, service *documento.Service) *DocumentoHandler {
	return &DocumentoHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the nested and top-level documento endpoints.
func (h *DocumentoHandler) RegisterRoutes(despachos, documentos *gin.RouterGroup) {
	despachos.POST("/:id/documentos", h.Create)
	despachos.GET("/:id/documentos", h.ListByDespacho)

	documentos.GET("/:id", h.Get)
	documentos.POST("/:id/avanzar", h.Advance)
	documentos.POST("/:id/archivo", h.Attach)
	documentos.DELETE("/:id", h.Delete)
}

// Create adds a checklist entry to a despacho.
func (h *DocumentoHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentoRequest
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

// Get returns one checklist entry.
func (h *DocumentoHandler) Get(c *gin.Context) {
	docID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// ListByDespacho returns the checklist of a declaration.
func (h *DocumentoHandler) ListByDespacho(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	docs, err := h.service.ListByDespacho(c.Request.Context(), despachoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, docs)
}

// Advance applies the one-click review cycle to an entry.
func (h *DocumentoHandler) Advance(c *gin.Context) {
	docID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	d, err := h.service.Advance(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Attach records the uploaded file reference on the entry.
func (h *DocumentoHandler) Attach(c *gin.Context) {
	docID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	var req dto.AttachDocumentoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Attach(c.Request.Context(), docID, req.ArchivoURL, req.ArchivoNombre)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Delete removes a checklist entry.
func (h *DocumentoHandler) Delete(c *gin.Context) {
	docID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
