package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain/liquidacion"
	"comexa/internal/infrastructure/http/v1/dto"
)

// LiquidacionHandler serves the duty liquidation endpoints.
type LiquidacionHandler struct {
	*BaseHandler
	service *liquidacion.Service
}

// NewLiquidacionHandler creates a liquidacion handler.
func NewLiquidacionHandler(base *BaseHandler, service *liquidacion.Service) *LiquidacionHandler {
	return &LiquidacionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the nested and top-level liquidation endpoints.
func (h *LiquidacionHandler) RegisterRoutes(despachos, liquidaciones *gin.RouterGroup) {
	despachos.POST("/:id/liquidaciones", h.Record)
	despachos.GET("/:id/liquidaciones", h.ListByDespacho)
	despachos.POST("/:id/liquidaciones/simular", h.Simular)

	liquidaciones.GET("/:id", h.Get)
	liquidaciones.POST("/:id/confirmar", h.Confirm)
	liquidaciones.POST("/:id/pagar", h.MarkPaid)
}

// Record computes and persists a liquidation revision.
func (h *LiquidacionHandler) Record(c *gin.Context) {
	var req dto.RecordLiquidacionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, err := req.ToCommand(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	l, err := h.service.Record(c.Request.Context(), cmd)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// Simular runs the calculator without persisting anything. Used by the
// UI to preview duties while the broker edits the inputs.
func (h *LiquidacionHandler) Simular(c *gin.Context) {
	var req dto.SimularLiquidacionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, err := req.ToCommand(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if !cmd.TipoCambio.IsPositive() {
		h.Error(c, apperror.NewValidation("tipo de cambio must be positive").
			WithDetail("field", "tipoCambio"))
		return
	}

	h.OK(c, liquidacion.Calculate(cmd.ValorAduana, cmd.TipoCambio, cmd.Rates))
}

// Get returns one liquidation.
func (h *LiquidacionHandler) Get(c *gin.Context) {
	liqID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), liqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, l)
}

// ListByDespacho returns all revisions for a declaration.
func (h *LiquidacionHandler) ListByDespacho(c *gin.Context) {
	despachoID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	liqs, err := h.service.ListByDespacho(c.Request.Context(), despachoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, liqs)
}

// Confirm advances borrador a confirmado.
func (h *LiquidacionHandler) Confirm(c *gin.Context) {
	h.advance(c, h.service.Confirm)
}

// MarkPaid advances confirmado a pagado.
func (h *LiquidacionHandler) MarkPaid(c *gin.Context) {
	h.advance(c, h.service.MarkPaid)
}

func (h *LiquidacionHandler) advance(c *gin.Context, fn func(context.Context, id.ID) (*liquidacion.Liquidacion, error)) {
	liqID, ok := dto.ParseID(c.Param("id"))
	if !ok {
		h.Error(c, apperror.NewValidation("id is not valid"))
		return
	}

	l, err := fn(c.Request.Context(), liqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, l)
}
