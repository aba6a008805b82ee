package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/carga"
)

// CreateCargaRequest registers a shipment for a despacho.
type CreateCargaRequest struct {
	Modo string `json:"modo" binding:"required"`

	Contenedor    string `json:"contenedor,omitempty"`
	Conocimiento  string `json:"conocimiento,omitempty"`
	Booking       string `json:"booking,omitempty"`
	Transportista string `json:"transportista,omitempty"`

	PesoKg decimal.Decimal `json:"pesoKg"`
	Bultos int             `json:"bultos"`

	FechaEmbarque       *time.Time `json:"fechaEmbarque,omitempty"`
	FechaArriboEstimada *time.Time `json:"fechaArriboEstimada,omitempty"`
}

// ToEntity converts the request to a new carga for the despacho.
func (r *CreateCargaRequest) ToEntity(despachoID string) (*carga.Carga, error) {
	parsed, ok := ParseID(despachoID)
	if !ok {
		return nil, apperror.NewValidation("despacho id is not valid").
			WithDetail("field", "despachoId")
	}

	c := carga.New(parsed, carga.Modo(r.Modo))
	c.Contenedor = r.Contenedor
	c.Conocimiento = r.Conocimiento
	c.Booking = r.Booking
	c.Transportista = r.Transportista
	c.PesoKg = r.PesoKg
	c.Bultos = r.Bultos
	c.FechaEmbarque = r.FechaEmbarque
	c.FechaArriboEstimada = r.FechaArriboEstimada
	return c, nil
}

// CargaTransitionRequest moves a shipment along its chain.
type CargaTransitionRequest struct {
	Estado string `json:"estado" binding:"required"`
}
