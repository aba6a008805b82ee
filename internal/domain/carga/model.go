// Package carga provides the shipment (carga) tracking entity and its
// strictly linear logistics lifecycle.
package carga

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

// Modo is the transport mode of a shipment.
type Modo string

const (
	ModoMaritimo   Modo = "maritimo"
	ModoAereo      Modo = "aereo"
	ModoTerrestre  Modo = "terrestre"
	ModoMultimodal Modo = "multimodal"
)

// Valid reports whether m is a known transport mode.
func (m Modo) Valid() bool {
	switch m {
	case ModoMaritimo, ModoAereo, ModoTerrestre, ModoMultimodal:
		return true
	}
	return false
}

// Estado is the logistics state of a shipment.
type Estado string

const (
	EstadoEnOrigen       Estado = "en_origen"
	EstadoEnTransito     Estado = "en_transito"
	EstadoEnPuerto       Estado = "en_puerto"
	EstadoDepositoFiscal Estado = "deposito_fiscal"
	EstadoEnVerificacion Estado = "en_verificacion"
	EstadoLiberado       Estado = "liberado"
)

// siguiente is the strictly linear chain: exactly one successor per
// state, liberado has none.
var siguiente = map[Estado]Estado{
	EstadoEnOrigen:       EstadoEnTransito,
	EstadoEnTransito:     EstadoEnPuerto,
	EstadoEnPuerto:       EstadoDepositoFiscal,
	EstadoDepositoFiscal: EstadoEnVerificacion,
	EstadoEnVerificacion: EstadoLiberado,
}

// Valid reports whether e is a known estado.
func (e Estado) Valid() bool {
	if e == EstadoLiberado {
		return true
	}
	_, ok := siguiente[e]
	return ok
}

// Next returns the single allowed successor, ok=false on the terminal state.
func (e Estado) Next() (Estado, bool) {
	n, ok := siguiente[e]
	return n, ok
}

// CanTransition reports whether from -> to is the legal linear step.
func CanTransition(from, to Estado) bool {
	n, ok := siguiente[from]
	return ok && n == to
}

// Carga is one shipment/transport unit linked to a despacho.
type Carga struct {
	entity.BaseRecord

	DespachoID id.ID  `db:"despacho_id" json:"despachoId"`
	Modo       Modo   `db:"modo" json:"modo"`
	Estado     Estado `db:"estado" json:"estado"`

	// Carrier identifiers
	Contenedor    string `db:"contenedor" json:"contenedor,omitempty"`
	Conocimiento  string `db:"conocimiento" json:"conocimiento,omitempty"` // B/L or AWB
	Booking       string `db:"booking" json:"booking,omitempty"`
	Transportista string `db:"transportista" json:"transportista,omitempty"`

	PesoKg decimal.Decimal `db:"peso_kg" json:"pesoKg"`
	Bultos int             `db:"bultos" json:"bultos"`

	// Mode-specific dates
	FechaEmbarque       *time.Time `db:"fecha_embarque" json:"fechaEmbarque,omitempty"`
	FechaArriboEstimada *time.Time `db:"fecha_arribo_estimada" json:"fechaArriboEstimada,omitempty"`

	// Lifecycle stamps, set once by their transition.
	FechaArriboReal      *time.Time `db:"fecha_arribo_real" json:"fechaArriboReal,omitempty"`
	FechaIngresoDeposito *time.Time `db:"fecha_ingreso_deposito" json:"fechaIngresoDeposito,omitempty"`
	FechaLiberacion      *time.Time `db:"fecha_liberacion" json:"fechaLiberacion,omitempty"`
}

// New creates a carga in origin state.
func New(despachoID id.ID, modo Modo) *Carga {
	return &Carga{
		BaseRecord: entity.NewBaseRecord(),
		DespachoID: despachoID,
		Modo:       modo,
		Estado:     EstadoEnOrigen,
	}
}

// Validate implements entity.Validatable.
func (c *Carga) Validate(ctx context.Context) error {
	if id.IsNil(c.DespachoID) {
		return apperror.NewValidation("despacho is required").
			WithDetail("field", "despachoId")
	}
	if !c.Modo.Valid() {
		return apperror.NewValidation("modo de transporte is not valid").
			WithDetail("field", "modo")
	}
	if c.PesoKg.IsNegative() {
		return apperror.NewValidation("peso cannot be negative").
			WithDetail("field", "pesoKg")
	}
	return nil
}

// Transition moves c to target along the linear chain, stamping the
// arrival, warehouse-entry and release dates once.
func (c *Carga) Transition(target Estado, hoy time.Time) error {
	if !target.Valid() {
		return apperror.NewValidation("unknown estado").
			WithDetail("field", "estado").
			WithDetail("value", string(target))
	}
	if !CanTransition(c.Estado, target) {
		var allowed []string
		if n, ok := c.Estado.Next(); ok {
			allowed = append(allowed, string(n))
		}
		return apperror.NewInvalidTransition("carga", string(c.Estado), string(target), allowed)
	}

	switch target {
	case EstadoEnPuerto:
		if c.FechaArriboReal == nil {
			c.FechaArriboReal = &hoy
		}
	case EstadoDepositoFiscal:
		if c.FechaIngresoDeposito == nil {
			c.FechaIngresoDeposito = &hoy
		}
	case EstadoLiberado:
		if c.FechaLiberacion == nil {
			c.FechaLiberacion = &hoy
		}
	}

	c.Estado = target
	return nil
}
