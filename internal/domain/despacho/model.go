// Package despacho provides the customs declaration (despacho) lifecycle engine.
package despacho

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

// Tipo classifies the clearance direction. Fixed at creation.
type Tipo string

const (
	TipoImportacion Tipo = "importacion"
	TipoExportacion Tipo = "exportacion"
)

// Valid reports whether t is a known tipo.
func (t Tipo) Valid() bool {
	return t == TipoImportacion || t == TipoExportacion
}

// Prioridad orders the work queue. Mutable, never affects the lifecycle.
type Prioridad string

const (
	PrioridadBaja    Prioridad = "baja"
	PrioridadNormal  Prioridad = "normal"
	PrioridadAlta    Prioridad = "alta"
	PrioridadUrgente Prioridad = "urgente"
)

// Valid reports whether p is a known prioridad.
func (p Prioridad) Valid() bool {
	switch p {
	case PrioridadBaja, PrioridadNormal, PrioridadAlta, PrioridadUrgente:
		return true
	}
	return false
}

// Despacho is one customs clearance operation.
type Despacho struct {
	entity.BaseRecord

	// NumeroDespacho is the human identifier (DESP-2025-0007).
	// Unique, immutable once assigned.
	NumeroDespacho string `db:"numero_despacho" json:"numeroDespacho"`

	Tipo      Tipo      `db:"tipo" json:"tipo"`
	Estado    Estado    `db:"estado" json:"estado"`
	Prioridad Prioridad `db:"prioridad" json:"prioridad"`

	// Ownership
	DespachanteID id.ID  `db:"despachante_id" json:"despachanteId"`
	ClienteID     id.ID  `db:"cliente_id" json:"clienteId"`
	CarpetaID     *id.ID `db:"carpeta_id" json:"carpetaId,omitempty"`

	// Commercial data. Mutable, audit-free.
	ValorFOB              decimal.Decimal `db:"valor_fob" json:"valorFob"`
	ValorCIF              decimal.Decimal `db:"valor_cif" json:"valorCif"`
	Moneda                string          `db:"moneda" json:"moneda"`
	PesoKg                decimal.Decimal `db:"peso_kg" json:"pesoKg"`
	CantidadBultos        int             `db:"cantidad_bultos" json:"cantidadBultos"`
	ReferenciaCarga       string          `db:"referencia_carga" json:"referenciaCarga,omitempty"`
	PosicionArancelaria   string          `db:"posicion_arancelaria" json:"posicionArancelaria,omitempty"`
	DescripcionMercaderia string          `db:"descripcion_mercaderia" json:"descripcionMercaderia,omitempty"`

	// Lifecycle timestamps. Each is set exactly once by its transition;
	// the canal date is the single exception (re-entering a canal_*
	// state refreshes it).
	FechaPresentacion   *time.Time `db:"fecha_presentacion" json:"fechaPresentacion,omitempty"`
	FechaOficializacion *time.Time `db:"fecha_oficializacion" json:"fechaOficializacion,omitempty"`
	FechaCanal          *time.Time `db:"fecha_canal" json:"fechaCanal,omitempty"`
	FechaLiberacion     *time.Time `db:"fecha_liberacion" json:"fechaLiberacion,omitempty"`

	// ClienteNombre is the joined client summary, filled on reads only.
	ClienteNombre string `db:"cliente_nombre" json:"clienteNombre,omitempty"`
}

// New creates a despacho in its initial state. The numero is assigned
// by the service during Create, never by the caller.
func New(tipo Tipo, despachanteID, clienteID id.ID) *Despacho {
	return &Despacho{
		BaseRecord: entity.NewBaseRecord(),
		Tipo:       tipo,
		Estado:     EstadoEnPreparacion,
		Prioridad:  PrioridadNormal,

		DespachanteID: despachanteID,
		ClienteID:     clienteID,
	}
}

// Validate implements entity.Validatable.
func (d *Despacho) Validate(ctx context.Context) error {
	if !d.Tipo.Valid() {
		return apperror.NewValidation("tipo must be importacion or exportacion").
			WithDetail("field", "tipo")
	}
	if id.IsNil(d.ClienteID) {
		return apperror.NewValidation("cliente is required").
			WithDetail("field", "clienteId")
	}
	if id.IsNil(d.DespachanteID) {
		return apperror.NewValidation("despachante is required").
			WithDetail("field", "despachanteId")
	}
	if !d.Prioridad.Valid() {
		return apperror.NewValidation("prioridad is not valid").
			WithDetail("field", "prioridad")
	}
	if d.ValorFOB.IsNegative() || d.ValorCIF.IsNegative() {
		return apperror.NewValidation("customs values cannot be negative").
			WithDetail("field", "valorFob")
	}
	return nil
}
