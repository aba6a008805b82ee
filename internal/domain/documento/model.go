// Package documento provides the per-despacho document checklist with
// its one-click review cycle.
package documento

import (
	"context"
	"time"

	"comexa/internal/core/apperror"
	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

// Estado is the review state of a checklist entry.
type Estado string

const (
	EstadoPendiente Estado = "pendiente"
	EstadoCargado   Estado = "cargado"
	EstadoAprobado  Estado = "aprobado"
	EstadoRechazado Estado = "rechazado"
)

// ciclo is the deterministic review cycle used for one-click toggling:
// pendiente → cargado → aprobado → rechazado → pendiente. Every state
// has exactly one successor; the cycle wraps so a mis-click is always
// recoverable by clicking through.
var ciclo = map[Estado]Estado{
	EstadoPendiente: EstadoCargado,
	EstadoCargado:   EstadoAprobado,
	EstadoAprobado:  EstadoRechazado,
	EstadoRechazado: EstadoPendiente,
}

// Next returns the deterministic successor of e. Unknown values are
// treated as pendiente, so a fresh or legacy row advances to cargado.
func Next(e Estado) Estado {
	if n, ok := ciclo[e]; ok {
		return n
	}
	return ciclo[EstadoPendiente]
}

// Valid reports whether e is a known estado.
func (e Estado) Valid() bool {
	_, ok := ciclo[e]
	return ok
}

// Documento is one checklist entry for a despacho, with an attachment
// slot. The upload itself lives in the storage collaborator; the engine
// only keeps the reference.
type Documento struct {
	entity.BaseRecord

	DespachoID id.ID  `db:"despacho_id" json:"despachoId"`
	Nombre     string `db:"nombre" json:"nombre"`
	Requerido  bool   `db:"requerido" json:"requerido"`
	Estado     Estado `db:"estado" json:"estado"`

	// Attachment slot
	ArchivoURL    string     `db:"archivo_url" json:"archivoUrl,omitempty"`
	ArchivoNombre string     `db:"archivo_nombre" json:"archivoNombre,omitempty"`
	FechaCarga    *time.Time `db:"fecha_carga" json:"fechaCarga,omitempty"`

	Observaciones string `db:"observaciones" json:"observaciones,omitempty"`
}

// New creates a pending checklist entry.
func New(despachoID id.ID, nombre string, requerido bool) *Documento {
	return &Documento{
		BaseRecord: entity.NewBaseRecord(),
		DespachoID: despachoID,
		Nombre:     nombre,
		Requerido:  requerido,
		Estado:     EstadoPendiente,
	}
}

// Validate implements entity.Validatable.
func (d *Documento) Validate(ctx context.Context) error {
	if id.IsNil(d.DespachoID) {
		return apperror.NewValidation("despacho is required").
			WithDetail("field", "despachoId")
	}
	if d.Nombre == "" {
		return apperror.NewValidation("nombre is required").
			WithDetail("field", "nombre")
	}
	return nil
}

// Advance moves the entry to its deterministic next review state.
// Entering cargado stamps the upload date once.
func (d *Documento) Advance(hoy time.Time) {
	d.Estado = Next(d.Estado)
	if d.Estado == EstadoCargado && d.FechaCarga == nil {
		d.FechaCarga = &hoy
	}
}
