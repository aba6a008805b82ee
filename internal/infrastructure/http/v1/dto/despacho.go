package dto

import (
	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain/despacho"
)

// CreateDespachoRequest opens a new declaration. The numero and estado
// are never accepted from the client.
type CreateDespachoRequest struct {
	Tipo          string  `json:"tipo" binding:"required"`
	DespachanteID string  `json:"despachanteId" binding:"required"`
	ClienteID     string  `json:"clienteId" binding:"required"`
	CarpetaID     *string `json:"carpetaId,omitempty"`

	ValorFOB              decimal.Decimal `json:"valorFob"`
	ValorCIF              decimal.Decimal `json:"valorCif"`
	Moneda                string          `json:"moneda"`
	PesoKg                decimal.Decimal `json:"pesoKg"`
	CantidadBultos        int             `json:"cantidadBultos"`
	ReferenciaCarga       string          `json:"referenciaCarga,omitempty"`
	PosicionArancelaria   string          `json:"posicionArancelaria,omitempty"`
	DescripcionMercaderia string          `json:"descripcionMercaderia,omitempty"`
	Prioridad             string          `json:"prioridad,omitempty"`
}

// ToCommand converts the request to the service command.
func (r *CreateDespachoRequest) ToCommand() (despacho.CreateDespacho, error) {
	despachanteID, ok := ParseID(r.DespachanteID)
	if !ok {
		return despacho.CreateDespacho{}, apperror.NewValidation("despachanteId is not a valid id").
			WithDetail("field", "despachanteId")
	}
	clienteID, ok := ParseID(r.ClienteID)
	if !ok {
		return despacho.CreateDespacho{}, apperror.NewValidation("clienteId is not a valid id").
			WithDetail("field", "clienteId")
	}
	carpetaID, ok := ParseOptionalID(r.CarpetaID)
	if !ok {
		return despacho.CreateDespacho{}, apperror.NewValidation("carpetaId is not a valid id").
			WithDetail("field", "carpetaId")
	}

	return despacho.CreateDespacho{
		Tipo:          despacho.Tipo(r.Tipo),
		DespachanteID: despachanteID,
		ClienteID:     clienteID,
		CarpetaID:     carpetaID,

		ValorFOB:              r.ValorFOB,
		ValorCIF:              r.ValorCIF,
		Moneda:                r.Moneda,
		PesoKg:                r.PesoKg,
		CantidadBultos:        r.CantidadBultos,
		ReferenciaCarga:       r.ReferenciaCarga,
		PosicionArancelaria:   r.PosicionArancelaria,
		DescripcionMercaderia: r.DescripcionMercaderia,
		Prioridad:             despacho.Prioridad(r.Prioridad),
	}, nil
}

// UpdateDespachoRequest replaces the mutable commercial data.
type UpdateDespachoRequest struct {
	ValorFOB              decimal.Decimal `json:"valorFob"`
	ValorCIF              decimal.Decimal `json:"valorCif"`
	Moneda                string          `json:"moneda"`
	PesoKg                decimal.Decimal `json:"pesoKg"`
	CantidadBultos        int             `json:"cantidadBultos"`
	ReferenciaCarga       string          `json:"referenciaCarga,omitempty"`
	PosicionArancelaria   string          `json:"posicionArancelaria,omitempty"`
	DescripcionMercaderia string          `json:"descripcionMercaderia,omitempty"`
}

// ToCommand converts the update to the (partial) service command.
func (r *UpdateDespachoRequest) ToCommand() despacho.CreateDespacho {
	return despacho.CreateDespacho{
		ValorFOB:              r.ValorFOB,
		ValorCIF:              r.ValorCIF,
		Moneda:                r.Moneda,
		PesoKg:                r.PesoKg,
		CantidadBultos:        r.CantidadBultos,
		ReferenciaCarga:       r.ReferenciaCarga,
		PosicionArancelaria:   r.PosicionArancelaria,
		DescripcionMercaderia: r.DescripcionMercaderia,
	}
}

// TransitionRequest moves a declaration to a new state.
type TransitionRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// BulkTransitionRequest applies the same transition to many rows.
type BulkTransitionRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Estado string   `json:"estado" binding:"required"`
}

// ParseIDs converts the raw id strings, rejecting garbage up front.
func (r *BulkTransitionRequest) ParseIDs() ([]id.ID, error) {
	ids := make([]id.ID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		parsed, ok := ParseID(raw)
		if !ok {
			return nil, apperror.NewValidation("ids contains a value that is not a valid id").
				WithDetail("value", raw)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}

// SetPrioridadRequest changes the work-queue priority.
type SetPrioridadRequest struct {
	Prioridad string `json:"prioridad" binding:"required"`
}

// ListDespachosQuery binds the listing query string.
type ListDespachosQuery struct {
	DespachanteID  string `form:"despachanteId"`
	ClienteID      string `form:"clienteId"`
	Estado         string `form:"estado"`
	Tipo           string `form:"tipo"`
	Prioridad      string `form:"prioridad"`
	Search         string `form:"search"`
	DateFrom       string `form:"dateFrom"`
	DateTo         string `form:"dateTo"`
	IncludeDeleted bool   `form:"includeDeleted"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// ToFilter converts the query to the repository filter.
func (q *ListDespachosQuery) ToFilter() (despacho.ListFilter, error) {
	filter := despacho.DefaultListFilter()
	filter.Search = q.Search
	filter.IncludeDeleted = q.IncludeDeleted
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset

	var parseErr error
	bindID := func(raw, field string) *id.ID {
		if raw == "" {
			return nil
		}
		parsed, ok := ParseID(raw)
		if !ok {
			parseErr = apperror.NewValidation(field + " is not a valid id").
				WithDetail("field", field)
			return nil
		}
		return &parsed
	}

	filter.DespachanteID = bindID(q.DespachanteID, "despachanteId")
	filter.ClienteID = bindID(q.ClienteID, "clienteId")
	if parseErr != nil {
		return filter, parseErr
	}

	if q.Estado != "" {
		estado := despacho.Estado(q.Estado)
		if !estado.Valid() {
			return filter, apperror.NewValidation("estado is not valid").
				WithDetail("field", "estado").
				WithDetail("value", q.Estado)
		}
		filter.Estado = &estado
	}
	if q.Tipo != "" {
		tipo := despacho.Tipo(q.Tipo)
		if !tipo.Valid() {
			return filter, apperror.NewValidation("tipo is not valid").
				WithDetail("field", "tipo")
		}
		filter.Tipo = &tipo
	}
	if q.Prioridad != "" {
		prioridad := despacho.Prioridad(q.Prioridad)
		if !prioridad.Valid() {
			return filter, apperror.NewValidation("prioridad is not valid").
				WithDetail("field", "prioridad")
		}
		filter.Prioridad = &prioridad
	}

	var ok bool
	if filter.DateFrom, ok = ParseDate(q.DateFrom); !ok {
		return filter, apperror.NewValidation("dateFrom is not a valid date").
			WithDetail("field", "dateFrom")
	}
	if filter.DateTo, ok = ParseDate(q.DateTo); !ok {
		return filter, apperror.NewValidation("dateTo is not a valid date").
			WithDetail("field", "dateTo")
	}

	return filter, nil
}
