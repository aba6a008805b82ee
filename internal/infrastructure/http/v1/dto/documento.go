package dto

import (
	"comexa/internal/core/apperror"
	"comexa/internal/domain/documento"
)

// CreateDocumentoRequest adds a checklist entry to a despacho.
type CreateDocumentoRequest struct {
	Nombre        string `json:"nombre" binding:"required"`
	Requerido     bool   `json:"requerido"`
	Observaciones string `json:"observaciones,omitempty"`
}

// ToEntity converts the request to a new checklist entry.
func (r *CreateDocumentoRequest) ToEntity(despachoID string) (*documento.Documento, error) {
	parsed, ok := ParseID(despachoID)
	if !ok {
		return nil, apperror.NewValidation("despacho id is not valid").
			WithDetail("field", "despachoId")
	}

	d := documento.New(parsed, r.Nombre, r.Requerido)
	d.Observaciones = r.Observaciones
	return d, nil
}

// AttachDocumentoRequest records the uploaded file reference.
type AttachDocumentoRequest struct {
	ArchivoURL    string `json:"archivoUrl" binding:"required"`
	ArchivoNombre string `json:"archivoNombre" binding:"required"`
}
