package liquidacion

import (
	"context"

	"comexa/internal/core/id"
)

// Repository is the store collaborator for liquidations.
type Repository interface {
	Create(ctx context.Context, l *Liquidacion) error
	GetByID(ctx context.Context, liqID id.ID) (*Liquidacion, error)

	// ListByDespacho returns all revisions for a declaration, newest first.
	ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Liquidacion, error)

	// UpdateEstado persists only the state field; every other column of
	// a saved liquidation is immutable.
	UpdateEstado(ctx context.Context, liqID id.ID, estado Estado) error
}
