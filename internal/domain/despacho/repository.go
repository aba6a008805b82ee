package despacho

import (
	"context"
	"time"

	"comexa/internal/core/id"
	"comexa/internal/domain"
)

// ListFilter narrows List queries.
type ListFilter struct {
	// DespachanteID scopes the listing to one broker's portfolio.
	DespachanteID *id.ID

	ClienteID *id.ID
	Estado    *Estado
	Estados   []Estado
	Tipo      *Tipo
	Prioridad *Prioridad

	// Search matches numero, descripcion, posicion arancelaria and the
	// joined client name (ILIKE).
	Search string

	DateFrom *time.Time
	DateTo   *time.Time

	// IncludeDeleted returns soft-deleted rows too. Ignored when the
	// store has no deleted_at column (everything is returned then).
	IncludeDeleted bool

	// OrderBy defaults to created_at DESC.
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// Repository is the store collaborator for despachos.
type Repository interface {
	// Create inserts a new despacho. A duplicate numero_despacho must
	// surface as an AllocationConflict AppError so the service can
	// retry the numbering.
	Create(ctx context.Context, d *Despacho) error

	// GetByID retrieves a despacho with the joined client summary.
	GetByID(ctx context.Context, despachoID id.ID) (*Despacho, error)

	// GetByNumero retrieves by the human identifier.
	GetByNumero(ctx context.Context, numero string) (*Despacho, error)

	// Update persists the full row with optimistic locking.
	Update(ctx context.Context, d *Despacho) error

	// Delete soft-deletes when the store supports it, otherwise removes
	// the row physically.
	Delete(ctx context.Context, despachoID id.ID) error

	// List retrieves despachos with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Despacho], error)
}
