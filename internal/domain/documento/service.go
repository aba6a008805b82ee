package documento

import (
	"context"
	"fmt"
	"time"

	appctx "comexa/internal/core/context"
	"comexa/internal/core/id"
	"comexa/internal/core/tx"
	"comexa/internal/domain/seguimiento"
	"comexa/pkg/logger"
)

// Repository is the store collaborator for checklist entries.
type Repository interface {
	Create(ctx context.Context, d *Documento) error
	GetByID(ctx context.Context, docID id.ID) (*Documento, error)
	ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Documento, error)
	Update(ctx context.Context, d *Documento) error
	Delete(ctx context.Context, docID id.ID) error
}

// Service provides checklist operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
	trail     seguimiento.Writer
}

// NewService creates a documento service.
func NewService(repo Repository, txManager tx.Manager, trail seguimiento.Writer) *Service {
	if trail == nil {
		trail = seguimiento.Nop{}
	}
	return &Service{repo: repo, txManager: txManager, trail: trail}
}

// Create adds a checklist entry to a despacho.
func (s *Service) Create(ctx context.Context, d *Documento) (*Documento, error) {
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	d.CreatedBy = appctx.GetActorID(ctx)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID retrieves a checklist entry.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Documento, error) {
	return s.repo.GetByID(ctx, docID)
}

// ListByDespacho returns the checklist of a declaration.
func (s *Service) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Documento, error) {
	return s.repo.ListByDespacho(ctx, despachoID)
}

// Advance applies the one-click review cycle to an entry.
func (s *Service) Advance(ctx context.Context, docID id.ID) (*Documento, error) {
	d, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	anterior := d.Estado
	hoy := time.Now()
	d.Advance(time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location()))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  d.DespachoID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Documento %q: %s → %s", d.Nombre, anterior, d.Estado),
		Fecha:       time.Now(),
	})
	logger.Debug(ctx, "documento advanced", "id", d.ID, "from", anterior, "to", d.Estado)
	return d, nil
}

// Attach records the uploaded file reference on the entry.
func (s *Service) Attach(ctx context.Context, docID id.ID, url, nombre string) (*Documento, error) {
	d, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	d.ArchivoURL = url
	d.ArchivoNombre = nombre
	if d.Estado == EstadoPendiente {
		hoy := time.Now()
		d.Advance(time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location()))
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a checklist entry.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
}
