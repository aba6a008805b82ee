package carga

import (
	"context"
	"fmt"
	"time"

	"comexa/internal/core/apperror"
	appctx "comexa/internal/core/context"
	"comexa/internal/core/id"
	"comexa/internal/core/tx"
	"comexa/internal/domain/seguimiento"
	"comexa/pkg/logger"
)

// Repository is the store collaborator for cargas.
type Repository interface {
	Create(ctx context.Context, c *Carga) error
	GetByID(ctx context.Context, cargaID id.ID) (*Carga, error)
	ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Carga, error)
	Update(ctx context.Context, c *Carga) error
	Delete(ctx context.Context, cargaID id.ID) error
}

// Service provides shipment tracking operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
	trail     seguimiento.Writer
}

// NewService creates a carga service.
func NewService(repo Repository, txManager tx.Manager, trail seguimiento.Writer) *Service {
	if trail == nil {
		trail = seguimiento.Nop{}
	}
	return &Service{repo: repo, txManager: txManager, trail: trail}
}

// Create registers a shipment for a despacho.
func (s *Service) Create(ctx context.Context, c *Carga) (*Carga, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	c.CreatedBy = appctx.GetActorID(ctx)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "carga created", "id", c.ID, "despacho_id", c.DespachoID, "modo", c.Modo)
	return c, nil
}

// GetByID retrieves a shipment.
func (s *Service) GetByID(ctx context.Context, cargaID id.ID) (*Carga, error) {
	return s.repo.GetByID(ctx, cargaID)
}

// ListByDespacho returns the shipments of a declaration.
func (s *Service) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Carga, error) {
	return s.repo.ListByDespacho(ctx, despachoID)
}

// Transition advances the shipment along its linear chain.
func (s *Service) Transition(ctx context.Context, cargaID id.ID, target Estado) (*Carga, error) {
	c, err := s.repo.GetByID(ctx, cargaID)
	if err != nil {
		return nil, err
	}

	anterior := c.Estado
	hoy := time.Now()
	hoy = time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location())
	if err := c.Transition(target, hoy); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  c.DespachoID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Carga %s: %s → %s", c.Conocimiento, anterior, target),
		Fecha:       time.Now(),
	})
	return c, nil
}

// Advance moves the shipment to its single next state, the common
// one-click path in the tracking screen.
func (s *Service) Advance(ctx context.Context, cargaID id.ID) (*Carga, error) {
	c, err := s.repo.GetByID(ctx, cargaID)
	if err != nil {
		return nil, err
	}
	next, ok := c.Estado.Next()
	if !ok {
		return nil, apperror.NewInvalidTransition("carga", string(c.Estado), "", nil)
	}
	return s.Transition(ctx, cargaID, next)
}

// Delete removes a shipment record.
func (s *Service) Delete(ctx context.Context, cargaID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, cargaID)
	})
}
