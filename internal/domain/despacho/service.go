package despacho

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	appctx "comexa/internal/core/context"
	"comexa/internal/core/id"
	"comexa/internal/core/numerador"
	"comexa/internal/core/tx"
	"comexa/internal/domain"
	"comexa/internal/domain/seguimiento"
	"comexa/pkg/logger"
)

// DefaultMaxAllocAttempts bounds the numbering retry loop. Two brokers
// creating despachos at the same instant race for the same suffix; the
// store's unique index decides, and the loser re-derives a fresh number.
const DefaultMaxAllocAttempts = 3

// CreateDespacho is the command to open a new declaration.
// Callers never supply the numero nor the estado.
type CreateDespacho struct {
	Tipo          Tipo
	DespachanteID id.ID
	ClienteID     id.ID
	CarpetaID     *id.ID

	ValorFOB              decimal.Decimal
	ValorCIF              decimal.Decimal
	Moneda                string
	PesoKg                decimal.Decimal
	CantidadBultos        int
	ReferenciaCarga       string
	PosicionArancelaria   string
	DescripcionMercaderia string
	Prioridad             Prioridad
}

// BulkResult reports the outcome of a bulk transition.
// A bulk operation partially succeeds by design: rows whose current
// state does not permit the target are skipped, never fatal.
type BulkResult struct {
	Actualizados int     `json:"actualizados"`
	Omitidos     int     `json:"omitidos"`
	OmitidosIDs  []id.ID `json:"omitidosIds,omitempty"`
}

// Service orchestrates declaration lifecycle operations.
type Service struct {
	repo        Repository
	allocator   numerador.Allocator
	txManager   tx.Manager
	trail       seguimiento.Writer
	maxAttempts int
}

// NewService creates a declaration service.
func NewService(repo Repository, allocator numerador.Allocator, txManager tx.Manager, trail seguimiento.Writer) *Service {
	if trail == nil {
		trail = seguimiento.Nop{}
	}
	return &Service{
		repo:        repo,
		allocator:   allocator,
		txManager:   txManager,
		trail:       trail,
		maxAttempts: DefaultMaxAllocAttempts,
	}
}

// Create validates the command, allocates a numero and persists the
// declaration, retrying the allocation on a uniqueness conflict.
// Returns the created row including the joined client summary.
func (s *Service) Create(ctx context.Context, cmd CreateDespacho) (*Despacho, error) {
	d := New(cmd.Tipo, cmd.DespachanteID, cmd.ClienteID)
	d.CarpetaID = cmd.CarpetaID
	d.ValorFOB = cmd.ValorFOB
	d.ValorCIF = cmd.ValorCIF
	d.Moneda = cmd.Moneda
	d.PesoKg = cmd.PesoKg
	d.CantidadBultos = cmd.CantidadBultos
	d.ReferenciaCarga = cmd.ReferenciaCarga
	d.PosicionArancelaria = cmd.PosicionArancelaria
	d.DescripcionMercaderia = cmd.DescripcionMercaderia
	if cmd.Prioridad != "" {
		d.Prioridad = cmd.Prioridad
	}
	d.CreatedBy = appctx.GetActorID(ctx)

	if err := d.Validate(ctx); err != nil {
		return nil, err
	}

	year := time.Now().Year()
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		numero, err := s.allocator.Next(ctx, year)
		if err != nil {
			return nil, apperror.NewDatabase("allocate numero", err)
		}
		d.NumeroDespacho = numero

		err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, d)
		})
		if err == nil {
			logger.Info(ctx, "despacho created", "id", d.ID, "numero", d.NumeroDespacho, "attempt", attempt)
			s.trail.Record(ctx, seguimiento.Entry{
				DespachoID:  d.ID,
				ActorID:     appctx.GetActorID(ctx),
				Descripcion: fmt.Sprintf("Despacho %s creado (%s)", d.NumeroDespacho, d.Tipo),
				Fecha:       time.Now(),
			})
			return s.repo.GetByID(ctx, d.ID)
		}
		if apperror.IsAllocationConflict(err) {
			logger.Warn(ctx, "numero collision, retrying", "numero", numero, "attempt", attempt)
			continue
		}
		return nil, err
	}

	return nil, apperror.NewAllocationExhausted(s.maxAttempts)
}

// GetByID retrieves a declaration with its joined client summary.
func (s *Service) GetByID(ctx context.Context, despachoID id.ID) (*Despacho, error) {
	return s.repo.GetByID(ctx, despachoID)
}

// List retrieves declarations for a broker with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Despacho], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}
	return s.repo.List(ctx, filter)
}

// Transition moves a declaration to target, stamping lifecycle dates
// and recording a seguimiento entry.
func (s *Service) Transition(ctx context.Context, despachoID id.ID, target Estado) (*Despacho, error) {
	d, err := s.repo.GetByID(ctx, despachoID)
	if err != nil {
		return nil, err
	}

	anterior := d.Estado
	if err := d.Transition(target, Today()); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  d.ID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Despacho %s: %s → %s", d.NumeroDespacho, anterior, target),
		Fecha:       time.Now(),
		Snapshot:    d,
	})
	logger.Info(ctx, "despacho transitioned", "id", d.ID, "from", anterior, "to", target)
	return d, nil
}

// BulkTransition applies the same transition to many declarations,
// atomically per row. Legality is rechecked against each row's current
// state at apply time; illegal rows are skipped and counted, never
// fatal for the batch.
func (s *Service) BulkTransition(ctx context.Context, ids []id.ID, target Estado) (BulkResult, error) {
	var result BulkResult
	for _, despachoID := range ids {
		_, err := s.Transition(ctx, despachoID, target)
		if err == nil {
			result.Actualizados++
			continue
		}
		switch {
		case apperror.IsInvalidTransition(err), apperror.IsNotFound(err):
			result.Omitidos++
			result.OmitidosIDs = append(result.OmitidosIDs, despachoID)
		default:
			// A store failure mid-batch still yields partial results;
			// the row is reported as skipped and the cause logged.
			logger.Error(ctx, "bulk transition row failed", "id", despachoID, "error", err)
			result.Omitidos++
			result.OmitidosIDs = append(result.OmitidosIDs, despachoID)
		}
	}
	logger.Info(ctx, "bulk transition finished",
		"target", target, "actualizados", result.Actualizados, "omitidos", result.Omitidos)
	return result, nil
}

// SetPrioridad changes the work-queue priority. No lifecycle effect.
func (s *Service) SetPrioridad(ctx context.Context, despachoID id.ID, p Prioridad) (*Despacho, error) {
	if !p.Valid() {
		return nil, apperror.NewValidation("prioridad is not valid").
			WithDetail("field", "prioridad").
			WithDetail("value", string(p))
	}

	d, err := s.repo.GetByID(ctx, despachoID)
	if err != nil {
		return nil, err
	}
	d.Prioridad = p

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateComercial replaces the mutable commercial data of a declaration.
// Lifecycle fields, numero and tipo are untouchable through this path.
func (s *Service) UpdateComercial(ctx context.Context, despachoID id.ID, cmd CreateDespacho) (*Despacho, error) {
	d, err := s.repo.GetByID(ctx, despachoID)
	if err != nil {
		return nil, err
	}

	d.ValorFOB = cmd.ValorFOB
	d.ValorCIF = cmd.ValorCIF
	d.Moneda = cmd.Moneda
	d.PesoKg = cmd.PesoKg
	d.CantidadBultos = cmd.CantidadBultos
	d.ReferenciaCarga = cmd.ReferenciaCarga
	d.PosicionArancelaria = cmd.PosicionArancelaria
	d.DescripcionMercaderia = cmd.DescripcionMercaderia
	d.UpdatedBy = appctx.GetActorID(ctx)

	if err := d.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a declaration. Soft delete when the store supports it.
func (s *Service) Delete(ctx context.Context, despachoID id.ID) error {
	d, err := s.repo.GetByID(ctx, despachoID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, despachoID)
	})
	if err != nil {
		return err
	}

	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  d.ID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Despacho %s eliminado", d.NumeroDespacho),
		Fecha:       time.Now(),
	})
	return nil
}
