package liquidacion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	appctx "comexa/internal/core/context"
	"comexa/internal/core/entity"
	"comexa/internal/core/id"
	"comexa/internal/core/tx"
	"comexa/internal/domain/seguimiento"
	"comexa/pkg/logger"
)

// RecordLiquidacion is the command to attach a new liquidation revision
// to a despacho. Only inputs cross this boundary: the service always
// recomputes the amounts and ignores anything the client derived.
type RecordLiquidacion struct {
	DespachoID  id.ID
	ValorAduana decimal.Decimal
	Moneda      string
	TipoCambio  decimal.Decimal
	Rates       Rates
}

// Service provides liquidation operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
	trail     seguimiento.Writer
}

// NewService creates a liquidation service.
func NewService(repo Repository, txManager tx.Manager, trail seguimiento.Writer) *Service {
	if trail == nil {
		trail = seguimiento.Nop{}
	}
	return &Service{repo: repo, txManager: txManager, trail: trail}
}

// Record validates the command, computes the cascading breakdown and
// persists the snapshot in borrador state.
func (s *Service) Record(ctx context.Context, cmd RecordLiquidacion) (*Liquidacion, error) {
	l := &Liquidacion{
		BaseRecord: entity.NewBaseRecord(),
		DespachoID: cmd.DespachoID,
		Estado:     EstadoBorrador,

		ValorAduana: cmd.ValorAduana,
		Moneda:      cmd.Moneda,
		TipoCambio:  cmd.TipoCambio,

		TasaDerechos:     cmd.Rates.DerechosImportacion,
		TasaEstadistica:  cmd.Rates.TasaEstadistica,
		TasaIVA:          cmd.Rates.IVA,
		TasaIVAAdicional: cmd.Rates.IVAAdicional,
		TasaIIBB:         cmd.Rates.IIBB,
		TasaGanancias:    cmd.Rates.Ganancias,
	}
	l.CreatedBy = appctx.GetActorID(ctx)

	if err := l.Validate(ctx); err != nil {
		return nil, err
	}

	l.ApplyBreakdown(Calculate(l.ValorAduana, l.TipoCambio, l.Rates()))

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  l.DespachoID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Liquidación registrada: total ARS %s", l.TotalLocal),
		Fecha:       time.Now(),
		Snapshot:    l,
	})
	logger.Info(ctx, "liquidacion recorded", "id", l.ID, "despacho_id", l.DespachoID, "total", l.TotalLocal)
	return l, nil
}

// GetByID retrieves a liquidation.
func (s *Service) GetByID(ctx context.Context, liqID id.ID) (*Liquidacion, error) {
	return s.repo.GetByID(ctx, liqID)
}

// ListByDespacho returns all liquidation revisions for a declaration.
func (s *Service) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*Liquidacion, error) {
	return s.repo.ListByDespacho(ctx, despachoID)
}

// Confirm advances borrador → confirmado.
func (s *Service) Confirm(ctx context.Context, liqID id.ID) (*Liquidacion, error) {
	return s.advance(ctx, liqID, EstadoConfirmado)
}

// MarkPaid advances confirmado → pagado.
func (s *Service) MarkPaid(ctx context.Context, liqID id.ID) (*Liquidacion, error) {
	return s.advance(ctx, liqID, EstadoPagado)
}

func (s *Service) advance(ctx context.Context, liqID id.ID, target Estado) (*Liquidacion, error) {
	l, err := s.repo.GetByID(ctx, liqID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(l.Estado, target) {
		allowed := []string{}
		if next, ok := siguiente[l.Estado]; ok {
			allowed = append(allowed, string(next))
		}
		return nil, apperror.NewInvalidTransition("liquidacion", string(l.Estado), string(target), allowed)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateEstado(ctx, liqID, target)
	})
	if err != nil {
		return nil, err
	}

	anterior := l.Estado
	l.Estado = target
	s.trail.Record(ctx, seguimiento.Entry{
		DespachoID:  l.DespachoID,
		ActorID:     appctx.GetActorID(ctx),
		Descripcion: fmt.Sprintf("Liquidación %s → %s", anterior, target),
		Fecha:       time.Now(),
	})
	return l, nil
}
