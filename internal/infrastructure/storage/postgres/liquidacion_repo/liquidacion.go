// Package liquidacion_repo provides the PostgreSQL repository for duty
// liquidations. Saved rows are immutable apart from their estado.
package liquidacion_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain/liquidacion"
	"comexa/internal/infrastructure/storage/postgres"
)

const liquidacionesTable = "liquidaciones"

// Repo implements liquidacion.Repository.
type Repo struct {
	txManager postgres.QuerierSource
	cols      []string
}

func NewRepo(txManager postgres.QuerierSource) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[liquidacion.Liquidacion](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) Create(ctx context.Context, l *liquidacion.Liquidacion) error {
	data := postgres.StructToMap(l)

	q := r.builder().Insert(liquidacionesTable).SetMap(data)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("despacho", l.DespachoID.String())
		}
		return apperror.NewDatabase("insert liquidacion", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, liqID id.ID) (*liquidacion.Liquidacion, error) {
	q := r.builder().
		Select(r.cols...).
		From(liquidacionesTable).
		Where(squirrel.Eq{"id": liqID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l liquidacion.Liquidacion
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("liquidacion", liqID.String())
		}
		return nil, apperror.NewDatabase("get liquidacion", err)
	}
	return &l, nil
}

func (r *Repo) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*liquidacion.Liquidacion, error) {
	q := r.builder().
		Select(r.cols...).
		From(liquidacionesTable).
		Where(squirrel.Eq{"despacho_id": despachoID, "deleted_at": nil}).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var liqs []*liquidacion.Liquidacion
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &liqs, sql, args...); err != nil {
		return nil, apperror.NewDatabase("list liquidaciones", err)
	}
	return liqs, nil
}

func (r *Repo) UpdateEstado(ctx context.Context, liqID id.ID, estado liquidacion.Estado) error {
	q := r.builder().
		Update(liquidacionesTable).
		Set("estado", estado).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": liqID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update liquidacion estado", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("liquidacion", liqID.String())
	}
	return nil
}

var _ liquidacion.Repository = (*Repo)(nil)
