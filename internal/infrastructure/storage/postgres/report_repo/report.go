// Package report_repo provides the PostgreSQL aggregate queries behind
// the operational dashboard. Aggregates are computed on demand, never
// cached.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"comexa/internal/core/apperror"
	"comexa/internal/domain/despacho"
	"comexa/internal/domain/reports"
	"comexa/internal/infrastructure/storage/postgres"
)

const despachosTable = "despachos"

// estadosEnCurso are the non-terminal declaration states, including
// rechazado (it legally reopens). Derived from the adjacency table so
// the dashboard cannot drift from the state machine.
var estadosEnCurso = despacho.NonTerminal()

// Repo implements reports.Repository.
type Repo struct {
	txManager postgres.QuerierSource
	caps      *postgres.Capabilities
}

func NewRepo(txManager postgres.QuerierSource, caps *postgres.Capabilities) *Repo {
	return &Repo{txManager: txManager, caps: caps}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) base(ctx context.Context, filter reports.DashboardFilter) squirrel.SelectBuilder {
	q := r.builder().Select().From(despachosTable)
	if r.caps.SoftDelete(ctx) {
		q = q.Where(squirrel.Eq{"deleted_at": nil})
	}
	if filter.DespachanteID != nil {
		q = q.Where(squirrel.Eq{"despachante_id": *filter.DespachanteID})
	}
	return q
}

func (r *Repo) count(ctx context.Context, q squirrel.SelectBuilder, op string) (int64, error) {
	sql, args, err := q.Columns("COUNT(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, apperror.NewDatabase(op, err)
	}
	return n, nil
}

// CountEnCurso counts declarations in any non-terminal state.
func (r *Repo) CountEnCurso(ctx context.Context, filter reports.DashboardFilter) (int64, error) {
	q := r.base(ctx, filter).
		Where(squirrel.Eq{"estado": estadosEnCurso})
	return r.count(ctx, q, "count en curso")
}

// CountEsperandoCanal counts declarations presented and waiting for a
// channel assignment.
func (r *Repo) CountEsperandoCanal(ctx context.Context, filter reports.DashboardFilter) (int64, error) {
	q := r.base(ctx, filter).
		Where(squirrel.Eq{"estado": despacho.EstadoPresentado})
	return r.count(ctx, q, "count esperando canal")
}

// CountLiberadosEntre counts declarations released within [desde, hasta).
func (r *Repo) CountLiberadosEntre(ctx context.Context, filter reports.DashboardFilter, desde, hasta time.Time) (int64, error) {
	q := r.base(ctx, filter).
		Where(squirrel.Eq{"estado": despacho.EstadoLiberado}).
		Where(squirrel.GtOrEq{"fecha_liberacion": desde}).
		Where(squirrel.Lt{"fecha_liberacion": hasta})
	return r.count(ctx, q, "count liberados")
}

// SumFOBEnCurso totals the declared FOB value across non-terminal
// declarations.
func (r *Repo) SumFOBEnCurso(ctx context.Context, filter reports.DashboardFilter) (decimal.Decimal, error) {
	q := r.base(ctx, filter).
		Columns("COALESCE(SUM(valor_fob), 0)").
		Where(squirrel.Eq{"estado": estadosEnCurso})

	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum: %w", err)
	}

	var total decimal.Decimal
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, apperror.NewDatabase("sum fob en curso", err)
	}
	return total, nil
}

var _ reports.Repository = (*Repo)(nil)
