// Package carga_repo provides the PostgreSQL repository for shipments.
package carga_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain/carga"
	"comexa/internal/infrastructure/storage/postgres"
)

const cargasTable = "cargas"

var immutableCols = map[string]bool{
	"id":          true,
	"created_at":  true,
	"created_by":  true,
	"despacho_id": true,
	"version":     true,
	"updated_at":  true,
	"deleted_at":  true,
}

// Repo implements carga.Repository.
type Repo struct {
	txManager postgres.QuerierSource
	cols      []string
}

func NewRepo(txManager postgres.QuerierSource) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[carga.Carga](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) Create(ctx context.Context, c *carga.Carga) error {
	data := postgres.StructToMap(c)

	q := r.builder().Insert(cargasTable).SetMap(data)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("despacho", c.DespachoID.String())
		}
		return apperror.NewDatabase("insert carga", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, cargaID id.ID) (*carga.Carga, error) {
	q := r.builder().
		Select(r.cols...).
		From(cargasTable).
		Where(squirrel.Eq{"id": cargaID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c carga.Carga
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("carga", cargaID.String())
		}
		return nil, apperror.NewDatabase("get carga", err)
	}
	return &c, nil
}

func (r *Repo) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*carga.Carga, error) {
	q := r.builder().
		Select(r.cols...).
		From(cargasTable).
		Where(squirrel.Eq{"despacho_id": despachoID, "deleted_at": nil}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cargas []*carga.Carga
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cargas, sql, args...); err != nil {
		return nil, apperror.NewDatabase("list cargas", err)
	}
	return cargas, nil
}

func (r *Repo) Update(ctx context.Context, c *carga.Carga) error {
	data := postgres.StructToMap(c)

	set := make(map[string]any, len(data))
	for _, col := range r.cols {
		if immutableCols[col] {
			continue
		}
		if val, ok := data[col]; ok {
			set[col] = val
		}
	}

	q := r.builder().
		Update(cargasTable).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID, "version": c.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update carga", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("carga", c.ID.String())
	}

	c.Version++
	return nil
}

func (r *Repo) Delete(ctx context.Context, cargaID id.ID) error {
	q := r.builder().
		Update(cargasTable).
		Set("deleted_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": cargaID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("delete carga", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("carga", cargaID.String())
	}
	return nil
}

var _ carga.Repository = (*Repo)(nil)
