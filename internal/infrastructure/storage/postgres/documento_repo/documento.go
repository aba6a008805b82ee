// Package documento_repo provides the PostgreSQL repository for the
// document checklist.
package documento_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain/documento"
	"comexa/internal/infrastructure/storage/postgres"
)

const documentosTable = "documentos"

var immutableCols = map[string]bool{
	"id":          true,
	"created_at":  true,
	"created_by":  true,
	"despacho_id": true,
	"version":     true,
	"updated_at":  true,
	"deleted_at":  true,
}

// Repo implements documento.Repository.
type Repo struct {
	txManager postgres.QuerierSource
	cols      []string
}

func NewRepo(txManager postgres.QuerierSource) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[documento.Documento](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) Create(ctx context.Context, d *documento.Documento) error {
	data := postgres.StructToMap(d)

	q := r.builder().Insert(documentosTable).SetMap(data)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("despacho", d.DespachoID.String())
		}
		return apperror.NewDatabase("insert documento", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, docID id.ID) (*documento.Documento, error) {
	q := r.builder().
		Select(r.cols...).
		From(documentosTable).
		Where(squirrel.Eq{"id": docID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d documento.Documento
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("documento", docID.String())
		}
		return nil, apperror.NewDatabase("get documento", err)
	}
	return &d, nil
}

func (r *Repo) ListByDespacho(ctx context.Context, despachoID id.ID) ([]*documento.Documento, error) {
	q := r.builder().
		Select(r.cols...).
		From(documentosTable).
		Where(squirrel.Eq{"despacho_id": despachoID, "deleted_at": nil}).
		OrderBy("requerido DESC", "nombre ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*documento.Documento
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &docs, sql, args...); err != nil {
		return nil, apperror.NewDatabase("list documentos", err)
	}
	return docs, nil
}

func (r *Repo) Update(ctx context.Context, d *documento.Documento) error {
	data := postgres.StructToMap(d)

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
		Update(documentosTable).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": d.ID, "version": d.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update documento", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("documento", d.ID.String())
	}

	d.Version++
	return nil
}

func (r *Repo) Delete(ctx context.Context, docID id.ID) error {
	q := r.builder().
		Update(documentosTable).
		Set("deleted_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": docID, "deleted_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("delete documento", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("documento", docID.String())
	}
	return nil
}

var _ documento.Repository = (*Repo)(nil)
