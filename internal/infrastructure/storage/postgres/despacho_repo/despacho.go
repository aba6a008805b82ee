// Package despacho_repo provides the PostgreSQL repository for
// declarations and the sequential numbering allocator.
package despacho_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/domain"
	"comexa/internal/domain/despacho"
	"comexa/internal/infrastructure/storage/postgres"
)

const (
	despachosTable = "despachos"
	clientesTable  = "clientes"
)

// immutable columns never touched by Update.
var immutableCols = map[string]bool{
	"id":              true,
	"created_at":      true,
	"created_by":      true,
	"numero_despacho": true,
	"tipo":            true,
	"version":         true,
	"updated_at":      true,
	"deleted_at":      true,
}

// readOnlyCols come from joins, never from the despachos table itself.
var readOnlyCols = map[string]bool{
	"cliente_nombre": true,
}

// Repo implements despacho.Repository.
type Repo struct {
	txManager postgres.QuerierSource
	caps      *postgres.Capabilities
	cols      []string
}

// NewRepo creates a despacho repository.
func NewRepo(txManager postgres.QuerierSource, caps *postgres.Capabilities) *Repo {
	return &Repo{
		txManager: txManager,
		caps:      caps,
		cols:      postgres.ExtractDBColumns[despacho.Despacho](),
	}
}

// Builder returns a new squirrel builder.
func (r *Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// baseSelect joins the client summary onto every read.
func (r *Repo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	cols := make([]string, 0, len(r.cols))
	for _, col := range r.cols {
		if col == "deleted_at" && !r.caps.SoftDelete(ctx) {
			continue
		}
		if readOnlyCols[col] {
			continue
		}
		cols = append(cols, "d."+col)
	}
	cols = append(cols, "c.razon_social AS cliente_nombre")

	return r.Builder().
		Select(cols...).
		From(despachosTable + " d").
		LeftJoin(clientesTable + " c ON c.id = d.cliente_id")
}

// notDeleted filters out soft-deleted rows when the column exists.
// Without the column every row is live by definition.
func (r *Repo) notDeleted(ctx context.Context, q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if r.caps.SoftDelete(ctx) {
		q = q.Where(squirrel.Eq{"d.deleted_at": nil})
	}
	return q
}

// Create inserts a new despacho. A duplicate numero surfaces as an
// AllocationConflict so the service can retry with a fresh number.
func (r *Repo) Create(ctx context.Context, d *despacho.Despacho) error {
	data := postgres.StructToMap(d)

	insert := make(map[string]any, len(data))
	for _, col := range r.cols {
		if readOnlyCols[col] {
			continue
		}
		if col == "deleted_at" && !r.caps.SoftDelete(ctx) {
			continue
		}
		if val, ok := data[col]; ok {
			insert[col] = val
		}
	}

	q := r.Builder().
		Insert(despachosTable).
		SetMap(insert)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewAllocationConflict(d.NumeroDespacho).WithCause(err)
		}
		return apperror.NewDatabase("insert despacho", err)
	}
	return nil
}

// GetByID retrieves a despacho with the joined client summary.
// Soft-deleted rows read as absent.
func (r *Repo) GetByID(ctx context.Context, despachoID id.ID) (*despacho.Despacho, error) {
	q := r.notDeleted(ctx, r.baseSelect(ctx)).
		Where(squirrel.Eq{"d.id": despachoID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d despacho.Despacho
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("despacho", despachoID.String())
		}
		return nil, apperror.NewDatabase("get despacho", err)
	}
	return &d, nil
}

// GetByNumero retrieves a despacho by its human identifier.
func (r *Repo) GetByNumero(ctx context.Context, numero string) (*despacho.Despacho, error) {
	q := r.notDeleted(ctx, r.baseSelect(ctx)).
		Where(squirrel.Eq{"d.numero_despacho": numero})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d despacho.Despacho
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("despacho", numero)
		}
		return nil, apperror.NewDatabase("get despacho", err)
	}
	return &d, nil
}

// Update persists the full row with optimistic locking. The numero and
// tipo columns are immutable at the SQL level, not only by convention.
func (r *Repo) Update(ctx context.Context, d *despacho.Despacho) error {
	data := postgres.StructToMap(d)

	set := make(map[string]any, len(data))
	for _, col := range r.cols {
		if immutableCols[col] || readOnlyCols[col] {
			continue
		}
		if val, ok := data[col]; ok {
			set[col] = val
		}
	}

	q := r.Builder().
		Update(despachosTable).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": d.ID}).
		Where(squirrel.Eq{"version": d.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update despacho", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("despacho", d.ID.String())
	}

	d.Version++
	return nil
}

// Delete soft-deletes when the store has the column, otherwise removes
// the row physically. Both paths succeed silently on their own terms.
func (r *Repo) Delete(ctx context.Context, despachoID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	if !r.caps.SoftDelete(ctx) {
		sql, args, err := r.Builder().
			Delete(despachosTable).
			Where(squirrel.Eq{"id": despachoID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		result, err := querier.Exec(ctx, sql, args...)
		if err != nil {
			return apperror.NewDatabase("delete despacho", err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewNotFound("despacho", despachoID.String())
		}
		return nil
	}

	sql, args, err := r.Builder().
		Update(despachosTable).
		Set("deleted_at", time.Now().UTC()).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": despachoID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete: %w", err)
	}

	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("soft delete despacho", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("despacho", despachoID.String())
	}
	return nil
}

// List retrieves despachos with filtering and pagination, newest first.
func (r *Repo) List(ctx context.Context, filter despacho.ListFilter) (domain.ListResult[*despacho.Despacho], error) {
	result := domain.ListResult[*despacho.Despacho]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = r.notDeleted(ctx, q)
	}
	if filter.DespachanteID != nil {
		q = q.Where(squirrel.Eq{"d.despachante_id": *filter.DespachanteID})
	}
	if filter.ClienteID != nil {
		q = q.Where(squirrel.Eq{"d.cliente_id": *filter.ClienteID})
	}
	if filter.Estado != nil {
		q = q.Where(squirrel.Eq{"d.estado": *filter.Estado})
	}
	if len(filter.Estados) > 0 {
		q = q.Where(squirrel.Eq{"d.estado": filter.Estados})
	}
	if filter.Tipo != nil {
		q = q.Where(squirrel.Eq{"d.tipo": *filter.Tipo})
	}
	if filter.Prioridad != nil {
		q = q.Where(squirrel.Eq{"d.prioridad": *filter.Prioridad})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"d.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"d.created_at": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"d.numero_despacho": pattern},
			squirrel.ILike{"d.descripcion_mercaderia": pattern},
			squirrel.ILike{"d.posicion_arancelaria": pattern},
			squirrel.ILike{"c.razon_social": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase("count despachos", err)
	}

	orderBy := "d.created_at DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, apperror.NewDatabase("list despachos", err)
	}
	return result, nil
}

var _ despacho.Repository = (*Repo)(nil)
