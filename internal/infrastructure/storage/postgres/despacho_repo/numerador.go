package despacho_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"comexa/internal/core/apperror"
	"comexa/internal/core/numerador"
	"comexa/internal/infrastructure/storage/postgres"
)

// NumeradorRepo derives the next despacho number from the largest
// suffix already persisted for the year. Concurrent allocators may
// hand out the same candidate; the unique index on numero_despacho
// arbitrates and the service retries on conflict.
type NumeradorRepo struct {
	txManager postgres.QuerierSource
}

// NewNumerador creates the numbering allocator.
func NewNumerador(txManager postgres.QuerierSource) *NumeradorRepo {
	return &NumeradorRepo{txManager: txManager}
}

// nextNumeroQuery scans for the largest numero under the year prefix.
// Ordering by length first keeps the scan numeric: once the sequence
// widens past 9999, DESP-YYYY-10000 must outrank DESP-YYYY-9999, which
// plain lexicographic order gets backwards.
func nextNumeroQuery(year int) squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("numero_despacho").
		From(despachosTable).
		Where(squirrel.Like{"numero_despacho": numerador.YearPrefix(year) + "%"}).
		OrderBy("length(numero_despacho) DESC", "numero_despacho DESC").
		Limit(1)
}

// Next returns the next candidate number for the year.
func (n *NumeradorRepo) Next(ctx context.Context, year int) (string, error) {
	sql, args, err := nextNumeroQuery(year).ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var last string
	querier := n.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&last)
	switch {
	case postgres.IsNoRows(err):
		return numerador.Format(year, 1), nil
	case err != nil:
		return "", apperror.NewDatabase("scan numerador", err)
	}

	suffix, ok := numerador.ParseSuffix(last)
	if !ok {
		// Malformed rows sort above well-formed ones only if someone
		// inserted by hand; start the sequence over rather than fail.
		return numerador.Format(year, 1), nil
	}
	return numerador.Format(year, suffix+1), nil
}

var _ numerador.Allocator = (*NumeradorRepo)(nil)
