package despacho_repo

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNextNumeroQueryOrdersBySuffixWidth(t *testing.T) {
	sql, args, err := nextNumeroQuery(2025).ToSql()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	// Lexicographic order alone ranks DESP-2025-9999 above
	// DESP-2025-10000; length must win first.
	want := "ORDER BY length(numero_despacho) DESC, numero_despacho DESC"
	if !strings.Contains(sql, want) {
		t.Errorf("query = %q, want ordering %q", sql, want)
	}
	if len(args) != 1 || args[0] != "DESP-2025-%" {
		t.Errorf("args = %v, want the year prefix pattern", args)
	}
}

type numeroRow struct {
	numero string
}

func (r numeroRow) Scan(dest ...any) error {
	if s, ok := dest[0].(*string); ok {
		*s = r.numero
	}
	return nil
}

type numeroQuerier struct {
	last string
}

func (q numeroQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q numeroQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (q numeroQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return numeroRow{numero: q.last}
}

func TestNextAdvancesPastWideSuffixes(t *testing.T) {
	alloc := NewNumerador(staticSource{numeroQuerier{last: "DESP-2025-10000"}})

	got, err := alloc.Next(context.Background(), 2025)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	// Proposing 10000 again would collide forever and exhaust every
	// creation attempt for the rest of the year.
	if got != "DESP-2025-10001" {
		t.Errorf("Next() = %q, want DESP-2025-10001", got)
	}
}
