package despacho_repo

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"comexa/internal/core/id"
	"comexa/internal/infrastructure/storage/postgres"
)

type boolRow struct {
	value bool
}

func (r boolRow) Scan(dest ...any) error {
	if b, ok := dest[0].(*bool); ok {
		*b = r.value
	}
	return nil
}

// recordingQuerier serves the capability probe via QueryRow and records
// every statement handed to Exec.
type recordingQuerier struct {
	softDeleteCol bool
	execSQL       []string
	tag           pgconn.CommandTag
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = append(q.execSQL, sql)
	return q.tag, nil
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return boolRow{value: q.softDeleteCol}
}

type staticSource struct {
	querier postgres.Querier
}

func (s staticSource) GetQuerier(ctx context.Context) postgres.Querier {
	return s.querier
}

func TestDeleteHardWhenColumnAbsent(t *testing.T) {
	q := &recordingQuerier{softDeleteCol: false, tag: pgconn.NewCommandTag("DELETE 1")}
	src := staticSource{q}
	repo := NewRepo(src, postgres.NewCapabilities(src))

	if err := repo.Delete(context.Background(), id.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(q.execSQL) != 1 {
		t.Fatalf("executed %d statements, want 1", len(q.execSQL))
	}
	if !strings.HasPrefix(q.execSQL[0], "DELETE FROM despachos") {
		t.Errorf("without deleted_at the row must be removed physically, got: %s", q.execSQL[0])
	}
}

func TestDeleteSoftWhenColumnPresent(t *testing.T) {
	q := &recordingQuerier{softDeleteCol: true, tag: pgconn.NewCommandTag("UPDATE 1")}
	src := staticSource{q}
	repo := NewRepo(src, postgres.NewCapabilities(src))

	if err := repo.Delete(context.Background(), id.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(q.execSQL) != 1 {
		t.Fatalf("executed %d statements, want 1", len(q.execSQL))
	}
	sql := q.execSQL[0]
	if !strings.HasPrefix(sql, "UPDATE despachos") || !strings.Contains(sql, "deleted_at") {
		t.Errorf("with deleted_at the row must be stamped, not removed, got: %s", sql)
	}
}

func TestBaseSelectSkipsDeletedAtWhenColumnAbsent(t *testing.T) {
	q := &recordingQuerier{softDeleteCol: false}
	src := staticSource{q}
	repo := NewRepo(src, postgres.NewCapabilities(src))

	sql, _, err := repo.baseSelect(context.Background()).ToSql()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if strings.Contains(sql, "deleted_at") {
		t.Errorf("reads must not reference the missing column, got: %s", sql)
	}
}

func TestBaseSelectFiltersDeletedWhenColumnPresent(t *testing.T) {
	q := &recordingQuerier{softDeleteCol: true}
	src := staticSource{q}
	repo := NewRepo(src, postgres.NewCapabilities(src))

	sql, _, err := repo.baseSelect(context.Background()).ToSql()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if !strings.Contains(sql, "d.deleted_at") {
		t.Errorf("reads must carry the soft-delete column, got: %s", sql)
	}
}
