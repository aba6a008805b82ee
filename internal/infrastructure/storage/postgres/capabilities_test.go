package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type boolRow struct {
	exists bool
	err    error
}

func (r boolRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if b, ok := dest[0].(*bool); ok {
		*b = r.exists
	}
	return nil
}

// probeQuerier counts catalog probes and answers with a fixed result.
type probeQuerier struct {
	probes int
	exists bool
	err    error
}

func (q *probeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *probeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (q *probeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.probes++
	return boolRow{exists: q.exists, err: q.err}
}

type staticSource struct {
	querier Querier
}

func (s staticSource) GetQuerier(ctx context.Context) Querier {
	return s.querier
}

func TestSoftDeleteProbesOnce(t *testing.T) {
	ctx := context.Background()
	q := &probeQuerier{exists: true}
	caps := NewCapabilities(staticSource{q})

	for i := 0; i < 3; i++ {
		if !caps.SoftDelete(ctx) {
			t.Fatal("column present, SoftDelete must report true")
		}
	}
	if q.probes != 1 {
		t.Errorf("catalog probed %d times, want 1", q.probes)
	}
}

func TestSoftDeleteResetReprobes(t *testing.T) {
	ctx := context.Background()
	q := &probeQuerier{exists: false}
	caps := NewCapabilities(staticSource{q})

	if caps.SoftDelete(ctx) {
		t.Fatal("column absent, SoftDelete must report false")
	}

	// Simulate the column arriving with a migration.
	q.exists = true
	if caps.SoftDelete(ctx) {
		t.Fatal("memoized answer must survive until Reset")
	}

	caps.Reset()
	if !caps.SoftDelete(ctx) {
		t.Fatal("Reset must force a fresh probe")
	}
	if q.probes != 2 {
		t.Errorf("catalog probed %d times, want 2", q.probes)
	}
}

func TestSoftDeleteProbeFailureMeansAbsent(t *testing.T) {
	ctx := context.Background()
	q := &probeQuerier{exists: true, err: errors.New("catalog unavailable")}
	caps := NewCapabilities(staticSource{q})

	if caps.SoftDelete(ctx) {
		t.Fatal("a failed probe must degrade to hard deletes, not soft")
	}
	// The failure is memoized too; flaky catalogs do not get retried
	// on every statement.
	caps.SoftDelete(ctx)
	if q.probes != 1 {
		t.Errorf("catalog probed %d times, want 1", q.probes)
	}
}
