package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	corecontext "comexa/internal/core/context"
	"comexa/internal/core/id"
	"comexa/internal/domain/seguimiento"
	"comexa/pkg/logger"
)

// CompressionAlgo names the codec applied to a stored snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// snapshotCompressThreshold is the snapshot size above which the writer
// compresses before storing.
const snapshotCompressThreshold = 10 * 1024

// SeguimientoRow is a persisted audit-trail line.
type SeguimientoRow struct {
	ID                 id.ID           `db:"id" json:"id"`
	DespachoID         id.ID           `db:"despacho_id" json:"despachoId"`
	ActorID            string          `db:"actor_id" json:"actorId"`
	Descripcion        string          `db:"descripcion" json:"descripcion"`
	Snapshot           json.RawMessage `db:"snapshot" json:"snapshot,omitempty"`
	SnapshotCompressed []byte          `db:"snapshot_compressed" json:"-"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo" json:"-"`
	Fecha              time.Time       `db:"fecha" json:"fecha"`
}

// SeguimientoWriter persists audit entries for despachos. Writes are
// fire-and-forget: a failed insert is logged, never surfaced, so the
// trail can never block a state change that already committed.
type SeguimientoWriter struct {
	txManager QuerierSource
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewSeguimientoWriter creates the audit-trail writer.
func NewSeguimientoWriter(txManager QuerierSource) (*SeguimientoWriter, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &SeguimientoWriter{
		txManager: txManager,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// Record implements seguimiento.Writer.
func (w *SeguimientoWriter) Record(ctx context.Context, entry seguimiento.Entry) {
	row := SeguimientoRow{
		ID:              id.New(),
		DespachoID:      entry.DespachoID,
		ActorID:         entry.ActorID,
		Descripcion:     entry.Descripcion,
		CompressionAlgo: CompressionNone,
		Fecha:           entry.Fecha,
	}

	if row.ActorID == "" {
		row.ActorID = corecontext.GetActorID(ctx)
	}
	if row.Fecha.IsZero() {
		row.Fecha = time.Now().UTC()
	}

	if entry.Snapshot != nil {
		payload, err := json.Marshal(entry.Snapshot)
		if err != nil {
			logger.Warn(ctx, "seguimiento: marshal snapshot failed",
				"despacho_id", entry.DespachoID, "error", err)
		} else if len(payload) > snapshotCompressThreshold {
			row.SnapshotCompressed = w.encoder.EncodeAll(payload, nil)
			row.CompressionAlgo = CompressionZstd
		} else {
			row.Snapshot = payload
		}
	}

	sql := `
		INSERT INTO seguimientos (
			id, despacho_id, actor_id, descripcion,
			snapshot, snapshot_compressed, compression_algo, fecha
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := w.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql,
		row.ID, row.DespachoID, row.ActorID, row.Descripcion,
		row.Snapshot, row.SnapshotCompressed, row.CompressionAlgo, row.Fecha,
	); err != nil {
		logger.Error(ctx, "seguimiento: insert failed",
			"despacho_id", entry.DespachoID, "error", err)
	}
}

// History returns the trail for a despacho, newest first, with
// snapshots decompressed.
func (w *SeguimientoWriter) History(ctx context.Context, despachoID id.ID, limit int) ([]SeguimientoRow, error) {
	if limit <= 0 {
		limit = 100
	}

	sql := `
		SELECT id, despacho_id, actor_id, descripcion,
		       snapshot, snapshot_compressed, compression_algo, fecha
		FROM seguimientos
		WHERE despacho_id = $1
		ORDER BY fecha DESC
		LIMIT $2
	`

	rows, err := w.txManager.GetQuerier(ctx).Query(ctx, sql, despachoID, limit)
	if err != nil {
		return nil, fmt.Errorf("query seguimientos: %w", err)
	}
	defer rows.Close()

	var entries []SeguimientoRow
	for rows.Next() {
		var e SeguimientoRow
		err := rows.Scan(
			&e.ID, &e.DespachoID, &e.ActorID, &e.Descripcion,
			&e.Snapshot, &e.SnapshotCompressed, &e.CompressionAlgo, &e.Fecha,
		)
		if err != nil {
			return nil, fmt.Errorf("scan seguimiento: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.SnapshotCompressed) > 0 {
			decompressed, err := w.decoder.DecodeAll(e.SnapshotCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			e.Snapshot = decompressed
			e.SnapshotCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

var _ seguimiento.Writer = (*SeguimientoWriter)(nil)
