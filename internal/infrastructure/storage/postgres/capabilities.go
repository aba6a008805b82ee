package postgres

import (
	"context"
	"sync"

	"comexa/pkg/logger"
)

// Capabilities negotiates optional schema features once per process.
//
// During progressive migrations the despachos table may not yet carry
// the deleted_at column. Rather than try/catch per call, the engine
// probes information_schema a single time, memoizes the answer, and
// every repository consults the cached result. Reset exists so tests
// and a restarted process re-probe.
type Capabilities struct {
	source QuerierSource

	mu         sync.Mutex
	probed     bool
	softDelete bool
}

// NewCapabilities creates an unprobed capability set.
func NewCapabilities(source QuerierSource) *Capabilities {
	return &Capabilities{source: source}
}

// SoftDelete reports whether the despachos table carries deleted_at.
// The first call probes the catalog; later calls return the memoized
// answer. A probe failure is treated as "column absent" and logged, so
// a flaky catalog read degrades to hard deletes instead of breaking
// every operation.
func (c *Capabilities) SoftDelete(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.probed {
		return c.softDelete
	}

	querier := c.source.GetQuerier(ctx)
	var exists bool
	err := querier.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'despachos' AND column_name = 'deleted_at'
		)
	`).Scan(&exists)
	if err != nil {
		logger.Warn(ctx, "soft-delete capability probe failed, assuming absent", "error", err)
		exists = false
	}

	c.probed = true
	c.softDelete = exists
	logger.Info(ctx, "store capabilities negotiated", "soft_delete", exists)
	return c.softDelete
}

// Reset clears the memoized probe. Safe to call concurrently with
// SoftDelete; the next call re-probes.
func (c *Capabilities) Reset() {
	c.mu.Lock()
	c.probed = false
	c.softDelete = false
	c.mu.Unlock()
}
