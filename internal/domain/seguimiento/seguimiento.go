// Package seguimiento defines the audit-trail collaborator contract.
// The engine only builds the entry; delivery and storage belong to the
// surrounding application.
package seguimiento

import (
	"context"
	"time"

	"comexa/internal/core/id"
)

// Entry is one audit-trail line attached to a despacho.
type Entry struct {
	DespachoID  id.ID
	ActorID     string
	Descripcion string
	Fecha       time.Time

	// Snapshot is an optional JSON-serializable payload capturing the
	// state that produced the entry. Writers may compress it.
	Snapshot any
}

// Writer records audit entries. Fire-and-forget from the engine's point
// of view: a failed write is logged by the implementation and never
// escalated to the caller.
type Writer interface {
	Record(ctx context.Context, entry Entry)
}

// Nop discards every entry. Used in tests and when the trail is disabled.
type Nop struct{}

// Record implements Writer.
func (Nop) Record(ctx context.Context, entry Entry) {}

var _ Writer = Nop{}
