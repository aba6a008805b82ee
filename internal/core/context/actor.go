// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorContext identifies who is operating on a declaration.
// Seguimiento entries and audit fields take the identity from here;
// authentication itself happens outside the engine.
type ActorContext struct {
	UserID   string
	Email    string
	Despacho string // broker registry code (matrícula del despachante), optional
	IsAdmin  bool
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns the acting user ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.UserID
	}
	return ""
}
