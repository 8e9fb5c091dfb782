// Package actor identifies the user performing an action. Movements record
// the actor's display name as the performer, and capability checks read the
// actor's role.
package actor

import (
	"context"
)

// UnknownPerformer is stamped on movements when no actor is present.
const UnknownPerformer = "unknown"

// Actor is the entity performing an action.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Performer returns the display name to stamp on movement records.
func (a *Actor) Performer() string {
	if a == nil || a.Name == "" {
		return UnknownPerformer
	}
	return a.Name
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present (e.g., system operations).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// SystemActor returns an Actor representing the system itself.
// Use this for background jobs and system-initiated operations.
func SystemActor() *Actor {
	return &Actor{
		ID:   "system",
		Name: "system",
		Role: "admin",
	}
}
