package middleware

import (
	"context"

	"github.com/provisionhq/procurehub-backend/internal/actors"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated actor seeded by Auth.
func ActorFromContext(ctx context.Context) (actors.Actor, bool) {
	if ctx == nil {
		return actors.Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(actors.Actor)
	return actor, ok
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor actors.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

func actorIDFromContext(ctx context.Context) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor.ID.String()
	}
	return ""
}

func storeIDFromContext(ctx context.Context) string {
	if actor, ok := ActorFromContext(ctx); ok && actor.StoreID != nil {
		return actor.StoreID.String()
	}
	return ""
}
