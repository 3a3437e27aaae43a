package appctx

import (
	"context"

	"rsbackend/models"
)

type contextKey string

const actorContextKey contextKey = "request_actor"

// SetActor stores the authenticated actor in the context.
func SetActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// GetActor extracts the authenticated actor from the context.
func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok
}
