package api

import (
	"context"

	"github.com/SkillForge-Platform/SkillForge/backend/models"
)

type keyType string

const (
	actorKey keyType = "actor"
)

// ctxWithActor adds the authenticated actor to the context
func ctxWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ctxGetActor retrieves the authenticated actor from the context
func ctxGetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}
