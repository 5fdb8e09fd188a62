package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type runIDKeyType struct{}

var runIDKey = runIDKeyType{}

// ContextWithRunID помещает идентификатор прогона в контекст
func ContextWithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext возвращает uuid.Nil, если прогон не задан
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if runID, ok := ctx.Value(runIDKey).(uuid.UUID); ok {
		return runID
	}
	return uuid.Nil
}
