package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}

// WithRunID tags ctx with the id of the scrape run it belongs to.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(Default(ctx), runIDKey{}, id)
}

// RunID returns the run id carried by ctx, or uuid.Nil.
func RunID(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if id, ok := ctx.Value(runIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
