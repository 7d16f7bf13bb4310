package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// ActorCache is a read-through cache of resolved users keyed by id, consulted
// by the auth middleware on every request. A miss is not an error state;
// implementations return (nil, nil) so callers fall through to the primary
// store.
type ActorCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, userID string) error
}
