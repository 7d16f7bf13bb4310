package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// UserRepository persists user records. Email uniqueness is enforced by the
// store (case-sensitive); Create returns domain.ErrDuplicateEmail on
// conflict.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// UpdateProfile mutates the mutable display fields only; email, role and
	// the password hash are never touched through this path.
	UpdateProfile(ctx context.Context, id, name, avatar string) (*domain.User, error)
	// LinkExternalID binds an external identity to an existing account so
	// later logins resolve by external id directly.
	LinkExternalID(ctx context.Context, id, externalID string) error
	// List returns the assignment directory, ordered by name.
	List(ctx context.Context) ([]domain.User, error)
}
