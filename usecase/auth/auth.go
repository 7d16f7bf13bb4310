package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/password"
	"github.com/taskforge/backend/pkg/token"
	"github.com/taskforge/backend/repository"
)

// IdentityProvider is the external OAuth collaborator. It runs its own
// handshake and hands back a verified profile; the backend never sees
// provider credentials.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (domain.ExternalIdentity, error)
}

type UseCase struct {
	users    repository.UserRepository
	cache    repository.ActorCache
	tokens   *token.Issuer
	provider IdentityProvider
	logger   *zap.Logger
}

func New(users repository.UserRepository, cache repository.ActorCache, tokens *token.Issuer, provider IdentityProvider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		cache:    cache,
		tokens:   tokens,
		provider: provider,
		logger:   logger,
	}
}

// Register creates a password-backed account and issues a session token.
// Email uniqueness is case-sensitive and enforced by the store.
func (uc *UseCase) Register(ctx context.Context, name, email, plain string) (*domain.User, string, error) {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if !validEmail(email) {
		fields["email"] = "a valid email is required"
	}
	if len(plain) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return nil, "", domain.NewValidationError(fields)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	return uc.withToken(user)
}

// Login verifies credentials and issues a session token. Unknown email,
// wrong password and passwordless accounts all yield the same error.
func (uc *UseCase) Login(ctx context.Context, email, plain string) (*domain.User, string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !password.Matches(user.PasswordHash, plain) {
		return nil, "", domain.ErrInvalidCredentials
	}
	return uc.withToken(user)
}

// ExchangeCode completes an identity-provider login: the provider validates
// the code, and the resulting profile is exchanged for a local user
// (created on first sight) plus a session token.
func (uc *UseCase) ExchangeCode(ctx context.Context, code string) (*domain.User, string, error) {
	if uc.provider == nil {
		return nil, "", domain.NewError(domain.ErrCodeInternal, "identity provider not configured")
	}
	ext, err := uc.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeUnauthorized, "identity exchange failed", err)
	}
	return uc.ExchangeExternalIdentity(ctx, ext)
}

// ExchangeExternalIdentity maps an external profile onto a local user,
// matching by external id first and then by email, creating the account when
// neither matches.
func (uc *UseCase) ExchangeExternalIdentity(ctx context.Context, ext domain.ExternalIdentity) (*domain.User, string, error) {
	if ext.ID == "" || ext.Email == "" {
		return nil, "", domain.NewValidationError(map[string]string{"identity": "incomplete external identity"})
	}

	user, err := uc.users.GetByExternalID(ctx, ext.ID)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, "", err
	}
	if user == nil || err != nil {
		user, err = uc.users.GetByEmail(ctx, ext.Email)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, "", err
		}
		if user != nil && user.ExternalID == "" {
			// Bind the identity now so the next login skips the email path.
			if err := uc.users.LinkExternalID(ctx, user.ID, ext.ID); err != nil {
				uc.logger.Warn("failed to link external identity",
					zap.String("user_id", user.ID), zap.Error(err))
			} else {
				user.ExternalID = ext.ID
			}
		}
	}

	if user == nil || user.ID == "" {
		user = &domain.User{
			ID:         uuid.NewString(),
			Name:       ext.Name,
			Email:      ext.Email,
			Role:       domain.RoleUser,
			Avatar:     ext.Avatar,
			ExternalID: ext.ID,
		}
		if err := uc.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
		uc.logger.Info("provisioned user from external identity", zap.String("user_id", user.ID))
	}

	return uc.withToken(user)
}

// CurrentUser returns the profile behind a verified token subject.
func (uc *UseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile changes the mutable display fields and drops the cached
// actor so the next request observes the change.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID, name, avatar string) (*domain.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError(map[string]string{"name": "name is required"})
	}
	user, err := uc.users.UpdateProfile(ctx, userID, name, avatar)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, userID); err != nil {
			uc.logger.Warn("actor cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return user, nil
}

// ResolveActor loads the acting user for a verified token subject, consulting
// the cache before the primary store.
func (uc *UseCase) ResolveActor(ctx context.Context, userID string) (*domain.User, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, userID)
		if err != nil {
			uc.logger.Warn("actor cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, user); err != nil {
			uc.logger.Warn("actor cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

func (uc *UseCase) withToken(user *domain.User) (*domain.User, string, error) {
	tok, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}
	return user, tok, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
