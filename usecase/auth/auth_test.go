package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/token"
	"github.com/taskforge/backend/repository/memory"
)

func newUseCase(t *testing.T) (*UseCase, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	tokens := token.NewIssuer("test-secret", "taskforge-test")
	return New(users, nil, tokens, nil, nil), users
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	user, tok, err := uc.Register(ctx, "Alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tok == "" {
		t.Error("registration must issue a token")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %s, want user", user.Role)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	logged, tok2, err := uc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID || tok2 == "" {
		t.Error("login must return the registered user and a token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	if _, _, err := uc.Register(ctx, "Alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := uc.Register(ctx, "Mallory", "a@x.com", "other2")
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("duplicate email: got %v, want CONFLICT", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		field    string
	}{
		{"missing name", "", "a@x.com", "secret1", "name"},
		{"bad email", "Alice", "not-an-email", "secret1", "email"},
		{"short password", "Alice", "a@x.com", "123", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Register(ctx, tt.userName, tt.email, tt.password)
			var dErr *domain.Error
			if !errors.As(err, &dErr) || dErr.Code != domain.ErrCodeValidation {
				t.Fatalf("got %v, want VALIDATION", err)
			}
			if dErr.Fields[tt.field] == "" {
				t.Errorf("missing field detail for %q: %+v", tt.field, dErr.Fields)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	if _, _, err := uc.Register(ctx, "Alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPassword := uc.Login(ctx, "a@x.com", "wrong")
	_, _, unknownEmail := uc.Login(ctx, "nobody@x.com", "whatever")

	if !domain.IsDomainError(wrongPassword, domain.ErrCodeInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassword)
	}
	if !domain.IsDomainError(unknownEmail, domain.ErrCodeInvalidCredentials) {
		t.Fatalf("unknown email: got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("error shapes differ: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
	}
}

func TestExternalUserCannotLoginWithPassword(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, _, err := uc.ExchangeExternalIdentity(ctx, domain.ExternalIdentity{
		ID: "google-1", Name: "Ext", Email: "ext@x.com",
	})
	if err != nil {
		t.Fatalf("ExchangeExternalIdentity: %v", err)
	}

	// Absence of a password hash must not act as a wildcard.
	for _, attempt := range []string{"", "anything"} {
		if _, _, err := uc.Login(ctx, "ext@x.com", attempt); !domain.IsDomainError(err, domain.ErrCodeInvalidCredentials) {
			t.Fatalf("password %q on external account: got %v, want INVALID_CREDENTIALS", attempt, err)
		}
	}
}

func TestExchangeExternalIdentityIsCreateIfAbsent(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	first, tok, err := uc.ExchangeExternalIdentity(ctx, domain.ExternalIdentity{
		ID: "google-1", Name: "Ext", Email: "ext@x.com", Avatar: "http://a/pic",
	})
	if err != nil || tok == "" {
		t.Fatalf("first exchange: %v", err)
	}

	second, _, err := uc.ExchangeExternalIdentity(ctx, domain.ExternalIdentity{
		ID: "google-1", Name: "Ext", Email: "ext@x.com",
	})
	if err != nil {
		t.Fatalf("second exchange: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat exchange created a second account: %s vs %s", first.ID, second.ID)
	}
}

func TestExchangeMatchesExistingAccountByEmail(t *testing.T) {
	uc, users := newUseCase(t)
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, "Alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	exchanged, _, err := uc.ExchangeExternalIdentity(ctx, domain.ExternalIdentity{
		ID: "google-9", Name: "Alice G", Email: "a@x.com",
	})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if exchanged.ID != registered.ID {
		t.Errorf("external login for a known email must map to the existing account")
	}

	// First match binds the external id, so later logins resolve directly.
	linked, err := users.GetByExternalID(ctx, "google-9")
	if err != nil {
		t.Fatalf("external id not linked after email match: %v", err)
	}
	if linked.ID != registered.ID {
		t.Errorf("external id linked to %s, want %s", linked.ID, registered.ID)
	}
}

func TestUpdateProfileKeepsEmailAndRole(t *testing.T) {
	uc, users := newUseCase(t)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "Alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := uc.UpdateProfile(ctx, user.ID, "Alice B", "http://a/new")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Alice B" || updated.Avatar != "http://a/new" {
		t.Errorf("display fields not updated: %+v", updated)
	}

	stored, _ := users.GetByID(ctx, user.ID)
	if stored.Email != "a@x.com" || stored.Role != domain.RoleUser {
		t.Errorf("immutable fields changed: %+v", stored)
	}
}

func TestResolveActor(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "Alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	actor, err := uc.ResolveActor(ctx, user.ID)
	if err != nil || actor.ID != user.ID {
		t.Fatalf("ResolveActor: %v", err)
	}
	if _, err := uc.ResolveActor(ctx, "ghost"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("unknown actor: got %v, want NOT_FOUND", err)
	}
}
