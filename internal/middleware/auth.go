package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/token"
)

// ActorResolver loads the acting user behind a verified token subject.
// Satisfied by the auth use case (Redis cache in front of Postgres).
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*domain.User, error)
}

// TokenAuth verifies the bearer token (a pure signature check) and attaches
// the resolved actor to the request. Every failure mode is a uniform 401.
func TokenAuth(verifier *token.Issuer, resolver ActorResolver, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			userID, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Warn("invalid bearer token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			actor, err := resolver.ResolveActor(stdCtx, userID)
			cancel()
			if err != nil {
				// A valid token for a deleted user is still unauthenticated.
				logger.Warn("actor resolution failed", zap.String("user_id", userID), zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			ctx.SetUserValue("actor", actor)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
