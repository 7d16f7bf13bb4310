package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
)

// actorKey is the request user-value slot the auth middleware fills with the
// resolved *domain.User.
const actorKey = "actor"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// actor returns the authenticated user attached by the middleware, writing a
// 401 when it is absent.
func (h baseHandler) actor(ctx *fasthttp.RequestCtx) *domain.User {
	if user, ok := ctx.UserValue(actorKey).(*domain.User); ok && user != nil {
		return user
	}
	h.respondFail(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), "missing or invalid credentials")
	return nil
}

// respondFail writes a handler-level failure. The error body is always an
// ErrorDetail object so clients see one shape regardless of whether the
// failure came from the handler or the domain.
func (h baseHandler) respondFail(ctx *fasthttp.RequestCtx, status int, code, message string) {
	h.respondJSON(ctx, status, transport.NewError(code, transport.ErrorDetail{Message: message}, nil))
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

// respondError maps domain errors onto transport statuses. Internal failures
// are logged with detail and surfaced as a generic message only.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)

	detail := transport.ErrorDetail{Message: err.Error()}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		detail.Message = dErr.Message
		detail.Fields = dErr.Fields
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error", zap.String("path", string(ctx.Path())), zap.Error(err))
		detail = transport.ErrorDetail{Message: "internal server error"}
	}

	h.respondJSON(ctx, status, transport.NewError(code, detail, nil))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeInvalidCredentials):
		return http.StatusUnauthorized, string(domain.ErrCodeInvalidCredentials)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return http.StatusBadRequest, string(domain.ErrCodeValidation)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
