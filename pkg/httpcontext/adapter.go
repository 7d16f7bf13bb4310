// Package httpcontext bridges fasthttp's request type and the stdlib
// context the use cases and repositories expect.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/taskforge/backend/pkg/logger"
)

// Adapter derives a deadline-bound context from an incoming request and
// propagates the request id, echoing it back in the response header so
// clients can quote it when reporting a problem.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns a context that expires with the request budget. The caller
// owns the cancel func.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := requestID(ctx)
	stdCtx = logger.ContextWithRequestID(stdCtx, id)
	ctx.Response.Header.Set("X-Request-ID", id)

	return stdCtx, cancel
}

// requestID honors a caller-supplied X-Request-ID so ids stay stable across
// proxies, minting one otherwise.
func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
			return header
		}
	}
	return uuid.NewString()
}
