// Package lifecycle sequences service teardown: the HTTP server stops
// accepting work first, then the sweeper and monitor, then the stores,
// mirroring the reverse of boot order.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// CloseFunc releases one component. It must respect ctx's deadline; a hung
// store close should not stall the whole shutdown.
type CloseFunc func(ctx context.Context) error

type component struct {
	name  string
	close CloseFunc
}

// Coordinator collects the components booted in main and closes them in
// reverse registration order when the service stops.
type Coordinator struct {
	grace  time.Duration
	logger *zap.Logger

	mu         sync.Mutex
	components []component
}

func New(grace time.Duration, logger *zap.Logger) *Coordinator {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		grace:  grace,
		logger: logger,
	}
}

// Register adds a component. Registration order should follow boot order;
// Shutdown walks the list backwards.
func (c *Coordinator) Register(name string, fn CloseFunc) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component{name: name, close: fn})
}

// OnSignal arranges for cancel to run when SIGTERM or SIGINT arrives.
func (c *Coordinator) OnSignal(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		c.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

// Shutdown closes every registered component, newest first, within the grace
// period. A failing component is logged and skipped so the remaining ones
// still get their chance to close; the joined error is returned at the end.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.grace)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	var result error
	for i := len(c.components) - 1; i >= 0; i-- {
		comp := c.components[i]
		started := time.Now()
		if err := comp.close(ctx); err != nil {
			c.logger.Error("component close failed",
				zap.String("component", comp.name),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		c.logger.Info("component closed",
			zap.String("component", comp.name),
			zap.Duration("elapsed", time.Since(started)))
	}
	return result
}
