package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownClosesInReverseOrder(t *testing.T) {
	c := New(time.Second, nil)

	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		n := name
		c.Register(n, func(ctx context.Context) error {
			order = append(order, n)
			return nil
		})
	}

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	want := []string{"http_server", "redis", "postgres"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("close order = %v, want %v", order, want)
		}
	}
}

func TestShutdownContinuesPastFailures(t *testing.T) {
	c := New(time.Second, nil)

	boom := errors.New("close failed")
	var reached bool
	c.Register("store", func(ctx context.Context) error {
		reached = true
		return nil
	})
	c.Register("server", func(ctx context.Context) error { return boom })

	err := c.Shutdown(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Shutdown error = %v, want wrapped %v", err, boom)
	}
	if !reached {
		t.Error("a failing component must not block the ones after it")
	}
}

func TestRegisterIgnoresNil(t *testing.T) {
	c := New(0, nil)
	c.Register("noop", nil)
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
