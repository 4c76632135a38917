package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic marks errors produced by a recovered panic.
var ErrPanic = errors.New("task panicked")

// Manager runs named background tasks with a concurrency limit.
//
// Errors returned by tasks, and panics, are collected and reported by Wait
// prefixed with the task name.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	running map[string]int
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema:    make(chan struct{}, maxGoroutine),
		running: map[string]int{},
	}
}

// Go runs f in a goroutine once a slot is free.
//
// It blocks while the manager is at its limit and gives up if ctx ends first.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "task canceled before start", "task", name, "because", ctx.Err())
		return
	}

	g.track(name, 1)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema
			g.track(name, -1)

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in task", "task", name, "because", rvr, "stack", string(debug.Stack()))
				g.collect(fmt.Errorf("%s: %w: %v", name, ErrPanic, rvr))
			}
		}()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "task canceled", "task", name, "because", ctx.Err())
			return
		}
		if err := f(ctx); err != nil {
			g.collect(fmt.Errorf("%s: %w", name, err))
		}
	}()
}

// Every runs f on each tick of interval until ctx is done.
//
// Errors returned by f are logged and do not stop the loop; the task occupies
// one concurrency slot for its whole lifetime.
func (g *Manager) Every(ctx context.Context, name string, interval time.Duration, f func(ctx context.Context) error) {
	if interval <= 0 {
		slog.WarnContext(ctx, "periodic task disabled", "task", name, "interval", interval)
		return
	}

	g.Go(ctx, name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.DebugContext(ctx, "periodic task stopped", "task", name)
				return nil
			case <-ticker.C:
				if err := f(ctx); err != nil {
					slog.WarnContext(ctx, "periodic task failed", "task", name, "error", err)
				}
			}
		}
	})
}

// Running reports how many instances of each task are in flight.
func (g *Manager) Running() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]int, len(g.running))
	for name, n := range g.running {
		out[name] = n
	}
	return out
}

// Wait blocks until all scheduled tasks finish and returns the collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

func (g *Manager) track(name string, delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.running[name] += delta
	if g.running[name] <= 0 {
		delete(g.running, name)
	}
}
