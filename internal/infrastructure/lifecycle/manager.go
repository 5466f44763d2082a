// Package lifecycle stops long-running components in reverse start order.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/focusqueue/core/internal/infrastructure/logger"
)

// ShutdownFunc stops one component.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager runs shutdown hooks when the process is asked to stop.
type Manager struct {
	timeout time.Duration
	logger  *logger.Logger

	mu    sync.Mutex
	hooks []hook
	done  bool
}

// New creates a manager. A non-positive timeout falls back to 15s.
func New(timeout time.Duration, log *logger.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  log.WithComponent("lifecycle"),
	}
}

// Register adds a hook. The last registered hook runs first.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
}

// Shutdown runs every hook once within the timeout and joins their errors.
// Later calls are no-ops.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.done = true

	var result error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		if err := h.fn(ctx); err != nil {
			m.logger.Errorw("Shutdown hook failed", "hook", h.name, "error", err)
			result = errors.Join(result, err)
			continue
		}
		m.logger.Infow("Component stopped", "hook", h.name)
	}
	return result
}

// Listen cancels the returned context on SIGINT or SIGTERM.
func (m *Manager) Listen(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			m.logger.Infow("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
