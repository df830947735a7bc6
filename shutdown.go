package logplus

import (
	"errors"
	"fmt"
	"sync"
)

type shutdownHook struct {
	name string
	fn   func() error
}

// ShutdownCoordinator runs teardown hooks in reverse order of registration.
// Each hook runs at most once; hooks registered after Run are kept for the
// next Run.
type ShutdownCoordinator struct {
	mu    sync.Mutex
	hooks []shutdownHook
}

// NewShutdownCoordinator returns an empty coordinator.
func NewShutdownCoordinator() *ShutdownCoordinator {
	return &ShutdownCoordinator{}
}

// Register adds a hook. Hooks registered later run earlier.
func (c *ShutdownCoordinator) Register(name string, fn func() error) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.hooks = append(c.hooks, shutdownHook{name: name, fn: fn})
	c.mu.Unlock()
}

// Run executes the pending hooks last-in first-out and returns their
// joined errors. A failing hook does not stop the others.
func (c *ShutdownCoordinator) Run() error {
	c.mu.Lock()
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown hook %q: %w", hooks[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// RegisterShutdownHooks registers the logging teardown on c. File sinks are
// registered first and auto tracing second, so at run time tracing stops
// before the file sinks are detached and closed; log calls made after Run
// never reach a closed file.
func (m *Manager) RegisterShutdownHooks(c *ShutdownCoordinator) error {
	if m == nil {
		return ErrNilManager
	}
	if c == nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, errMsgNilShutdown)
	}
	c.Register("remove file sinks", m.CleanupLoggers)
	c.Register("stop auto tracing", func() error {
		UnregisterAutoLogEntryExit()
		return nil
	})
	return nil
}

// Setup returns a coordinator holding the teardown of the default manager.
// Call it at process start and run it on the way out:
//
//	shutdown := logplus.Setup()
//	defer shutdown.Run()
func Setup() *ShutdownCoordinator {
	c := NewShutdownCoordinator()
	_ = defaultManager.RegisterShutdownHooks(c)
	return c
}
