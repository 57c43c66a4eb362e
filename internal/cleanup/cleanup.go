// Package cleanup provides an ordered finalizer registry. Multiple
// components register restoration closures against the same process
// lifecycle; all of them run, in registration order, exactly once, whether
// the process ends normally, on error, or on an interrupt signal.
package cleanup

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/volker-raschek/gh-actions/internal/logfields"
)

// Func is a single finalizer. Finalizers must tolerate being called in a
// partially torn down process and should not panic.
type Func func()

// Registry accumulates finalizers. Add appends, never replaces. The zero
// value is ready to use.
type Registry struct {
	mu    sync.Mutex
	funcs []Func
	once  sync.Once
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends fn to the registry. Safe for concurrent use.
func (r *Registry) Add(fn Func) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs = append(r.funcs, fn)
}

// Len returns the number of registered finalizers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.funcs)
}

// Run executes all finalizers in registration order. Only the first call
// runs anything; later calls (deferred Run after a signal already fired,
// for example) are no-ops. Finalizers added after Run are never executed.
func (r *Registry) Run() {
	r.once.Do(func() {
		r.mu.Lock()
		funcs := append([]Func(nil), r.funcs...)
		r.mu.Unlock()
		for _, fn := range funcs {
			fn()
		}
	})
}

// Trap installs a handler for SIGINT and SIGTERM that runs the registry and
// exits with the conventional 128+signal status. It returns a stop function
// that uninstalls the handler; callers defer both stop and Run so the normal
// exit path still triggers the finalizers.
func (r *Registry) Trap() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			slog.Warn("Interrupted, running cleanup", slog.String("signal", sig.String()))
			r.Run()
			code := 130
			if sig == syscall.SIGTERM {
				code = 143
			}
			os.Exit(code)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// LogRestoreFailure is a helper for finalizers that can fail: restoration
// errors must not abort teardown, only surface in the log.
func LogRestoreFailure(what string, err error) {
	if err != nil {
		slog.Warn("Cleanup step failed", slog.String("step", what), logfields.Error(err))
	}
}
