package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/kadirpekel/llamarouter/registry"
)

// Registry holds CallableTool implementations keyed by name and supports
// lazy-once initialization: the first caller to need a populated registry
// triggers Init, and at most one Init attempt is made per process even if
// it fails, matching the bounded-retry behavior of the original
// ToolRegistryManager ("no init storm on every request while the backing
// tool API is down").
type Registry struct {
	base *registry.BaseRegistry[CallableTool]

	initOnce   sync.Once
	initErr    error
	initCalled bool
	initMu     sync.Mutex
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{base: registry.NewBaseRegistry[CallableTool]()}
}

// Register adds or replaces a tool under its own Name().
func (r *Registry) Register(t CallableTool) error {
	return r.base.Register(t.Name(), t)
}

// EnsureInitialized runs initFn exactly once across the registry's
// lifetime, regardless of how many goroutines call it concurrently or
// whether the prior attempt failed. Callers that need the registry
// populated before dispatch should call this first.
func (r *Registry) EnsureInitialized(initFn func() error) error {
	r.initOnce.Do(func() {
		r.initMu.Lock()
		r.initCalled = true
		r.initMu.Unlock()
		r.initErr = initFn()
	})
	return r.initErr
}

// Initialized reports whether EnsureInitialized has been called, whether
// or not it succeeded.
func (r *Registry) Initialized() bool {
	r.initMu.Lock()
	defer r.initMu.Unlock()
	return r.initCalled
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (CallableTool, bool) {
	return r.base.Get(name)
}

// List returns every registered tool.
func (r *Registry) List() []CallableTool {
	return r.base.List()
}

// Names returns every registered tool name.
func (r *Registry) Names() []string {
	return r.base.Names()
}

// Definitions returns the LLM-facing Definition for every registered tool,
// suitable for a native tool-calling request's "tools" array.
func (r *Registry) Definitions() []Definition {
	tools := r.base.List()
	defs := make([]Definition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToDefinition(t))
	}
	return defs
}

// HealthCheckAll runs HealthCheck on every registered tool that implements
// HealthChecker and returns an error aggregating any failures.
func (r *Registry) HealthCheckAll(ctx context.Context) error {
	var failed []string
	for _, t := range r.base.List() {
		hc, ok := t.(HealthChecker)
		if !ok {
			continue
		}
		if err := hc.HealthCheck(ctx); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", t.Name(), err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("tool health check failed for: %v", failed)
	}
	return nil
}
