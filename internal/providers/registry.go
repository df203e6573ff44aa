package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Factory builds a provider from shared dependencies.
type Factory func(deps Deps) Provider

// Deps are the collaborators handed to provider factories.
type Deps struct {
	Fetcher Fetcher
	Logger  *slog.Logger
}

// Registry maps provider names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Registering a name twice replaces the factory
// but keeps the original listing position.
func (r *Registry) Register(name string, factory Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Build instantiates the named providers in the order given. Unknown names
// produce a ConfigError listing the valid choices.
func (r *Registry) Build(names []string, deps Deps) ([]Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		factory, ok := r.factories[name]
		if !ok {
			valid := append([]string(nil), r.order...)
			sort.Strings(valid)
			return nil, NewConfigError("search.providers", "unknown provider %q (valid: %s)", raw, strings.Join(valid, ", "))
		}
		seen[name] = struct{}{}
		out = append(out, factory(deps))
	}
	if len(out) == 0 {
		return nil, NewConfigError("search.providers", "no providers selected")
	}
	return out, nil
}

// String implements fmt.Stringer for log output.
func (r *Registry) String() string {
	return fmt.Sprintf("providers%v", r.Names())
}
