package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"linguist/internal/ports"
)

// Registry holds provider clients by configured name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ports.Provider
}

func New() *Registry {
	return &Registry{providers: make(map[string]ports.Provider)}
}

func (r *Registry) Register(name string, p ports.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

func (r *Registry) Get(name string) (ports.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// HealthCheck tests all providers concurrently and reports per name.
func (r *Registry) HealthCheck(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]error, len(r.providers))
	var mu sync.Mutex
	var g errgroup.Group
	for name, p := range r.providers {
		name, p := name, p
		g.Go(func() error {
			var err error
			if p == nil {
				err = errors.New("nil provider")
			} else {
				err = p.Test(ctx)
			}
			mu.Lock()
			out[name] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
