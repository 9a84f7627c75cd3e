package viewer

import (
	"fmt"
	"sync"

	"github.com/dmnkit/dmnview/internal/view"
)

// Pool lazily creates and caches viewer instances, at most one per
// provider id, for the lifetime of a controller. The switch
// orchestrator is the pool's single writer.
type Pool struct {
	mu        sync.Mutex
	registry  *view.Registry
	instances map[string]view.Viewer
}

// NewPool creates a pool over the given provider registry.
func NewPool(registry *view.Registry) *Pool {
	return &Pool{
		registry:  registry,
		instances: make(map[string]view.Viewer),
	}
}

// Get returns the cached viewer for the view type, creating it on
// first use. The second return reports whether this call created the
// instance. Requesting a type with no registered provider is a
// programmer error and returns view.ErrNoProvider.
func (p *Pool) Get(viewType string) (view.Viewer, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.instances[viewType]; ok {
		return v, false, nil
	}

	provider, ok := p.registry.Get(viewType)
	if !ok {
		return nil, false, fmt.Errorf("%w for view type %q", view.ErrNoProvider, viewType)
	}

	v := provider.New()
	p.instances[viewType] = v
	return v, true, nil
}

// Cached returns the viewer for the view type only if it already
// exists.
func (p *Pool) Cached(viewType string) (view.Viewer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.instances[viewType]
	return v, ok
}

// Destroy detaches and destroys all cached instances and empties the
// pool. Viewers without the Destroyer capability are only detached.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, v := range p.instances {
		v.Detach()
		if d, ok := v.(view.Destroyer); ok {
			d.Destroy()
		}
		delete(p.instances, id)
	}
}
