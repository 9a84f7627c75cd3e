// Package manager implements the multi-view document controller: it
// imports and exports decision-model documents, derives the set of
// displayable views, keeps exactly one view active, and switches the
// active viewer asynchronously while announcing lifecycle milestones
// on the notification bus.
package manager

import (
	"context"
	"sync"

	"github.com/dmnkit/dmnview/internal/event"
	"github.com/dmnkit/dmnview/internal/event/events"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
	"github.com/dmnkit/dmnview/internal/view"
	"github.com/dmnkit/dmnview/internal/viewer"
)

// InitialViewFunc selects the view to activate when there is no
// previous active view to preserve. Returning nil selects no view.
type InitialViewFunc func(views []view.Descriptor) *view.Descriptor

// Manager is the multi-view document controller. One Manager owns one
// document, one viewer pool, and one notification bus; it is not meant
// to be shared across documents.
//
// Overlapping import or switch requests are not queued behind a lock:
// each composes onto whatever switch is currently outstanding. Callers
// that need a deterministic final state must not issue overlapping
// requests.
type Manager struct {
	logger   *Logger
	bus      event.Bus
	registry *view.Registry
	pool     *viewer.Pool
	initial  InitialViewFunc

	mu           sync.Mutex
	defs         *model.Definitions
	views        []view.Descriptor
	activeView   *view.Descriptor
	activeViewer view.Viewer
	surface      surface.Surface

	switchMu   sync.Mutex
	lastSwitch *switchOp
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the controller's logger.
func WithLogger(l *Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBus sets the notification bus. By default each Manager creates
// its own; sharing a bus across controllers is unsupported.
func WithBus(b event.Bus) Option {
	return func(m *Manager) {
		if b != nil {
			m.bus = b
		}
	}
}

// WithInitialView overrides the initial-view heuristic. The default
// selects the first derived view.
func WithInitialView(f InitialViewFunc) Option {
	return func(m *Manager) {
		if f != nil {
			m.initial = f
		}
	}
}

// New creates a controller over the given provider registry.
func New(registry *view.Registry, opts ...Option) *Manager {
	m := &Manager{
		logger:   NewLogger(nil, LogLevelInfo),
		bus:      event.NewBus(),
		registry: registry,
		initial:  firstView,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.pool = viewer.NewPool(registry)
	return m
}

// NewDefault creates a controller with the built-in viewers.
func NewDefault(opts ...Option) (*Manager, error) {
	registry, err := view.NewRegistry(viewer.DefaultProviders()...)
	if err != nil {
		return nil, err
	}
	return New(registry, opts...), nil
}

// firstView is the default initial-view heuristic.
func firstView(views []view.Descriptor) *view.Descriptor {
	if len(views) == 0 {
		return nil
	}
	return &views[0]
}

// Bus returns the controller's notification bus for subscriptions.
func (m *Manager) Bus() event.Bus {
	return m.bus
}

// Definitions returns the currently installed document, or nil.
func (m *Manager) Definitions() *model.Definitions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defs
}

// Views returns a snapshot of the current view set in display order.
func (m *Manager) Views() []view.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]view.Descriptor(nil), m.views...)
}

// ActiveView returns the current active view, or nil. During a pending
// switch this reports the switch target: the active-view pointer is
// assigned eagerly, before the viewer's open completes.
func (m *Manager) ActiveView() *view.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeView
}

// AttachTo binds the controller to a host surface, re-attaching the
// active viewer if one exists.
func (m *Manager) AttachTo(s surface.Surface) {
	m.mu.Lock()
	m.surface = s
	v := m.activeViewer
	m.mu.Unlock()

	if v != nil && s != nil {
		v.AttachTo(s)
	}
	m.publishLogged(context.Background(), &events.Attach{})
}

// Detach releases the controller's surface.
func (m *Manager) Detach() {
	m.mu.Lock()
	v := m.activeViewer
	m.surface = nil
	m.mu.Unlock()

	if v != nil {
		v.Detach()
	}
	m.publishLogged(context.Background(), &events.Detach{})
}

// Destroy detaches the controller and destroys all pooled viewers.
// The Manager must not be used afterwards.
func (m *Manager) Destroy() {
	m.Detach()
	m.pool.Destroy()
}

// install replaces the document wholesale, derives the new view set,
// selects the new active view and records it as active immediately, so
// the active view is always a member of the current view set even when
// no switch follows. It returns the selection and whether the
// transition counts as a views change.
func (m *Manager) install(defs *model.Definitions) (target *view.Descriptor, changed bool) {
	newViews := view.Derive(defs, m.registry)

	m.mu.Lock()
	oldViews := m.views
	oldActive := m.activeView

	target = selectActive(oldActive, newViews, m.initial)
	changed = view.Changed(oldViews, newViews, oldActive, target)

	m.defs = defs
	m.views = newViews
	m.activeView = target
	m.mu.Unlock()

	if target == nil && oldActive != nil {
		// The previously active view became unavailable. Not an
		// error: the absence is announced through views.changed.
		m.logger.Info("active view became unavailable", F("view", oldActive.ID))
	}
	return target, changed
}

// selectActive picks the view to keep active after a document change:
// the previous active view when still present (by same-view identity),
// otherwise the initial-view heuristic.
func selectActive(previous *view.Descriptor, views []view.Descriptor, initial InitialViewFunc) *view.Descriptor {
	if previous != nil {
		for i := range views {
			if view.Same(&views[i], previous) {
				return &views[i]
			}
		}
	}
	return initial(views)
}

// publishLogged publishes a notification and logs, rather than
// propagates, listener failures. Used for terminal notifications whose
// listeners must not break the caller.
func (m *Manager) publishLogged(ctx context.Context, ev any) {
	if err := m.bus.Publish(ctx, ev); err != nil {
		fields := []Field{F("error", err)}
		if tp, ok := ev.(event.TopicProvider); ok {
			fields = append(fields, F("topic", tp.EventTopic()))
		}
		m.logger.Error("notification listener failed", fields...)
	}
}

// viewsChangedEvent snapshots current state for a views.changed
// notification.
func (m *Manager) viewsChangedEvent() *events.ViewsChanged {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &events.ViewsChanged{
		Views:      append([]view.Descriptor(nil), m.views...),
		ActiveView: m.activeView,
	}
}
