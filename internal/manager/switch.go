package manager

import (
	"context"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/event/events"
	"github.com/dmnkit/dmnview/internal/view"
)

// SwitchResult is the settlement of one view switch.
type SwitchResult struct {
	// View is the switch target, nil for a switch to no view.
	View *view.Descriptor

	// Warnings are the warnings returned by the viewer's open.
	Warnings []codec.Warning

	// Err is the open failure, if any, as an *OpenError.
	Err error
}

// switchOp tracks one in-flight switch for composition.
type switchOp struct {
	done chan struct{}
}

// SwitchView asynchronously switches the active view to target (nil
// switches to no view). The returned channel delivers exactly one
// SwitchResult.
//
// A switch issued while another is outstanding composes onto it: the
// new operation starts only after the outstanding one settles. There
// is no cancellation; an in-flight switch always runs to settlement.
//
// Requesting a view type with no registered provider is a programmer
// error and panics with view.ErrNoProvider.
func (m *Manager) SwitchView(ctx context.Context, target *view.Descriptor) <-chan SwitchResult {
	if target != nil {
		if _, ok := m.registry.Get(target.Type); !ok {
			panic(view.ErrNoProvider)
		}
	}

	op := &switchOp{done: make(chan struct{})}
	m.switchMu.Lock()
	prev := m.lastSwitch
	m.lastSwitch = op
	m.switchMu.Unlock()

	results := make(chan SwitchResult, 1)
	go func() {
		defer close(op.done)
		if prev != nil {
			<-prev.done
		}
		results <- m.doSwitch(ctx, target)
	}()
	return results
}

// OpenView switches to target and blocks until settlement.
func (m *Manager) OpenView(ctx context.Context, target *view.Descriptor) (SwitchResult, error) {
	res := <-m.SwitchView(ctx, target)
	return res, res.Err
}

// doSwitch runs one switch to settlement: resolve the new viewer,
// detach the old one if different, record the target as active (eager,
// before open completes), attach and open the new viewer, settle.
func (m *Manager) doSwitch(ctx context.Context, target *view.Descriptor) SwitchResult {
	newViewer, err := m.resolveViewer(ctx, target)
	if err != nil {
		// Registry coverage was checked in SwitchView; reaching this
		// is a programmer error.
		panic(err)
	}

	m.mu.Lock()
	oldViewer := m.activeViewer
	surf := m.surface
	m.mu.Unlock()

	// Detaching. Skipped when the new view reuses the same viewer
	// instance: no visual churn on same-type switches. Clear and
	// detach do not report errors; a panicking viewer propagates to
	// the switch goroutine as fatal.
	if oldViewer != nil && oldViewer != newViewer {
		if c, ok := oldViewer.(view.Clearer); ok {
			c.Clear()
		}
		oldViewer.Detach()
	}

	// Eager active-view assignment. The pointer moves before open
	// completes so synchronous readers see the switch target; this is
	// a deliberate eventual-consistency contract of the controller.
	m.mu.Lock()
	m.activeView = target
	m.activeViewer = newViewer
	m.mu.Unlock()
	m.publishLogged(ctx, m.viewsChangedEvent())

	if newViewer == nil {
		// Switch to no view settles immediately; the notification just
		// published doubles as the settlement one.
		return SwitchResult{}
	}

	if oldViewer != newViewer && surf != nil {
		newViewer.AttachTo(surf)
	}

	m.publishLogged(ctx, &events.ImportRenderStart{View: target, Element: target.Element})

	warnings, openErr := newViewer.Open(ctx, target.Element)

	m.publishLogged(ctx, &events.ImportRenderComplete{
		View:     target,
		Error:    openErr,
		Warnings: warnings,
	})
	// Settlement notification; possibly redundant with the eager one,
	// consumers treat views.changed as level-triggered.
	m.publishLogged(ctx, m.viewsChangedEvent())

	if openErr != nil {
		return SwitchResult{
			View:     target,
			Warnings: warnings,
			Err:      &OpenError{ViewType: target.Type, Warnings: warnings, Err: openErr},
		}
	}
	return SwitchResult{View: target, Warnings: warnings}
}

// resolveViewer returns the pooled viewer for the target view, lazily
// creating it and announcing the creation on first use. A nil target
// resolves to no viewer.
func (m *Manager) resolveViewer(ctx context.Context, target *view.Descriptor) (view.Viewer, error) {
	if target == nil {
		return nil, nil
	}
	v, created, err := m.pool.Get(target.Type)
	if err != nil {
		return nil, err
	}
	if created {
		m.publishLogged(ctx, &events.ViewerCreated{Type: target.Type, Viewer: v})
		m.logger.Debug("viewer created", F("type", target.Type))
	}
	return v, nil
}
