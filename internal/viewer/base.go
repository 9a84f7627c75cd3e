package viewer

import (
	"sync"

	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
)

// base carries the attach/detach state shared by the built-in viewers.
type base struct {
	mu      sync.Mutex
	surface surface.Surface
	element model.Element
}

// AttachTo binds the viewer to a surface. If the viewer has an open
// element it redraws immediately.
func (b *base) attachTo(s surface.Surface, redraw func(surface.Surface, model.Element)) {
	b.mu.Lock()
	b.surface = s
	el := b.element
	b.mu.Unlock()

	if s != nil && el != nil {
		s.Clear()
		redraw(s, el)
		s.Flush()
	}
}

// Detach releases the surface.
func (b *base) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surface = nil
}

// setElement records the open element and returns the current surface.
func (b *base) setElement(el model.Element) surface.Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.element = el
	return b.surface
}

// reset forgets the open element and clears the surface if attached.
func (b *base) reset() {
	b.mu.Lock()
	s := b.surface
	b.element = nil
	b.mu.Unlock()

	if s != nil {
		s.Clear()
		s.Flush()
	}
}
