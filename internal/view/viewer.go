package view

import (
	"context"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
)

// Viewer is a stateful renderer/editor instance for one view type,
// reused across views of that type. Instances are created lazily by
// the controller's viewer pool and destroyed only on controller
// teardown.
type Viewer interface {
	// Open renders the element, returning any non-fatal warnings.
	// Open is the suspend point of a view switch; it must tolerate
	// being called repeatedly with different elements.
	Open(ctx context.Context, el model.Element) ([]codec.Warning, error)

	// AttachTo binds the viewer to a host surface.
	AttachTo(s surface.Surface)

	// Detach releases the viewer's surface, if any.
	Detach()
}

// Clearer is an optional viewer capability: reset visual state before
// the viewer is detached during a switch.
type Clearer interface {
	Clear()
}

// Destroyer is an optional viewer capability: release resources on
// controller teardown.
type Destroyer interface {
	Destroy()
}
