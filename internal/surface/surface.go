// Package surface provides the host surfaces viewers render onto:
// an in-memory line buffer and a tcell-backed terminal.
package surface

import (
	"strings"
	"sync"
)

// Surface is the host drawing target a viewer attaches to. Viewers
// render line-oriented text; richer styling is the surface's concern.
type Surface interface {
	// SetLine writes a line of text at row y, replacing its content.
	SetLine(y int, text string)

	// Clear erases all content.
	Clear()

	// Size returns the surface dimensions in character cells.
	// A height of 0 means unbounded.
	Size() (width, height int)

	// Flush makes previous writes visible. A no-op for buffered
	// surfaces that are read directly.
	Flush()
}

// Buffer is an in-memory Surface used by tests and text export.
type Buffer struct {
	mu    sync.Mutex
	width int
	lines []string
}

// NewBuffer creates a buffer surface with the given width and
// unbounded height.
func NewBuffer(width int) *Buffer {
	return &Buffer{width: width}
}

// SetLine implements Surface.
func (b *Buffer) SetLine(y int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 {
		return
	}
	for len(b.lines) <= y {
		b.lines = append(b.lines, "")
	}
	if b.width > 0 && len(text) > b.width {
		text = text[:b.width]
	}
	b.lines[y] = text
}

// Clear implements Surface.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Size implements Surface.
func (b *Buffer) Size() (int, int) {
	return b.width, 0
}

// Flush implements Surface.
func (b *Buffer) Flush() {}

// Lines returns a copy of the buffer's content.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// String returns the buffer joined by newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}
