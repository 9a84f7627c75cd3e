package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Surface on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	style  tcell.Style
}

// NewTerminal creates a terminal surface and initializes the screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Terminal{
		screen: screen,
		style:  tcell.StyleDefault,
	}, nil
}

// NewTerminalWithScreen wraps an existing screen. Used by tests with a
// simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, style: tcell.StyleDefault}
}

// SetLine implements Surface.
func (t *Terminal) SetLine(y int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		t.screen.SetContent(x, y, r, nil, t.style)
		x++
	}
	for ; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, t.style)
	}
}

// Clear implements Surface.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

// Size implements Surface.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// Flush implements Surface.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// PollEvent blocks until the next terminal event.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}
