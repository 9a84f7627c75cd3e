// Package script hosts user Lua hooks for the document controller.
// Scripts register rewrite functions that run inside the controller's
// import and export lifecycle: import hooks see the raw XML before it
// is parsed, export hooks see the serialized XML before it is returned.
// Hooks chain in registration order, each receiving the previous hook's
// output; a hook that returns nil leaves the text unchanged.
package script

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dmnkit/dmnview/internal/event"
	"github.com/dmnkit/dmnview/internal/event/events"
)

// Host runs user scripts against a controller's notification bus.
//
// gopher-lua's LState is not goroutine-safe; the Host serializes all
// Lua execution behind its mutex. Hook invocations happen on whichever
// goroutine publishes the lifecycle notification.
type Host struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool

	importHooks []*lua.LFunction
	exportHooks []*lua.LFunction

	bus  event.Bus
	subs []event.Subscription
}

// ErrHostClosed indicates use of a Host after Close.
var ErrHostClosed = fmt.Errorf("script host is closed")

// NewHost creates a script host bound to the given bus. The Lua state
// is sandboxed: only the base, table, string and math libraries are
// opened; io, os, debug and package stay out of reach.
func NewHost(bus event.Bus) (*Host, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(state)
	lua.OpenTable(state)
	lua.OpenString(state)
	lua.OpenMath(state)

	h := &Host{state: state, bus: bus}
	h.installModule()

	if err := h.subscribe(); err != nil {
		state.Close()
		return nil, err
	}
	return h, nil
}

// installModule registers the dmnview module visible to scripts.
func (h *Host) installModule() {
	mod := h.state.SetFuncs(h.state.NewTable(), map[string]lua.LGFunction{
		"on_import": func(L *lua.LState) int {
			fn := L.CheckFunction(1)
			h.importHooks = append(h.importHooks, fn)
			return 0
		},
		"on_export": func(L *lua.LState) int {
			fn := L.CheckFunction(1)
			h.exportHooks = append(h.exportHooks, fn)
			return 0
		},
	})
	h.state.SetGlobal("dmnview", mod)
}

func (h *Host) subscribe() error {
	importSub, err := h.bus.SubscribeFunc(events.TopicImportParseStart,
		func(_ context.Context, ev any) error {
			start := ev.(*events.ImportParseStart)
			rewritten, err := h.runChain(h.snapshot(&h.importHooks), start.XML)
			if err != nil {
				return fmt.Errorf("import hook: %w", err)
			}
			start.XML = rewritten
			return nil
		}, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	h.subs = append(h.subs, importSub)

	exportSub, err := h.bus.SubscribeFunc(events.TopicSaveXMLSerialized,
		func(_ context.Context, ev any) error {
			ser := ev.(*events.SaveXMLSerialized)
			if ser.Error != nil {
				return nil
			}
			rewritten, err := h.runChain(h.snapshot(&h.exportHooks), ser.XML)
			if err != nil {
				return fmt.Errorf("export hook: %w", err)
			}
			ser.XML = rewritten
			return nil
		}, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	h.subs = append(h.subs, exportSub)
	return nil
}

func (h *Host) snapshot(hooks *[]*lua.LFunction) []*lua.LFunction {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*lua.LFunction(nil), *hooks...)
}

// runChain feeds text through the hooks in order. A hook returning a
// string replaces the text for the hooks after it; any other return
// value keeps the current text.
func (h *Host) runChain(hooks []*lua.LFunction, text string) (string, error) {
	for _, fn := range hooks {
		out, err := h.call(fn, text)
		if err != nil {
			return text, err
		}
		if s, ok := out.(lua.LString); ok {
			text = string(s)
		}
	}
	return text, nil
}

// call invokes one Lua function with a single string argument.
func (h *Host) call(fn *lua.LFunction, arg string) (result lua.LValue, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return lua.LNil, ErrHostClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := h.state.GetTop()
	h.state.Push(fn)
	h.state.Push(lua.LString(arg))
	if err := h.state.PCall(1, 1, nil); err != nil {
		return lua.LNil, err
	}

	result = h.state.Get(top + 1)
	h.state.SetTop(top)
	return result, nil
}

// Load executes a script file, letting it register hooks.
func (h *Host) Load(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.doWithRecovery(func() error { return h.state.DoFile(path) })
}

// LoadString executes inline script source, letting it register hooks.
func (h *Host) LoadString(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.doWithRecovery(func() error { return h.state.DoString(code) })
}

func (h *Host) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// HookCount returns the number of registered import and export hooks.
func (h *Host) HookCount() (imports, exports int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.importHooks), len(h.exportHooks)
}

// Close detaches the host from the bus and releases the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	for _, sub := range h.subs {
		_ = h.bus.Unsubscribe(sub)
	}
	h.subs = nil

	h.state.Close()
	return nil
}
