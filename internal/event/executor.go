package event

import (
	"context"
	"runtime/debug"
	"time"
)

// Result captures the outcome of a single handler execution.
type Result struct {
	// Success is true if the handler completed without error or panic.
	Success bool

	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the recovered panic value.
	PanicValue any

	// Stack is the stack trace captured on panic.
	Stack []byte

	// Duration is how long the handler ran.
	Duration time.Duration
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, panicValue any, stack []byte)

// executor runs handlers with panic recovery.
type executor struct {
	panicHandler PanicHandler
}

// execute runs a handler synchronously in the caller's goroutine,
// recovering panics into the Result.
func (x *executor) execute(ctx context.Context, event any, handler Handler) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Panicked = true
			result.PanicValue = r
			result.Stack = debug.Stack()
			if x.panicHandler != nil {
				x.panicHandler(event, r, result.Stack)
			}
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		result.Error = err
		return result
	}

	result.Success = true
	return result
}
