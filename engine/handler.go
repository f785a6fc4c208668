package engine

import "context"

// Invocation is one leaf command call handed to the external Handler.
type Invocation struct {
	// Command is the full command reference, e.g. "/sc:analyze".
	Command string
	// Args are the whitespace-separated arguments in declaration order.
	Args []string
	// Context is the live execution context; IsChained is set before every
	// invocation.
	Context *Context
}

// Handler performs the actual work a leaf command names. It is injected and
// opaque to the engine: failure is signalled by the returned error, and any
// returned value passes through unchanged. The engine only optionally reads
// "success", "error", "output", "context", and "data" keys when the value is
// a map.
type Handler interface {
	Execute(ctx context.Context, inv Invocation) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, inv Invocation) (any, error)

// Execute implements Handler.
func (f HandlerFunc) Execute(ctx context.Context, inv Invocation) (any, error) {
	return f(ctx, inv)
}
