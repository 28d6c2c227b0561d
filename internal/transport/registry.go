package transport

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out callback names for script requests. Every name is
// unique and its handler fires at most once, so concurrent requests cannot
// receive each other's responses.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]func(json.RawMessage)
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]func(json.RawMessage))}
}

// Register allocates a fresh callback name for fn. The returned function
// removes the handler if it has not fired yet; it is safe to call twice.
func (r *Registry) Register(fn func(json.RawMessage)) (string, func()) {
	name := "jsonp_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	r.mu.Lock()
	r.handlers[name] = fn
	r.mu.Unlock()

	return name, func() {
		r.mu.Lock()
		delete(r.handlers, name)
		r.mu.Unlock()
	}
}

// Invoke runs and removes the handler registered under name.
func (r *Registry) Invoke(name string, payload json.RawMessage) error {
	r.mu.Lock()
	fn, ok := r.handlers[name]
	delete(r.handlers, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCallback, name)
	}
	fn(payload)
	return nil
}

// Pending reports how many handlers are still waiting.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
