package workflow

import (
	"fmt"
	"log"
)

// Registry holds the named workflow handlers for one process. Handlers are
// registered once at startup and resolved by name when wiring gateways and
// routers; the registry is read-only after that.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("workflow name cannot be empty")
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("workflow %q is already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Get resolves a handler by name.
func (r *Registry) Get(name string) (Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q is not registered", name)
	}
	return h, nil
}

// Close tears down every registered handler. Used on shutdown.
func (r *Registry) Close() {
	for name, h := range r.handlers {
		if err := h.Close(); err != nil {
			log.Printf("Error closing workflow %s: %v", name, err)
		}
	}
}
