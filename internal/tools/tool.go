package tools

import (
	"context"
	"fmt"
	"sort"
)

// Tool defines the interface for all agent capabilities.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema for the tool's inputs
	Execute(ctx context.Context, input string) (string, error)
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Tools))
	for name := range r.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subset returns a registry containing only the named tools. Workflows use
// this to bind their configured tool set; an unknown name is a
// configuration error.
func (r *Registry) Subset(names []string) (*Registry, error) {
	sub := NewRegistry()
	for _, name := range names {
		t := r.Get(name)
		if t == nil {
			return nil, fmt.Errorf("tool %q is not registered (available: %v)", name, r.Names())
		}
		sub.Register(t)
	}
	return sub, nil
}
