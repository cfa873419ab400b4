package model

import (
	"fmt"
	"sort"
)

// Registry maps model names to implementations. Models are selected at
// configuration time by name.
type Registry struct {
	models map[string]ReactionModel
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]ReactionModel)}
}

// DefaultRegistry returns a registry with every built-in model.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewCalmodulin())
	r.MustRegister(NewPKC())
	r.MustRegister(NewInert())
	return r
}

// Register adds m. Names must be unique.
func (r *Registry) Register(m ReactionModel) error {
	if m == nil {
		return fmt.Errorf("register: nil model")
	}
	name := m.Name()
	if name == "" {
		return fmt.Errorf("register: model name is empty")
	}
	if _, exists := r.models[name]; exists {
		return fmt.Errorf("register: model %q already registered", name)
	}
	if len(m.Species()) == 0 {
		return fmt.Errorf("register: model %q declares no species", name)
	}
	if m.ReactionCount() < 1 {
		return fmt.Errorf("register: model %q declares no reactions", name)
	}
	r.models[name] = m
	return nil
}

// MustRegister is Register that panics on error. Used for built-ins.
func (r *Registry) MustRegister(m ReactionModel) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (ReactionModel, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %v)", name, r.Names())
	}
	return m, nil
}

// Names returns registered model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
