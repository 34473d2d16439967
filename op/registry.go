// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package op

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry errors.
var (
	// ErrUnknownClass is returned when no class is registered under a name.
	ErrUnknownClass = errors.New("op: unknown operation class")

	// ErrDuplicateClass is returned when a name is registered twice.
	ErrDuplicateClass = errors.New("op: duplicate operation class")
)

// Factory creates a new operation with default properties.
type Factory func() Operation

// Class describes a registered operation.
type Class struct {
	// Name is the unique identifier, e.g. "gaussian-blur".
	Name string

	// Kind is the kind of every operation New returns.
	Kind Kind

	// Description is a one-line summary shown by tooling.
	Description string

	// New creates instances.
	New Factory
}

// UnknownClassError reports a lookup of an unregistered name.
type UnknownClassError struct {
	Name string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("op: unknown operation class %q", e.Name)
}

func (e *UnknownClassError) Unwrap() error { return ErrUnknownClass }

// Registry maps class names to classes.
//
// The process-wide registry returned by DefaultRegistry starts empty; the
// root pixflow package fills it in Init and empties it in Exit. Tests and
// embedders can use private registries from NewRegistry.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a class. The class kind is checked against an instance
// created by its factory.
func (r *Registry) Register(c Class) error {
	if c.Name == "" || c.New == nil {
		return fmt.Errorf("op: register %q: name and factory are required", c.Name)
	}
	if k := c.New().Kind(); k != c.Kind {
		return fmt.Errorf("op: register %q: factory returns kind %v, class declares %v", c.Name, k, c.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.classes == nil {
		r.classes = make(map[string]*Class)
	}
	if _, ok := r.classes[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateClass, c.Name)
	}
	r.classes[c.Name] = &c
	return nil
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	return c, ok
}

// New creates an operation of the named class.
func (r *Registry) New(name string) (Operation, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownClassError{Name: name}
	}
	return c.New(), nil
}

// List returns all classes sorted by name.
func (r *Registry) List() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Reset removes every class.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes = make(map[string]*Class)
}
