package jchain

import (
	"fmt"
	"sync"
)

// Sources is an ordered registry of named sources. Registration order is the
// order unnamed references search in. It is safe for concurrent use.
type Sources struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Source
}

func NewSources() *Sources {
	return &Sources{entries: make(map[string]Source)}
}

func validateSource(name string, src Source) error {
	if !validName(name) {
		return fmt.Errorf("source %q: %w (allowed: letters, digits, underscore)", name, ErrInvalidSourceName)
	}
	if src == nil {
		return fmt.Errorf("source %q: nil source", name)
	}
	return nil
}

// Register adds src under name. Names already present are rejected.
func (r *Sources) Register(name string, src Source) error {
	if err := validateSource(name, src); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("source %q: %w", name, ErrDuplicateSource)
	}
	r.order = append(r.order, name)
	r.entries[name] = src
	return nil
}

// Put registers src under name, replacing an existing entry in its original
// position.
func (r *Sources) Put(name string, src Source) error {
	if err := validateSource(name, src); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = src
	return nil
}

func (r *Sources) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.entries[name]
	return src, ok
}

// Remove deletes name and reports whether it was present.
func (r *Sources) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Sources) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List returns a snapshot of the registered sources in registration order.
func (r *Sources) List() []NamedSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]NamedSource, len(r.order))
	for i, name := range r.order {
		out[i] = NamedSource{Name: name, Source: r.entries[name]}
	}
	return out
}
