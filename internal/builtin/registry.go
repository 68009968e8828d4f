// Package builtin holds the named callables that scenario files and the CLI
// can pass as reducers or mappers.
package builtin

import (
	"fmt"
	"slices"
	"sync"

	"github.com/legendsbarber/seqfold/internal/value"
)

// Kind says which operation a builtin is written for. The evaluator does not
// enforce it: a mapper passed to reduce is still called with
// (acc, cur, index, array).
type Kind string

const (
	KindReducer Kind = "reducer"
	KindMapper  Kind = "mapper"
)

// Builtin is a registered callable with its documentation.
type Builtin struct {
	Func *value.Func
	Kind Kind
	Doc  string
}

// Name returns the callable's name.
func (b Builtin) Name() string { return b.Func.Name }

// Registry maps names to builtins. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Builtin)}
}

// Default returns a registry holding every standard builtin.
func Default() *Registry {
	r := NewRegistry()
	for _, b := range standard() {
		if err := r.Register(b); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds b. Names must be unique and non-empty.
func (r *Registry) Register(b Builtin) error {
	if b.Func == nil || b.Func.Fn == nil {
		return fmt.Errorf("builtin: nil function")
	}
	if b.Func.Name == "" {
		return fmt.Errorf("builtin: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[b.Func.Name]; dup {
		return fmt.Errorf("builtin: duplicate name %q", b.Func.Name)
	}
	r.entries[b.Func.Name] = b
	return nil
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.entries[name]
	return b, ok
}

// Func returns the callable registered under name.
func (r *Registry) Func(name string) (*value.Func, bool) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.Func, true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every builtin sorted by name.
func (r *Registry) All() []Builtin {
	names := r.Names()
	out := make([]Builtin, 0, len(names))
	for _, name := range names {
		b, _ := r.Lookup(name)
		out = append(out, b)
	}
	return out
}

// Resolver adapts the registry for value.FromYAML and
// value.UnmarshalCanonical.
func (r *Registry) Resolver() value.Resolver {
	return r.Func
}
