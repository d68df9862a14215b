// Package container provides lazily built, memoized singletons.
//
// A Container is a registry of named slots. Each Slot holds at most one
// instance of its component: the factory runs on the first Get and the
// result is returned by every later Get. A factory error is handed back to
// the caller and leaves the slot empty, so the next Get tries again.
//
//	c := container.New()
//	db := container.Singleton(c, "db", func() (*database.Handle, error) {
//	    return database.Open("sqlite", "db.sqlite")
//	})
//	users := container.Singleton(c, "users", func() (*services.UserService, error) {
//	    h, err := db.Get()
//	    if err != nil {
//	        return nil, err
//	    }
//	    return services.NewUserService(h), nil
//	})
//
// Factories may call Get on other slots; dependency cycles deadlock.
package container

import (
	"fmt"
	"sync"
)

// Factory builds the instance held by a slot.
type Factory[T any] func() (T, error)

// Slot is one lazily built singleton.
type Slot[T any] struct {
	name    string
	factory Factory[T]

	mu     sync.Mutex
	built  bool
	value  T
	builds int
}

// Get returns the instance, building it on first use. Concurrent first
// calls wait for a single build.
func (s *Slot[T]) Get() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built {
		return s.value, nil
	}

	v, err := s.factory()
	s.builds++
	if err != nil {
		var zero T
		return zero, fmt.Errorf("container: build %q: %w", s.name, err)
	}

	s.value = v
	s.built = true
	return v, nil
}

// MustGet is Get for components whose factory cannot fail.
func (s *Slot[T]) MustGet() T {
	v, err := s.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Peek returns the instance only if it has already been built.
func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.built
}

// Name returns the binding name.
func (s *Slot[T]) Name() string { return s.name }

// Resolved reports whether the instance has been built.
func (s *Slot[T]) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built
}

// Attempts returns how many times the factory has run, failed runs included.
func (s *Slot[T]) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds
}

// binding is the type-erased view of a Slot kept by the Container.
type binding interface {
	Name() string
	Resolved() bool
	Attempts() int
}

// Binding describes one registered slot.
type Binding struct {
	Name     string
	Resolved bool
	Attempts int
}

// Container is a registry of slots in registration order.
type Container struct {
	mu    sync.RWMutex
	order []string
	slots map[string]binding
}

// New returns an empty container.
func New() *Container {
	return &Container{slots: make(map[string]binding)}
}

// Singleton registers a slot named name. Registering the same name twice
// panics: the wiring is fixed when the graph is assembled.
func Singleton[T any](c *Container, name string, factory Factory[T]) *Slot[T] {
	if factory == nil {
		panic(fmt.Sprintf("container: nil factory for %q", name))
	}

	s := &Slot[T]{name: name, factory: factory}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.slots[name]; exists {
		panic(fmt.Sprintf("container: duplicate binding %q", name))
	}
	c.slots[name] = s
	c.order = append(c.order, name)
	return s
}

// Has reports whether a name has been bound.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.slots[name]
	return ok
}

// Bindings lists every slot in registration order.
func (c *Container) Bindings() []Binding {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Binding, 0, len(c.order))
	for _, name := range c.order {
		s := c.slots[name]
		out = append(out, Binding{Name: name, Resolved: s.Resolved(), Attempts: s.Attempts()})
	}
	return out
}
