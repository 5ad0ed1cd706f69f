package registry

import (
	"github.com/skillsenselab/regkit/errors"
)

// Factory builds the fully built instance for a name. It may call back
// into the registry to resolve nested dependencies.
type Factory func() (any, error)

// EarlyFactory produces an early reference for a name whose construction
// is still in progress.
type EarlyFactory func() any

// entryState tracks the construction progress of one name. States only
// move forward (pending -> early -> bound); the only way back is wholesale
// removal of the entry.
type entryState uint8

const (
	statePending entryState = iota + 1 // factory registered, nothing materialized
	stateEarly                         // early reference handed out
	stateBound                         // fully built instance committed
)

// cacheEntry is the tagged per-name slot of the tiered cache. A name can
// never hold a pending factory and a fully built instance at once because
// both live in the same slot.
type cacheEntry struct {
	state   entryState
	value   any
	factory EarlyFactory // set only in statePending
}

// instanceCache implements the fully-built / early-exposed / factory-pending
// progression for registered names. It owns the singleton mutex; every
// state transition and every check-then-act sequence runs under it.
type instanceCache struct {
	mu      reentrantMutex
	entries map[string]*cacheEntry
	order   []string // registered names in registration order
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		entries: make(map[string]*cacheEntry),
	}
}

// bind commits a fully built instance, purging any pending factory or early
// reference for the name. Fails if the name already holds a bound instance.
func (c *instanceCache) bind(name string, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindLocked(name, instance)
}

func (c *instanceCache) bindLocked(name string, instance any) error {
	if e, ok := c.entries[name]; ok && e.state == stateBound {
		return errors.AlreadyBound(name, e.value)
	}
	c.setLocked(name, &cacheEntry{state: stateBound, value: instance})
	return nil
}

// bindFactory stores a pending factory for the name unless a fully built
// instance is already bound. Re-registering a factory replaces the previous
// one and clears any stale early reference.
func (c *instanceCache) bindFactory(name string, factory EarlyFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok && e.state == stateBound {
		return
	}
	c.setLocked(name, &cacheEntry{state: statePending, factory: factory})
}

// lookup returns the instance for name. inCreation reports whether the name
// is currently mid-construction; only then may an early reference be
// returned or materialized, and only when allowEarly is set. Materializing
// consumes the pending factory and caches the result so every early viewer
// observes the identical reference.
func (c *instanceCache) lookup(name string, allowEarly bool, inCreation func(string) bool) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	if e.state == stateBound {
		return e.value, true
	}
	if !allowEarly || !inCreation(name) {
		return nil, false
	}
	switch e.state {
	case stateEarly:
		return e.value, true
	case statePending:
		e.value = e.factory()
		e.factory = nil
		e.state = stateEarly
		return e.value, true
	}
	return nil, false
}

// peekBound returns the bound instance without touching early state.
func (c *instanceCache) peekBound(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peekBoundLocked(name)
}

func (c *instanceCache) peekBoundLocked(name string) (any, bool) {
	if e, ok := c.entries[name]; ok && e.state == stateBound {
		return e.value, true
	}
	return nil, false
}

// remove purges the name from every tier.
func (c *instanceCache) remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; !ok {
		return
	}
	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// clear empties all tiers. Used only during full shutdown.
func (c *instanceCache) clearLocked() {
	c.entries = make(map[string]*cacheEntry)
	c.order = nil
}

// contains reports whether the name holds a fully built instance.
func (c *instanceCache) contains(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.peekBoundLocked(name)
	return ok
}

// names returns all registered names in registration order.
func (c *instanceCache) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// count returns the number of registered names.
func (c *instanceCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// setLocked installs an entry, keeping the registration-order slice in
// sync. A name keeps its original position across state transitions.
func (c *instanceCache) setLocked(name string, e *cacheEntry) {
	if _, ok := c.entries[name]; !ok {
		c.order = append(c.order, name)
	}
	c.entries[name] = e
}
