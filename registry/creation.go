package registry

import (
	"sync"

	"github.com/skillsenselab/regkit/errors"
)

// creationTracker tracks which names are mid-construction and detects
// re-entrant construction. Names in the exclusion set skip the check
// entirely; that escape hatch exists for legitimately re-entrant
// construction paths the registry cannot model.
type creationTracker struct {
	mu         sync.RWMutex
	inCreation map[string]struct{}
	excluded   map[string]struct{}

	// derived optionally widens "currently in creation" with a
	// collaborator-supplied notion of in-progress construction.
	derived func(name string) bool
}

func newCreationTracker() *creationTracker {
	return &creationTracker{
		inCreation: make(map[string]struct{}),
		excluded:   make(map[string]struct{}),
	}
}

// before marks the name as in construction. Fails when the name is already
// being constructed, unless it is excluded from in-creation checks.
func (t *creationTracker) before(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, skip := t.excluded[name]; skip {
		return nil
	}
	if _, busy := t.inCreation[name]; busy {
		return errors.CurrentlyInCreation(name)
	}
	t.inCreation[name] = struct{}{}
	return nil
}

// after clears the in-construction mark. A mismatched bracket is a
// programming error in a collaborator, reported as a consistency failure.
func (t *creationTracker) after(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, skip := t.excluded[name]; skip {
		return nil
	}
	if _, busy := t.inCreation[name]; !busy {
		return errors.Consistency("instance '%s' isn't currently in creation", name)
	}
	delete(t.inCreation, name)
	return nil
}

// inConstruction is the raw membership query, ignoring exclusions.
func (t *creationTracker) inConstruction(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, busy := t.inCreation[name]
	return busy
}

// currentlyInCreation reports whether the name counts as in creation for
// callers: excluded names never do, and the derived hook may widen the raw
// in-construction set.
func (t *creationTracker) currentlyInCreation(name string) bool {
	t.mu.RLock()
	if _, skip := t.excluded[name]; skip {
		t.mu.RUnlock()
		return false
	}
	_, busy := t.inCreation[name]
	derived := t.derived
	t.mu.RUnlock()

	if busy {
		return true
	}
	return derived != nil && derived(name)
}

// setExcluded toggles exclusion-set membership for the name.
func (t *creationTracker) setExcluded(name string, excluded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if excluded {
		t.excluded[name] = struct{}{}
	} else {
		delete(t.excluded, name)
	}
}
