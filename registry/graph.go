package registry

import "sync"

// relationshipGraph tracks two directed relations between names: containment
// (outer aggregates inner) and dependency (dependent must be destroyed
// before target). The dependency relation is stored in both directions so
// dependents and dependencies resolve in O(1).
//
// Each map has its own lock. Containment registration takes the containment
// lock, releases it, then takes the dependency locks for the implied edge;
// that ordering is never reversed.
type relationshipGraph struct {
	containedMu sync.Mutex
	contained   map[string][]string // outer -> contained inner names

	dependentsMu sync.Mutex
	dependents   map[string][]string // target -> names depending on it

	dependenciesMu sync.Mutex
	dependencies   map[string][]string // dependent -> its targets
}

func newRelationshipGraph() *relationshipGraph {
	return &relationshipGraph{
		contained:    make(map[string][]string),
		dependents:   make(map[string][]string),
		dependencies: make(map[string][]string),
	}
}

// registerContainment records that outer contains inner. A new containment
// edge also registers outer as dependent on inner, so the container is
// destroyed before its contained part. Idempotent.
func (g *relationshipGraph) registerContainment(inner, outer string) {
	g.containedMu.Lock()
	added := addUnique(g.contained, outer, inner)
	g.containedMu.Unlock()
	if !added {
		return
	}
	g.registerDependency(inner, outer)
}

// registerDependency records that dependent depends on target. Both
// directions are updated, and the inverse only when the forward insertion
// actually added a new edge, keeping the two maps exact inverses.
// Idempotent per ordered pair.
func (g *relationshipGraph) registerDependency(target, dependent string) {
	g.dependentsMu.Lock()
	added := addUnique(g.dependents, target, dependent)
	g.dependentsMu.Unlock()
	if !added {
		return
	}

	g.dependenciesMu.Lock()
	addUnique(g.dependencies, dependent, target)
	g.dependenciesMu.Unlock()
}

// isDependent reports whether dependent depends on target, directly or
// transitively.
func (g *relationshipGraph) isDependent(target, dependent string) bool {
	g.dependentsMu.Lock()
	defer g.dependentsMu.Unlock()
	return g.isDependentLocked(target, dependent, nil)
}

// isDependentLocked walks the forward map depth-first. The seen set breaks
// out of true dependency cycles; termination on cyclic graphs is a
// correctness requirement, not an optimization.
func (g *relationshipGraph) isDependentLocked(target, dependent string, seen map[string]struct{}) bool {
	if _, visited := seen[target]; visited {
		return false
	}
	deps := g.dependents[target]
	if len(deps) == 0 {
		return false
	}
	if containsName(deps, dependent) {
		return true
	}
	for _, transitive := range deps {
		if seen == nil {
			seen = make(map[string]struct{})
		}
		seen[target] = struct{}{}
		if g.isDependentLocked(transitive, dependent, seen) {
			return true
		}
	}
	return false
}

// hasDependents reports whether any name depends on target.
func (g *relationshipGraph) hasDependents(target string) bool {
	g.dependentsMu.Lock()
	defer g.dependentsMu.Unlock()
	return len(g.dependents[target]) > 0
}

// dependentsOf returns the names depending on target, in registration order.
func (g *relationshipGraph) dependentsOf(target string) []string {
	g.dependentsMu.Lock()
	defer g.dependentsMu.Unlock()
	return copyNames(g.dependents[target])
}

// dependenciesOf returns the targets the dependent depends on.
func (g *relationshipGraph) dependenciesOf(dependent string) []string {
	g.dependenciesMu.Lock()
	defer g.dependenciesMu.Unlock()
	return copyNames(g.dependencies[dependent])
}

// removeDependents detaches and returns the dependents of name for the
// caller to destroy.
func (g *relationshipGraph) removeDependents(name string) []string {
	g.dependentsMu.Lock()
	defer g.dependentsMu.Unlock()
	deps := g.dependents[name]
	delete(g.dependents, name)
	return deps
}

// removeContained detaches and returns the names contained in name.
func (g *relationshipGraph) removeContained(name string) []string {
	g.containedMu.Lock()
	defer g.containedMu.Unlock()
	inner := g.contained[name]
	delete(g.contained, name)
	return inner
}

// prune removes name from every other name's dependent set, dropping
// now-empty entries, and forgets name's own dependency list. Together with
// removeDependents and removeContained this keeps the maps mutually
// consistent during teardown.
func (g *relationshipGraph) prune(name string) {
	g.dependentsMu.Lock()
	for target, deps := range g.dependents {
		trimmed := removeName(deps, name)
		if len(trimmed) == 0 {
			delete(g.dependents, target)
		} else {
			g.dependents[target] = trimmed
		}
	}
	g.dependentsMu.Unlock()

	g.dependenciesMu.Lock()
	delete(g.dependencies, name)
	g.dependenciesMu.Unlock()
}

// clear drops all relationship state. Used only at full shutdown.
func (g *relationshipGraph) clear() {
	g.containedMu.Lock()
	g.contained = make(map[string][]string)
	g.containedMu.Unlock()

	g.dependentsMu.Lock()
	g.dependents = make(map[string][]string)
	g.dependentsMu.Unlock()

	g.dependenciesMu.Lock()
	g.dependencies = make(map[string][]string)
	g.dependenciesMu.Unlock()
}

// --- ordered-unique adjacency helpers ---

func addUnique(m map[string][]string, key, val string) bool {
	if containsName(m[key], val) {
		return false
	}
	m[key] = append(m[key], val)
	return true
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}

func copyNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}
