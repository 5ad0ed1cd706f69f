package registry

import "testing"

func TestGraphRegisterDependency(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")
	g.registerDependency("db", "repo") // idempotent
	g.registerDependency("db", "cache")

	wantOrder(t, g.dependentsOf("db"), "repo", "cache")
	wantOrder(t, g.dependenciesOf("repo"), "db")

	if !g.hasDependents("db") {
		t.Error("expected db to have dependents")
	}
	if g.hasDependents("repo") {
		t.Error("expected repo to have no dependents")
	}
}

func TestGraphIsDependentDirect(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")

	if !g.isDependent("db", "repo") {
		t.Error("expected repo to depend on db")
	}
	if g.isDependent("repo", "db") {
		t.Error("expected db not to depend on repo")
	}
}

func TestGraphIsDependentTransitive(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")
	g.registerDependency("repo", "service")
	g.registerDependency("service", "handler")

	if !g.isDependent("db", "handler") {
		t.Error("expected handler to transitively depend on db")
	}
	if g.isDependent("handler", "db") {
		t.Error("expected no reverse dependency")
	}
}

func TestGraphIsDependentCycleTerminates(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("a", "b")
	g.registerDependency("b", "a")

	// Must terminate and answer truthfully despite the cycle.
	if !g.isDependent("a", "b") {
		t.Error("expected b to depend on a")
	}
	if !g.isDependent("b", "a") {
		t.Error("expected a to depend on b")
	}
	if g.isDependent("c", "a") {
		t.Error("expected no dependents for unknown name")
	}
	if g.isDependent("a", "c") {
		t.Error("expected unknown name to depend on nothing")
	}
}

func TestGraphContainment(t *testing.T) {
	g := newRelationshipGraph()
	g.registerContainment("inner", "outer")
	g.registerContainment("inner", "outer") // idempotent

	// Containment implies dependency in both directions of the index.
	wantOrder(t, g.dependentsOf("inner"), "outer")
	wantOrder(t, g.dependenciesOf("outer"), "inner")

	wantOrder(t, g.removeContained("outer"), "inner")
}

func TestGraphRemoveDependents(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")
	g.registerDependency("db", "cache")

	deps := g.removeDependents("db")
	wantOrder(t, deps, "repo", "cache")

	if g.hasDependents("db") {
		t.Error("expected dependents cleared after removal")
	}
	if got := g.removeDependents("db"); len(got) != 0 {
		t.Errorf("expected empty on second removal, got %v", got)
	}
}

func TestGraphRemoveContained(t *testing.T) {
	g := newRelationshipGraph()
	g.registerContainment("inner", "outer")
	g.registerContainment("inner2", "outer")

	contained := g.removeContained("outer")
	wantOrder(t, contained, "inner", "inner2")
	if got := g.removeContained("outer"); len(got) != 0 {
		t.Errorf("expected empty on second removal, got %v", got)
	}
}

func TestGraphPrune(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")
	g.registerDependency("cfg", "repo")
	g.registerDependency("repo", "service")

	g.prune("repo")

	// repo no longer appears as a dependent of anything.
	if got := g.dependentsOf("db"); len(got) != 0 {
		t.Errorf("expected db dependents pruned, got %v", got)
	}
	if got := g.dependentsOf("cfg"); len(got) != 0 {
		t.Errorf("expected cfg dependents pruned, got %v", got)
	}
	// repo's own forward dependency record is gone.
	if got := g.dependenciesOf("repo"); len(got) != 0 {
		t.Errorf("expected repo dependencies pruned, got %v", got)
	}
	// Other edges survive.
	wantOrder(t, g.dependentsOf("repo"), "service")
}

func TestGraphClear(t *testing.T) {
	g := newRelationshipGraph()
	g.registerDependency("db", "repo")
	g.registerContainment("inner", "outer")

	g.clear()

	if g.hasDependents("db") || g.hasDependents("inner") {
		t.Error("expected all relationships cleared")
	}
	if got := g.removeContained("outer"); len(got) != 0 {
		t.Errorf("expected containment cleared, got %v", got)
	}
}
