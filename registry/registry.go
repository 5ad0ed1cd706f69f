package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/regkit/config"
	"github.com/skillsenselab/regkit/errors"
	"github.com/skillsenselab/regkit/logger"
)

// DisposalHook is a destroy-capable handle registered per name. A name can
// have a disposal hook without holding a fully built instance, and vice
// versa. Destroy failures are reported, never assumed absent.
type DisposalHook interface {
	Destroy() error
}

// DisposalFunc adapts a plain function to a DisposalHook.
type DisposalFunc func() error

// Destroy calls f.
func (f DisposalFunc) Destroy() error { return f() }

// Registry is a shared-instance registry: exactly one instance per logical
// name, built lazily through construction callbacks, torn down in an order
// that respects registered containment and dependency relationships.
//
// A Registry owns all of its state; multiple independent registries can
// coexist in one process.
type Registry struct {
	id  string
	log *logger.Logger

	cache   *instanceCache
	tracker *creationTracker
	graph   *relationshipGraph

	// canonical resolves aliases to canonical names. Alias bookkeeping
	// itself lives in a collaborator; the registry only applies it.
	canonical func(string) string

	// suppressed collects secondary errors reported during the outermost
	// in-flight construction call. Guarded by the singleton mutex.
	suppressed      []error
	collecting      bool
	suppressedLimit int

	// destroying blocks new construction for the duration of DestroyAll.
	// Guarded by the singleton mutex.
	destroying bool

	hooksMu   sync.Mutex
	hooks     map[string]DisposalHook
	hookOrder []string

	metrics *registryMetrics
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:              uuid.NewString(),
		cache:           newInstanceCache(),
		tracker:         newCreationTracker(),
		graph:           newRelationshipGraph(),
		suppressedLimit: config.DefaultSuppressedLimit,
		hooks:           make(map[string]DisposalHook),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("registry")
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldRegistry, r.id))
	r.metrics = newRegistryMetrics(r.id)
	return r
}

// ID returns the unique identifier of this registry instance.
func (r *Registry) ID() string { return r.id }

// Register eagerly binds a fully built instance under the given name.
// Fails with an ALREADY_BOUND error if the name is already bound.
func (r *Registry) Register(name string, instance any) error {
	name = r.canonicalName(name)
	if err := r.cache.bind(name, instance); err != nil {
		return err
	}
	r.log.Debug("instance registered", logger.Fields(logger.FieldInstance, name))
	return nil
}

// RegisterFactory stores an early-reference factory for a name whose full
// construction has not completed yet, e.g. to resolve circular references.
// Advisory: silently ignored when the name is already bound.
func (r *Registry) RegisterFactory(name string, factory EarlyFactory) {
	name = r.canonicalName(name)
	r.cache.bindFactory(name, factory)
}

// Get returns the instance registered under the given name, allowing an
// early reference to an instance that is still being constructed.
func (r *Registry) Get(name string) (any, bool) {
	return r.Lookup(name, true)
}

// Lookup returns the instance registered under the given name. When
// allowEarly is set and the name is mid-construction, a cached or freshly
// materialized early reference may be returned instead of a fully built
// instance.
func (r *Registry) Lookup(name string, allowEarly bool) (any, bool) {
	name = r.canonicalName(name)
	return r.cache.lookup(name, allowEarly, r.tracker.inConstruction)
}

// GetOrCreate returns the instance bound under name, invoking factory to
// build it if no instance is bound yet. Construction runs under the
// singleton mutex: at most one construction per name, serialized against
// all other registry operations. The factory may call back into the
// registry on the same goroutine for nested resolution.
//
// On factory failure the name is left unbound so a later call can retry,
// and any errors reported via ReportSuppressed during the outermost call
// are attached to the returned error as related causes.
func (r *Registry) GetOrCreate(name string, factory Factory) (any, error) {
	name = r.canonicalName(name)

	r.cache.mu.Lock()
	defer r.cache.mu.Unlock()

	if instance, ok := r.cache.peekBoundLocked(name); ok {
		return instance, nil
	}
	if r.destroying {
		return nil, errors.CreationNotAllowed(name)
	}

	r.log.Debug("creating shared instance", logger.Fields(logger.FieldInstance, name))

	if err := r.tracker.before(name); err != nil {
		return nil, err
	}
	outermost := !r.collecting
	if outermost {
		r.collecting = true
	}
	defer func() {
		if outermost {
			r.collecting = false
			r.suppressed = nil
		}
		if err := r.tracker.after(name); err != nil {
			// A mismatched construction bracket means registry state is
			// corrupted; there is no safe way to continue.
			panic(err)
		}
	}()

	start := time.Now()
	instance, err := factory()
	if err != nil {
		failure := errors.CreationFailed(name, err)
		if outermost {
			for _, suppressed := range r.suppressed {
				failure.AddRelated(suppressed)
			}
		}
		r.metrics.recordCreation(name, time.Since(start), false)
		r.log.Error("instance creation failed", logger.Fields(
			logger.FieldInstance, name,
			logger.FieldError, err.Error(),
		))
		return nil, failure
	}

	// The factory may have bound the name indirectly; keep the bound value
	// and discard the factory's own result.
	if bound, ok := r.cache.peekBoundLocked(name); ok {
		return bound, nil
	}

	if err := r.cache.bindLocked(name, instance); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.metrics.recordCreation(name, elapsed, true)
	r.log.Debug("shared instance created", logger.Fields(
		logger.FieldInstance, name,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return instance, nil
}

// ReportSuppressed records a secondary failure raised by a collaborator
// while a construction call is in flight, without aborting construction.
// Kept up to a bounded limit and attached as related causes to an eventual
// top-level construction failure.
func (r *Registry) ReportSuppressed(err error) {
	if err == nil {
		return
	}
	r.cache.mu.Lock()
	defer r.cache.mu.Unlock()

	if r.collecting && len(r.suppressed) < r.suppressedLimit {
		r.suppressed = append(r.suppressed, err)
	}
}

// Contains reports whether the name holds a fully built instance.
func (r *Registry) Contains(name string) bool {
	return r.cache.contains(r.canonicalName(name))
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	return r.cache.names()
}

// Count returns the number of registered names.
func (r *Registry) Count() int {
	return r.cache.count()
}

// SetExcluded toggles whether the name is excluded from in-creation checks.
func (r *Registry) SetExcluded(name string, excluded bool) {
	r.tracker.setExcluded(r.canonicalName(name), excluded)
}

// InCreation reports whether the name currently counts as in creation.
// Excluded names never do; a creation-check hook installed via
// WithCreationCheck may widen the raw in-construction set.
func (r *Registry) InCreation(name string) bool {
	return r.tracker.currentlyInCreation(r.canonicalName(name))
}

// --- relationship bookkeeping ---

// RegisterContainment records that outer contains inner, e.g. an inner
// instance embedded in its containing outer instance. Destruction-wise the
// containment also registers outer as dependent on inner, so destroying
// inner first destroys outer.
func (r *Registry) RegisterContainment(inner, outer string) {
	r.graph.registerContainment(inner, outer)
}

// RegisterDependency records that dependent depends on target: dependent is
// destroyed before target.
func (r *Registry) RegisterDependency(target, dependent string) {
	r.graph.registerDependency(r.canonicalName(target), dependent)
}

// IsDependent reports whether dependent depends on target, directly or
// through transitive dependency edges.
func (r *Registry) IsDependent(target, dependent string) bool {
	return r.graph.isDependent(r.canonicalName(target), dependent)
}

// HasDependents reports whether any name depends on target.
func (r *Registry) HasDependents(target string) bool {
	return r.graph.hasDependents(r.canonicalName(target))
}

// Dependents returns the names depending on target, or nil.
func (r *Registry) Dependents(target string) []string {
	return r.graph.dependentsOf(r.canonicalName(target))
}

// Dependencies returns the targets the dependent depends on, or nil.
func (r *Registry) Dependencies(dependent string) []string {
	return r.graph.dependenciesOf(dependent)
}

// --- teardown ---

// RegisterDisposal stores a destroy hook for the name, to run when the name
// is destroyed. Independent of whether the name holds an instance.
func (r *Registry) RegisterDisposal(name string, hook DisposalHook) {
	name = r.canonicalName(name)

	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	if _, exists := r.hooks[name]; !exists {
		r.hookOrder = append(r.hookOrder, name)
	}
	r.hooks[name] = hook
}

// Destroy removes the named instance and cascades: names depending on it
// are destroyed first, then its own disposal hook runs, then its contained
// names are destroyed, then all relationship bookkeeping for the name is
// pruned. Hook failures are logged and never abort the cascade.
func (r *Registry) Destroy(name string) {
	name = r.canonicalName(name)

	r.cache.remove(name)

	r.hooksMu.Lock()
	hook := r.hooks[name]
	delete(r.hooks, name)
	r.hookOrder = removeName(r.hookOrder, name)
	r.hooksMu.Unlock()

	r.destroyInstance(name, hook)
}

// destroyInstance performs the cascading teardown for one name. Dependents
// are assumed to still reference the name, so their hooks run strictly
// before this name's own hook.
func (r *Registry) destroyInstance(name string, hook DisposalHook) {
	for _, dependent := range r.graph.removeDependents(name) {
		r.log.Trace("destroying dependent instance", logger.Fields(
			logger.FieldInstance, dependent,
			"dependency", name,
		))
		r.Destroy(dependent)
	}

	if hook != nil {
		if err := hook.Destroy(); err != nil {
			r.log.Warn("disposal hook failed", logger.Fields(
				logger.FieldInstance, name,
				logger.FieldError, err.Error(),
			))
		}
	}

	for _, inner := range r.graph.removeContained(name) {
		r.Destroy(inner)
	}

	r.graph.prune(name)
	r.metrics.recordDestruction(name)
}

// DestroyAll destroys every managed instance. Disposal hooks run in
// reverse registration order, each cascading through its own dependents
// first. New construction is rejected with CREATION_NOT_ALLOWED until
// teardown completes. Afterwards the registry is empty and usable again.
func (r *Registry) DestroyAll() {
	r.log.Debug("destroying all instances", logger.Fields(logger.FieldCount, r.Count()))

	r.cache.mu.Lock()
	r.destroying = true
	r.cache.mu.Unlock()

	r.hooksMu.Lock()
	names := make([]string, len(r.hookOrder))
	copy(names, r.hookOrder)
	r.hooksMu.Unlock()

	for i := len(names) - 1; i >= 0; i-- {
		r.Destroy(names[i])
	}

	r.graph.clear()

	r.cache.mu.Lock()
	r.cache.clearLocked()
	r.destroying = false
	r.cache.mu.Unlock()
}

// Mutex exposes the singleton mutex to collaborators that extend the
// construction critical section. Collaborators should not introduce their
// own locks around singleton creation; nesting foreign locks with this one
// invites deadlocks in lazy-init paths.
func (r *Registry) Mutex() sync.Locker {
	return &r.cache.mu
}

func (r *Registry) canonicalName(name string) string {
	if r.canonical != nil {
		return r.canonical(name)
	}
	return name
}
