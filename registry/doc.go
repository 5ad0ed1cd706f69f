// Package registry implements a shared-instance registry with
// cycle-tolerant lazy construction and ordered teardown.
//
// A Registry hands out exactly one instance per logical name. Instances may
// be registered eagerly or built lazily through a construction callback. A
// name under construction can expose an early reference so that a
// restricted class of circular construction dependencies resolves instead
// of deadlocking. On shutdown all managed instances are destroyed in an
// order that respects their registered containment and dependency
// relationships.
//
// # Construction
//
//	reg := registry.New()
//	db, err := reg.GetOrCreate("database", func() (any, error) {
//	    return openDatabase()
//	})
//
// # Teardown
//
//	reg.RegisterDisposal("database", registry.DisposalFunc(db.Close))
//	reg.RegisterDependency("database", "repository")
//	reg.DestroyAll()
package registry
