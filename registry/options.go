package registry

import (
	"github.com/skillsenselab/regkit/config"
	"github.com/skillsenselab/regkit/logger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry events.
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithCanonicalizer installs the name canonicalization function applied to
// incoming names. Alias bookkeeping lives in the collaborator supplying fn.
func WithCanonicalizer(fn func(name string) string) Option {
	return func(r *Registry) { r.canonical = fn }
}

// WithSuppressedLimit bounds the number of suppressed errors retained per
// top-level construction call.
func WithSuppressedLimit(limit int) Option {
	return func(r *Registry) {
		if limit > 0 {
			r.suppressedLimit = limit
		}
	}
}

// WithCreationCheck installs a hook that widens the registry's notion of
// "currently in creation", for collaborators implementing specialized
// creation strategies.
func WithCreationCheck(fn func(name string) bool) Option {
	return func(r *Registry) { r.tracker.derived = fn }
}

// WithConfig applies registry settings loaded via the config package.
func WithConfig(cfg config.RegistryConfig) Option {
	return func(r *Registry) {
		if cfg.SuppressedLimit > 0 {
			r.suppressedLimit = cfg.SuppressedLimit
		}
		if r.log == nil {
			r.log = logger.New(&cfg.Logging, "regkit").WithComponent("registry")
		}
	}
}
