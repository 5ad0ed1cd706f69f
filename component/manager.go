package component

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/regkit/config"
	"github.com/skillsenselab/regkit/logger"
	"github.com/skillsenselab/regkit/registry"
)

// Manager wires lifecycle components through a shared-instance registry.
// Each added component is registered as an instance, its Stop method is
// installed as the disposal hook, and declared dependencies become
// dependency edges so the registry tears components down in a safe order.
type Manager struct {
	reg         *registry.Registry
	log         *logger.Logger
	stopTimeout time.Duration

	mu      sync.Mutex
	order   []string
	started map[string]bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStopTimeout bounds the Stop call of a single component during shutdown.
func WithStopTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.stopTimeout = d
		}
	}
}

// WithManagerConfig applies settings loaded via the config package.
func WithManagerConfig(cfg config.RegistryConfig) ManagerOption {
	return func(m *Manager) {
		if cfg.StopTimeout > 0 {
			m.stopTimeout = cfg.StopTimeout
		}
	}
}

// NewManager creates a manager on top of the given registry.
func NewManager(reg *registry.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		reg:         reg,
		log:         logger.WithComponent("component-manager"),
		stopTimeout: 10 * time.Second,
		started:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add registers a component. Components are started in the order they are
// added, so add dependencies first. Names in dependsOn mark components this
// one depends on; the registry destroys this component before them.
func (m *Manager) Add(c Component, dependsOn ...string) error {
	name := c.Name()

	if err := m.reg.Register(name, c); err != nil {
		return fmt.Errorf("component %s already registered: %w", name, err)
	}
	m.reg.RegisterDisposal(name, registry.DisposalFunc(func() error {
		return m.stopComponent(name, c)
	}))
	for _, dep := range dependsOn {
		m.reg.RegisterDependency(dep, name)
	}

	m.mu.Lock()
	m.order = append(m.order, name)
	m.mu.Unlock()

	m.log.Debug("component added", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts all components in add order, failing fast on the first
// start error.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	m.mu.Unlock()

	m.log.Info("starting components", logger.Fields(logger.FieldCount, len(names)))

	for _, name := range names {
		c, ok := m.component(name)
		if !ok {
			return fmt.Errorf("component %s no longer registered", name)
		}
		if err := c.Start(ctx); err != nil {
			m.log.Error("component start failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		m.mu.Lock()
		m.started[name] = true
		m.mu.Unlock()
		m.log.Debug("component started", logger.Fields(logger.FieldComponent, name))
	}
	return nil
}

// StopAll tears down every component by destroying the registry. Disposal
// hooks run in reverse registration order, and the dependency graph
// guarantees dependents stop before the components they depend on.
func (m *Manager) StopAll() {
	m.log.Info("stopping components")
	m.reg.DestroyAll()

	m.mu.Lock()
	m.order = nil
	m.started = make(map[string]bool)
	m.mu.Unlock()
}

// Get returns a managed component by name, or nil.
func (m *Manager) Get(name string) Component {
	c, ok := m.component(name)
	if !ok {
		return nil
	}
	return c
}

// All returns all managed component names in add order.
func (m *Manager) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Manager) component(name string) (Component, bool) {
	instance, ok := m.reg.Lookup(name, false)
	if !ok {
		return nil, false
	}
	c, ok := instance.(Component)
	return c, ok
}

// stopComponent runs a component's Stop under the manager's timeout. Only
// components that actually started are stopped.
func (m *Manager) stopComponent(name string, c Component) error {
	m.mu.Lock()
	wasStarted := m.started[name]
	delete(m.started, name)
	m.mu.Unlock()

	if !wasStarted {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.stopTimeout)
	defer cancel()

	m.log.Debug("stopping component", logger.Fields(logger.FieldComponent, name))
	return c.Stop(ctx)
}
