package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/regkit/logger"
)

// DefaultSuppressedLimit bounds the number of suppressed construction
// errors retained per top-level creation call.
const DefaultSuppressedLimit = 100

// RegistryConfig contains shared-instance registry configuration.
type RegistryConfig struct {
	// SuppressedLimit is the maximum number of suppressed errors preserved
	// during a top-level construction call. Errors beyond the limit are
	// silently dropped.
	SuppressedLimit int `yaml:"suppressed_limit" mapstructure:"suppressed_limit"`

	// StopTimeout bounds the Stop call of a single managed component
	// during shutdown.
	StopTimeout time.Duration `yaml:"stop_timeout" mapstructure:"stop_timeout"`

	// Logging configures the registry's structured logging.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to registry configuration.
func (c *RegistryConfig) ApplyDefaults() {
	if c.SuppressedLimit == 0 {
		c.SuppressedLimit = DefaultSuppressedLimit
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = 10 * time.Second
	}
	c.Logging.ApplyDefaults()
}

// Validate validates registry configuration.
func (c *RegistryConfig) Validate() error {
	if c.SuppressedLimit < 0 {
		return fmt.Errorf("registry.suppressed_limit must not be negative (got: %d)", c.SuppressedLimit)
	}
	if c.StopTimeout < 0 {
		return fmt.Errorf("registry.stop_timeout must not be negative (got: %s)", c.StopTimeout)
	}
	return c.Logging.Validate()
}
