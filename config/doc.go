// Package config provides configuration loading and validation for regkit
// applications.
//
// It uses Viper to load configuration from YAML files and environment
// variables, and godotenv to load .env files. RegistryConfig carries the
// tunables of the shared-instance registry itself.
//
// # Usage
//
//	var cfg config.RegistryConfig
//	if err := config.Load("my-service", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
package config
