// Package logger provides structured logging for regkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.WithComponent("registry")
//	log.Info("instance bound", logger.Fields(logger.FieldInstance, "database"))
package logger
