// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "flatten")
//	log.Debug("cursor opened", logger.Fields(logger.FieldDirection, "front"))
package logger
