// Package logger provides structured logging for the gateway built on zerolog.
//
// A single global logger is initialized from config at startup; components
// receive scoped instances via WithComponent so every line carries a
// component tag alongside the service name.
//
// Usage:
//
//	logger.Init(cfg.Logging)
//	log := logger.WithComponent("server")
//	log.Info("listening", logger.Fields("addr", addr))
package logger
