// Package logger wraps zap with a process-wide sugared logger and
// context-scoped named loggers used by every blink-sensor component.
package logger
