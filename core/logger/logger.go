package logger

// Logger is the logging surface shared by the dispatch engine, the state
// machine and the simulation loop. Implementations live under infra/logger.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw attaches structured fields, used for per-cycle debug traces.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger is the subset needed by callers that only emit
// field-based debug records.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}
