// Package logging provides structured logging for taskrank.
//
// This package wraps Go's log/slog to write JSON-formatted log lines, either
// to stderr or to a size-rotated file. Logging is off unless enabled in the
// configuration; commands then receive a [NopLogger].
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	cmdLogger := logger.WithCommand("analyze")
//	batchLogger := cmdLogger.WithBatch("tasks.json").WithStrategy("smart_balance")
//	batchLogger.Info("batch analyzed", "tasks", 12)
//
// Produces:
//
//	{"time":"...","level":"INFO","msg":"batch analyzed","command":"analyze","batch":"tasks.json","strategy":"smart_balance","tasks":12}
//
// # Rotation
//
// [NewFileLogger] appends to a file through a [RotatingWriter]. When the file
// would exceed MaxSizeMB it is renamed to path.1, older backups shift up, and
// anything past MaxBackups is removed.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers share
// the parent's handler and file.
package logging
