package errors

import "github.com/go-drift/xilem/pkg/logging"

// LogHandler is an ErrorHandler that writes through the process logger.
type LogHandler struct {
	// Verbose includes stack traces in the output.
	Verbose bool
}

// HandleError logs an Error at warn level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	args := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Path != "" {
		args = append(args, "path", err.Path)
	}
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	logging.Logger().Warn("runtime error", args...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	args := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	logging.Logger().Error("recovered panic", args...)
}

// HandleDiagnostic logs a Diagnostic at warn level.
func (h *LogHandler) HandleDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	logging.Logger().Warn(d.Message, "op", d.Op, "path", d.Path)
}
