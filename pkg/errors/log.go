package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes reports through slog.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose attaches stack traces to the records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a DeviceError at warn level.
func (h *LogHandler) HandleError(err *DeviceError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Mode != "" {
		attrs = append(attrs, "mode", err.Mode)
	}
	if err.Err != nil {
		attrs = append(attrs, "error", err.Err.Error())
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Warn("device error", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if err.Mode != "" {
		attrs = append(attrs, "mode", err.Mode)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("device panic", attrs...)
}
