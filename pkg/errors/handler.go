package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerSlot boxes the installed handler so handlers of different concrete
// types can share one atomic pointer.
type handlerSlot struct {
	h ErrorHandler
}

var (
	defaultHandler ErrorHandler = &LogHandler{}
	installed      atomic.Pointer[handlerSlot]
)

// Handler returns the handler reports are currently sent to.
func Handler() ErrorHandler {
	if s := installed.Load(); s != nil {
		return s.h
	}
	return defaultHandler
}

// SetHandler installs h and returns the handler it replaces. Nil restores
// the default LogHandler, which writes through slog.Default().
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = defaultHandler
	}
	prev := installed.Swap(&handlerSlot{h: h})
	if prev == nil {
		return defaultHandler
	}
	return prev.h
}

// Report stamps err and hands it to the installed handler.
func Report(err *DeviceError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic stamps err and hands it to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Guard contains a panic inside one iteration of a long-lived loop (a tick,
// an input pump) and turns it into a PanicError report. Defer its Recover
// method directly:
//
//	g := errors.Guard{Op: "timer.Tick", Mode: func() string { return c.mode.String() }}
//	defer g.Recover()
type Guard struct {
	// Op names the guarded operation.
	Op string
	// Mode, when set, is read at recovery time and recorded on the report.
	Mode func() string
	// OnPanic runs after the report, on the goroutine that panicked.
	OnPanic func(value any)
}

// Recover reports and swallows a panic in the deferring function. It is a
// no-op when that function returns normally.
func (g Guard) Recover() {
	v := recover()
	if v == nil {
		return
	}
	pe := &PanicError{Op: g.Op, Value: v, StackTrace: CaptureStack()}
	if g.Mode != nil {
		pe.Mode = g.Mode()
	}
	ReportPanic(pe)
	if g.OnPanic != nil {
		g.OnPanic(v)
	}
}

// CaptureStack formats the calling goroutine's stack as "function" /
// "\tfile:line" pairs, skipping runtime frames. Called while a panic is
// unwinding, it starts at the frame that panicked.
func CaptureStack() string {
	var pcs [48]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		switch {
		case f.Function == "runtime.gopanic":
			// Everything above is the deferred recovery path.
			b.Reset()
		case !strings.HasPrefix(f.Function, "runtime."):
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}
