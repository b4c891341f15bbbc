// Package errors provides structured, local error reporting for the dial
// timer core.
//
// No operation in the core fails towards its caller: the owning component
// resolves every anomaly (a skipped animation, an immediate timeout, a full
// repaint). Reports sent through this package are a diagnostic side channel.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAnimation indicates animation pool exhaustion or a rejected tween.
	KindAnimation
	// KindTiming indicates an invalid or zero duration.
	KindTiming
	// KindRender indicates a stale render cache or a failed draw.
	KindRender
	// KindPower indicates a low-power enter or resume failure.
	KindPower
	// KindInput indicates a dropped or malformed input event.
	KindInput
	// KindConfig indicates an invalid configuration value.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindAnimation:
		return "animation"
	case KindTiming:
		return "timing"
	case KindRender:
		return "render"
	case KindPower:
		return "power"
	case KindInput:
		return "input"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// DeviceError represents a structured error raised inside the controller.
type DeviceError struct {
	// Op is the operation that failed (e.g., "animation.Start").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Mode is the controller mode at the time, if known.
	Mode string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *DeviceError) Error() string {
	if e.Mode != "" {
		return fmt.Sprintf("%s [%s] mode=%s: %v", e.Op, e.Kind, e.Mode, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "timer.Tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// Mode is the controller mode at the time, if known.
	Mode string
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	var b strings.Builder
	b.WriteString("panic")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Mode != "" {
		b.WriteString(" mode=")
		b.WriteString(e.Mode)
	}
	fmt.Fprintf(&b, ": %v", e.Value)
	return b.String()
}

// ErrorHandler receives errors reported by the controller.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *DeviceError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
