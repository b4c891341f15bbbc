package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var errSample = stderrors.New("pool exhausted")

func TestDeviceErrorString(t *testing.T) {
	err := &DeviceError{
		Op:   "animation.Start",
		Kind: KindAnimation,
		Err:  errSample,
	}
	want := "animation.Start [animation]: pool exhausted"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDeviceErrorWithMode(t *testing.T) {
	err := &DeviceError{
		Op:   "timer.sleep",
		Kind: KindPower,
		Mode: "sleeping",
		Err:  errSample,
	}
	if got := err.Error(); !strings.Contains(got, "mode=sleeping") {
		t.Errorf("Error() = %q, should contain mode", got)
	}
}

func TestDeviceErrorUnwrap(t *testing.T) {
	err := &DeviceError{Op: "x", Kind: KindTiming, Err: errSample}
	if !stderrors.Is(err, errSample) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindAnimation, "animation"},
		{KindTiming, "timing"},
		{KindRender, "render"},
		{KindPower, "power"},
		{KindInput, "input"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "timer.Tick"
	if got, want := err.Error(), "panic in timer.Tick: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Mode = "paused"
	if got, want := err.Error(), "panic in timer.Tick mode=paused: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *DeviceError
	prev := SetHandler(&testHandler{onError: func(err *DeviceError) { captured = err }})
	defer SetHandler(prev)

	Report(&DeviceError{Op: "dial.Render", Kind: KindRender, Err: errSample})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "dial.Render" {
		t.Errorf("Op = %q, want %q", captured.Op, "dial.Render")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	Report(nil)
}

func TestGuardReportsPanic(t *testing.T) {
	var captured *PanicError
	var called any
	prev := SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(prev)

	mode := "running"
	func() {
		g := Guard{
			Op:      "timer.Tick",
			Mode:    func() string { return mode },
			OnPanic: func(r any) { called = r },
		}
		defer g.Recover()
		mode = "timed-out"
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Op != "timer.Tick" {
		t.Errorf("Op = %q, want timer.Tick", captured.Op)
	}
	if captured.Mode != "timed-out" {
		t.Errorf("Mode = %q, want the mode at panic time (timed-out)", captured.Mode)
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if called != "intentional test panic" {
		t.Errorf("OnPanic got %v", called)
	}
}

func TestGuardStackStartsAtPanic(t *testing.T) {
	var captured *PanicError
	prev := SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(prev)

	func() {
		defer Guard{Op: "stack"}.Recover()
		panicker()
	}()

	if captured == nil {
		t.Fatal("expected a report")
	}
	first, _, _ := strings.Cut(captured.StackTrace, "\n")
	if !strings.HasSuffix(first, "errors.panicker") {
		t.Errorf("first frame = %q, want the panicking function", first)
	}
	if strings.Contains(captured.StackTrace, "runtime.gopanic") || strings.Contains(captured.StackTrace, "Guard.Recover") {
		t.Errorf("stack should omit recovery frames:\n%s", captured.StackTrace)
	}
}

func panicker() {
	panic("deep")
}

func TestGuardWithoutPanic(t *testing.T) {
	var captured *PanicError
	prev := SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(prev)

	func() {
		g := Guard{Op: "quiet", OnPanic: func(any) { t.Error("OnPanic should not run") }}
		defer g.Recover()
	}()
	if captured != nil {
		t.Error("no panic should be reported")
	}
}

func TestSetHandlerReturnsPrevious(t *testing.T) {
	first := &testHandler{}
	orig := SetHandler(first)
	defer SetHandler(orig)

	if got := SetHandler(nil); got != first {
		t.Errorf("SetHandler(nil) returned %T, want the installed handler", got)
	}
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should restore LogHandler, got %T", Handler())
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Verbose: true}

	h.HandleError(&DeviceError{Op: "power.Enter", Kind: KindPower, Mode: "sleeping", Err: errSample, StackTrace: "frame"})
	h.HandlePanic(&PanicError{Op: "timer.Tick", Value: "boom", Mode: "running"})

	out := buf.String()
	for _, want := range []string{"device error", "op=power.Enter", "kind=power", "mode=sleeping", "stack=frame", "device panic", "value=boom", "mode=running"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testHandler struct {
	onError func(*DeviceError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *DeviceError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
