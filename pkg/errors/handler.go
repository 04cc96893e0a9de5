package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var current atomic.Pointer[handlerSlot]

func init() {
	current.Store(&handlerSlot{h: &LogHandler{}})
}

// SetHandler installs the process-wide error handler. Passing nil restores
// the LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerSlot{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler { return current.Load().h }

// Report stamps err with the current time if it has none and passes it to
// the handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic passes a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err != nil {
		Handler().HandlePanic(err)
	}
}

// ReportDiagnostic passes a corrected contract violation to the handler.
func ReportDiagnostic(d *Diagnostic) {
	if d != nil {
		Handler().HandleDiagnostic(d)
	}
}

// Recover reports a panic in progress and stops it.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanicError(op, r))
	}
}

// RecoverWithCallback is like Recover but also hands the reported error to
// callback, which lets the caller turn the panic into a result.
func RecoverWithCallback(op string, callback func(err *PanicError)) {
	if r := recover(); r != nil {
		err := newPanicError(op, r)
		ReportPanic(err)
		if callback != nil {
			callback(err)
		}
	}
}

func newPanicError(op string, value any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      value,
		StackTrace: stackFrom(4),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame.
func CaptureStack() string { return stackFrom(3) }

func stackFrom(skip int) string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	pcs = pcs[:runtime.Callers(skip, pcs)]
	if len(pcs) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
