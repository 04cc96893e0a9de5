// Package errors provides structured error handling for the runtime.
//
// Structural mismatches found while diffing are not errors at all; they are
// handled by full replacement. What remains is reported here: state-store
// misuse (fail fast), layout contract violations (clamped, reported as
// diagnostics), malformed edit scripts, and collaborator failures that are
// fatal to one frame only.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindState indicates misuse of the state store.
	KindState
	// KindLayout indicates a layout contract violation.
	KindLayout
	// KindEditScript indicates an edit script that does not fit the retained tree.
	KindEditScript
	// KindCollaborator indicates a renderer, window, or accessibility bridge failure.
	KindCollaborator
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration.
	KindConfig
	// KindWorker indicates a background task failure.
	KindWorker
)

func (k ErrorKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindLayout:
		return "layout"
	case KindEditScript:
		return "edit_script"
	case KindCollaborator:
		return "collaborator"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	case KindWorker:
		return "worker"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound is returned when state is requested for a path with no entry.
	ErrNotFound = stderrors.New("not found")
	// ErrMalformedScript is returned when an edit script references a node
	// the retained tree does not contain.
	ErrMalformedScript = stderrors.New("malformed edit script")
	// ErrClosed is returned by operations on a closed runtime.
	ErrClosed = stderrors.New("runtime closed")
)

// Error represents a structured error raised by the runtime.
type Error struct {
	// Op is the operation that failed (e.g., "widget.Apply").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Path is the id-path involved, if any.
	Path string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StateError reports a read of state that does not exist. It indicates a
// broken view/id contract and is raised as a panic by MustGet-style accessors.
type StateError struct {
	// Op is the store operation (e.g., "GetMut").
	Op string
	// Path is the id-path that had no entry.
	Path string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s %s: %v", e.Op, e.Path, ErrNotFound)
}

func (e *StateError) Unwrap() error {
	return ErrNotFound
}

// Diagnostic describes a recoverable contract violation, such as a negative
// or NaN layout size, that was corrected in place.
type Diagnostic struct {
	// Op is the phase that detected the problem (e.g., "layout.Sanitize").
	Op string
	// Path is the id-path of the node involved, if known.
	Path string
	// Message describes the correction that was applied.
	Message string
}

func (d *Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s path=%s: %s", d.Op, d.Path, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Op, d.Message)
}

// FrameError reports a collaborator failure. The frame it belongs to is
// dropped; the runtime keeps running.
type FrameError struct {
	// Collaborator names the failing party ("renderer", "window", "accessibility").
	Collaborator string
	// Frame is the sequence number of the dropped frame.
	Frame uint64
	// Err is the underlying error.
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Collaborator, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.worker").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Join returns an error wrapping errs, discarding nils.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleDiagnostic is called when a contract violation was corrected.
	HandleDiagnostic(d *Diagnostic)
}
