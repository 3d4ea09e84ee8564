// Package errors extends the standard errors package with slog annotations
// and source locations so that failures can be logged with full context.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// AnnotatedError wraps an error with a message, optional [slog.Attr]
// annotations, and the program counter of the call site.
type AnnotatedError struct {
	msg         string
	err         error
	annotations []slog.Attr
	pc          uintptr
}

// callerPC returns the program counter skip levels above the caller.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and callerPC itself.
	runtime.Callers(skip+2, pcs[:])
	return pcs[0]
}

// NewSentinel creates a sentinel error that can be annotated when wrapped.
func NewSentinel(msg string) error {
	return &AnnotatedError{msg: msg, err: nil, annotations: nil, pc: callerPC(1)}
}

// Wrap annotates err with a message and optional [slog.Attr] annotations.
func Wrap(err error, msg string, annotations ...slog.Attr) error {
	return &AnnotatedError{msg: msg, err: err, annotations: annotations, pc: callerPC(1)}
}

// Error implements the error interface.
func (e *AnnotatedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the wrapped error.
func (e *AnnotatedError) Unwrap() error {
	return e.err
}

// New is re-exported [errors.New] so that this package can be used as a drop-in
// replacement for the standard errors package.
func New(msg string) error {
	return errors.New(msg)
}

// Is is re-exported [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is re-exported [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap is re-exported [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join is re-exported [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// DecoratePanic converts a value recovered from a panic into an annotated
// error whose source location points at the panic site.
func DecoratePanic(excp any) error {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])

	var (
		pc        uintptr
		seenPanic bool
	)
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			pc = frame.PC
			break
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			break
		}
	}

	return &AnnotatedError{
		msg:         fmt.Sprintf("panic: %v", excp),
		err:         nil,
		annotations: nil,
		pc:          pc,
	}
}

// SlogError converts err to a [slog.Attr] under the "error" group containing
// the error message, annotations collected from the wrap chain, and the source
// location where the innermost annotated error was created.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	var (
		annotations []slog.Attr
		pc          uintptr
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var annotated *AnnotatedError
		if errors.As(e, &annotated) {
			annotations = append(annotations, annotated.annotations...)
			pc = annotated.pc
			e = annotated
		}
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	if pc != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		attrs = append(attrs, slog.String("source", fmt.Sprintf("%s:%d", frame.File, frame.Line)))
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}
