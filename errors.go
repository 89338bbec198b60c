package thinwrap

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for wrapper misuse.
var (
	// ErrConsumed is reported when a wrapper is used after its handle was
	// extracted with Unwrap or ToRaw.
	ErrConsumed = errors.New("thinwrap: handle already extracted")

	// ErrReleased is reported when a wrapper is used after it was dropped.
	ErrReleased = errors.New("thinwrap: handle already released")

	// ErrEmpty is reported when a zero wrapper, never given a handle, is used.
	ErrEmpty = errors.New("thinwrap: wrapper holds no handle")

	// ErrBindingClosed is reported when a bound wrapper is used after its
	// binding context was closed.
	ErrBindingClosed = errors.New("thinwrap: binding closed")

	// ErrWrongThread is reported when affinity checks are enabled and a
	// handle is touched from an OS thread other than the one that adopted it.
	ErrWrongThread = errors.New("thinwrap: handle used off its owning thread")

	// ErrBadLayout is reported by CheckLayout when a wrapper cannot be
	// reinterpreted as its handle.
	ErrBadLayout = errors.New("thinwrap: wrapper layout differs from handle")
)

// UseError describes an operation attempted on a wrapper that no longer
// owns its handle. It is raised as a panic value.
type UseError struct {
	Op    string // Operation attempted: "get", "mut", "unwrap", ...
	Kind  string // Resource kind
	Cause error  // One of ErrConsumed, ErrReleased, ErrBindingClosed
}

// Error implements the error interface.
func (e *UseError) Error() string {
	var b strings.Builder
	b.WriteString("thinwrap: ")
	b.WriteString(e.Op)
	if e.Kind != "" {
		b.WriteString(" on ")
		b.WriteString(e.Kind)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Cause.Error(), "thinwrap: "))
	}
	return b.String()
}

// Unwrap returns the underlying sentinel.
func (e *UseError) Unwrap() error {
	return e.Cause
}

// AffinityError reports a handle used from a foreign OS thread.
type AffinityError struct {
	Op     string
	Kind   string
	Owner  int // Thread that adopted the handle
	Caller int // Thread that attempted Op
}

// Error implements the error interface.
func (e *AffinityError) Error() string {
	return fmt.Sprintf("thinwrap: %s on %s from thread %d, owned by thread %d", e.Op, e.Kind, e.Caller, e.Owner)
}

// Is reports whether the target matches ErrWrongThread.
func (e *AffinityError) Is(target error) bool {
	return target == ErrWrongThread
}

// LayoutError reports a wrapper instantiation whose memory layout is not the
// handle followed by the ownership word.
type LayoutError struct {
	Kind    string
	Offset  uintptr // Offset of the offending field
	Size    uintptr // Measured offset or size
	Want    uintptr // Expected offset or size
	Message string
}

// Error implements the error interface.
func (e *LayoutError) Error() string {
	var b strings.Builder
	b.WriteString("thinwrap: layout error")
	if e.Kind != "" {
		b.WriteString(" for ")
		b.WriteString(e.Kind)
	}
	fmt.Fprintf(&b, " (offset %d, size %d, want %d)", e.Offset, e.Size, e.Want)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrBadLayout.
func (e *LayoutError) Is(target error) bool {
	return target == ErrBadLayout
}

// IsUseError reports whether err is a UseError.
func IsUseError(err error) bool {
	var useErr *UseError
	return errors.As(err, &useErr)
}

// IsAffinityError reports whether err is an AffinityError.
func IsAffinityError(err error) bool {
	var affErr *AffinityError
	return errors.As(err, &affErr)
}
