package thinwrap

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Wrapper is the operation set shared by Owned and Bound. Generated wrapper
// types assert against it.
type Wrapper[H any] interface {
	Get() H
	Mut() *H
	Unwrap() H
	ToRaw() H
	Drop()
	Live() bool
}

// Owned exclusively owns one handle of type H and releases it through R
// exactly once. The handle is the leading field, so *Owned[H, R] may be
// reinterpreted as *H when a foreign call needs the handle's address.
//
// An Owned is used by pointer and must not be copied. Release happens when
// Drop (or Close) runs, normally through defer or a Scope:
//
//	img := thinwrap.FromRaw[ffi.Image, unloadImage](ffi.LoadImage(path))
//	defer img.Drop()
//
// Drop is a no-op once the handle was extracted with Unwrap or ToRaw, so the
// deferred call composes with returning ownership to the caller.
type Owned[H any, R Releaser[H]] struct {
	raw H
	own ownership
}

// FromRaw adopts raw and returns a wrapper that owns it.
//
// The caller attests that raw is a live handle that no other wrapper owns and
// that the current OS thread may use it. Neither can be checked here; breaking
// either is undefined behavior at release time.
func FromRaw[H any, R Releaser[H]](raw H) *Owned[H, R] {
	cfg := Settings()
	w := &Owned[H, R]{raw: raw}
	w.own.adopt(&cfg)
	if cfg.Collector != nil {
		w.own.cleanup = runtime.AddCleanup(w, leakFunc(cfg.Collector, kindOf[H, R](), release[H, R]), raw)
		w.own.tracked = true
	}
	if observed() {
		notify(Event{Handle: raw, Kind: kindOf[H, R](), Type: EventCreated})
	}
	return w
}

// Get returns a copy of the owned handle for read-only use. It does not
// affect ownership.
func (w *Owned[H, R]) Get() H {
	w.own.check("get", kindOf[H, R])
	return w.raw
}

// Mut returns a pointer to the owned handle for in-place mutation or for
// passing to foreign calls that take *H. The pointer must not be used after
// the wrapper is dropped or its handle extracted.
//
// A leak collector only knows the handle value passed to FromRaw, so the
// first Mut stops leak tracking for the wrapper. Drop still releases the
// mutated handle.
func (w *Owned[H, R]) Mut() *H {
	w.own.check("mut", kindOf[H, R])
	if w.own.tracked {
		w.own.untrack()
		Logger().Warn("leak recovery disabled for mutably borrowed handle",
			zap.String("kind", kindOf[H, R]()))
	}
	return &w.raw
}

// Unwrap ends ownership and returns the raw handle without releasing it.
// The caller becomes responsible for releasing the handle through the
// correct foreign function; failing to do so leaks it, doing it twice is a
// double free.
func (w *Owned[H, R]) Unwrap() H {
	return w.extract("unwrap")
}

// ToRaw returns the raw handle and ends ownership. It is the same operation
// as Unwrap under the name used where handing the handle back to foreign
// code is the expected outcome.
func (w *Owned[H, R]) ToRaw() H {
	return w.extract("to_raw")
}

func (w *Owned[H, R]) extract(op string) H {
	w.own.extract(op, kindOf[H, R])
	if observed() {
		notify(Event{Handle: w.raw, Kind: kindOf[H, R](), Type: EventExtracted})
	}
	return w.raw
}

// Drop releases the handle if the wrapper still owns it. Calling Drop on a
// nil, empty, dropped or extracted wrapper does nothing.
func (w *Owned[H, R]) Drop() {
	if w == nil || !w.own.beginRelease(kindOf[H, R]) {
		return
	}
	release[H, R](w.raw)
	if observed() {
		notify(Event{Handle: w.raw, Kind: kindOf[H, R](), Type: EventReleased})
	}
}

// Close drops the wrapper. It always returns nil and exists so wrappers
// satisfy io.Closer.
func (w *Owned[H, R]) Close() error {
	w.Drop()
	return nil
}

// Live reports whether the wrapper still owns its handle.
func (w *Owned[H, R]) Live() bool {
	return w != nil && w.own.owning()
}

// Kind returns the resource kind name.
func (w *Owned[H, R]) Kind() string {
	return kindOf[H, R]()
}

// String formats the wrapper for debugging.
func (w *Owned[H, R]) String() string {
	if w == nil {
		return kindOf[H, R]() + "(nil)"
	}
	if !w.own.owning() {
		return fmt.Sprintf("%s(<%s>)", kindOf[H, R](), w.own.state.label())
	}
	return fmt.Sprintf("%s(%+v)", kindOf[H, R](), w.raw)
}
