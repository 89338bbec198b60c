package thinwrap

import "fmt"

// Bound is an Owned whose handle is only valid while a Binding[B] is open.
// The binding type is part of the wrapper type, so a Bound can only be
// built from a binding of the matching context type. Every operation checks
// that the binding is still open and panics with a UseError wrapping
// ErrBindingClosed otherwise.
//
// The two markers are zero-size and precede the handle, which stays at
// offset zero exactly as in Owned.
type Bound[H any, R Releaser[H], B any] struct {
	_    Marker[H]
	_    Marker[B]
	raw  H
	own  ownership
	bind *Binding[B]
	id   uint64
}

// FromRawBound adopts raw as a handle that depends on b.
//
// The same obligations as FromRaw apply. It panics if b is already closed.
func FromRawBound[H any, R Releaser[H], B any](b *Binding[B], raw H) *Bound[H, R, B] {
	if !b.Alive() {
		panic(&UseError{Op: "from_raw", Kind: kindOf[H, R](), Cause: ErrBindingClosed})
	}
	cfg := Settings()
	w := &Bound[H, R, B]{raw: raw, bind: b}
	w.own.adopt(&cfg)
	w.id = b.attach(w)
	if observed() {
		notify(Event{Handle: raw, Kind: kindOf[H, R](), Type: EventCreated, Bound: true})
	}
	return w
}

func (w *Bound[H, R, B]) check(op string) {
	if w.bind != nil && !w.bind.Alive() {
		panic(&UseError{Op: op, Kind: kindOf[H, R](), Cause: ErrBindingClosed})
	}
	w.own.check(op, kindOf[H, R])
}

// Get returns a copy of the owned handle for read-only use.
func (w *Bound[H, R, B]) Get() H {
	w.check("get")
	return w.raw
}

// Mut returns a pointer to the owned handle. The pointer must not be used
// after the wrapper is dropped, its handle extracted, or its binding closed.
func (w *Bound[H, R, B]) Mut() *H {
	w.check("mut")
	return &w.raw
}

// Unwrap ends ownership and returns the raw handle without releasing it.
// The handle is detached from the binding; the caller must release it,
// before the binding's context goes away, through the correct foreign call.
func (w *Bound[H, R, B]) Unwrap() H {
	return w.extract("unwrap")
}

// ToRaw is Unwrap under its second name.
func (w *Bound[H, R, B]) ToRaw() H {
	return w.extract("to_raw")
}

func (w *Bound[H, R, B]) extract(op string) H {
	w.check(op)
	w.own.extract(op, kindOf[H, R])
	w.bind.detach(w.id)
	if observed() {
		notify(Event{Handle: w.raw, Kind: kindOf[H, R](), Type: EventExtracted, Bound: true})
	}
	return w.raw
}

// Drop releases the handle if the wrapper still owns it. Once the binding
// was closed the handle has already been released, so Drop does nothing.
func (w *Bound[H, R, B]) Drop() {
	if w == nil || !w.own.beginRelease(kindOf[H, R]) {
		return
	}
	w.bind.detach(w.id)
	w.finishRelease()
}

func (w *Bound[H, R, B]) finishRelease() {
	release[H, R](w.raw)
	if observed() {
		notify(Event{Handle: w.raw, Kind: kindOf[H, R](), Type: EventReleased, Bound: true})
	}
}

// releaseForBinding is called by Binding.Close while the binding is still
// marked open.
func (w *Bound[H, R, B]) releaseForBinding() {
	if !w.own.beginRelease(kindOf[H, R]) {
		return
	}
	w.finishRelease()
}

func (w *Bound[H, R, B]) kind() string {
	return kindOf[H, R]()
}

// Close drops the wrapper and returns nil.
func (w *Bound[H, R, B]) Close() error {
	w.Drop()
	return nil
}

// Live reports whether the wrapper still owns its handle and its binding is
// open.
func (w *Bound[H, R, B]) Live() bool {
	return w != nil && w.own.owning() && w.bind.Alive()
}

// Binding returns the binding the handle depends on.
func (w *Bound[H, R, B]) Binding() *Binding[B] {
	return w.bind
}

// Kind returns the resource kind name.
func (w *Bound[H, R, B]) Kind() string {
	return kindOf[H, R]()
}

// String formats the wrapper for debugging.
func (w *Bound[H, R, B]) String() string {
	if w == nil {
		return kindOf[H, R]() + "(nil)"
	}
	if !w.own.owning() {
		return fmt.Sprintf("%s(<%s>)", kindOf[H, R](), w.own.state.label())
	}
	return fmt.Sprintf("%s(%+v)", kindOf[H, R](), w.raw)
}
