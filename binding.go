package thinwrap

import (
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// dependent is a bound wrapper registered with its binding.
type dependent interface {
	kind() string
	releaseForBinding()
}

// Binding is the context that bound handles depend on, such as an audio
// device that must outlive every sound loaded through it. Go cannot express
// the lifetime relationship statically, so the binding acts as a liveness
// token: bound wrappers check it on every access, and Close releases any
// dependents still owning their handles before the context itself.
//
// A Binding is not safe for concurrent use.
type Binding[B any] struct {
	noCopy  noCopy
	ctx     B
	release func(B)
	deps    map[uint64]dependent
	seq     uint64
	closed  bool
}

// BindingOption configures a Binding.
type BindingOption[B any] func(*Binding[B])

// WithRelease makes Close call fn on the context after all dependents are
// released.
func WithRelease[B any](fn func(B)) BindingOption[B] {
	return func(b *Binding[B]) {
		b.release = fn
	}
}

// NewBinding returns an open binding for ctx.
func NewBinding[B any](ctx B, opts ...BindingOption[B]) *Binding[B] {
	b := &Binding[B]{
		ctx:  ctx,
		deps: make(map[uint64]dependent),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Value returns the binding context.
func (b *Binding[B]) Value() B {
	return b.ctx
}

// Alive reports whether the binding is still open.
func (b *Binding[B]) Alive() bool {
	return b != nil && !b.closed
}

// Len returns the number of bound wrappers still owning their handles.
func (b *Binding[B]) Len() int {
	return len(b.deps)
}

// Close releases every dependent still owning its handle, newest first, then
// releases the context if WithRelease was given. If a dependent's release
// panics, the remaining dependents and the context are still released and
// the first panic is re-raised afterwards. Closing twice is a no-op.
func (b *Binding[B]) Close() error {
	if b.closed {
		return nil
	}
	ids := make([]uint64, 0, len(b.deps))
	for id := range b.deps {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var first any
	for _, id := range slices.Backward(ids) {
		d := b.deps[id]
		Logger().Warn("bound handle outlived its binding",
			zap.String("kind", d.kind()),
			zap.String("binding", reflect.TypeFor[B]().String()))
		if r := releaseRecover(d); r != nil && first == nil {
			first = r
		}
	}
	b.closed = true
	clear(b.deps)
	if b.release != nil {
		b.release(b.ctx)
	}
	if first != nil {
		panic(first)
	}
	return nil
}

func releaseRecover(d dependent) (r any) {
	defer func() {
		if r = recover(); r != nil {
			Logger().Error("release panicked during binding close",
				zap.String("kind", d.kind()), zap.Any("panic", r))
		}
	}()
	d.releaseForBinding()
	return nil
}

func (b *Binding[B]) attach(d dependent) uint64 {
	b.seq++
	b.deps[b.seq] = d
	return b.seq
}

func (b *Binding[B]) detach(id uint64) {
	delete(b.deps, id)
}
