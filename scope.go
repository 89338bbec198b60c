package thinwrap

import "go.uber.org/zap"

// Dropper is implemented by every wrapper.
type Dropper interface {
	Drop()
}

// Scope releases a group of wrappers together, newest first, like a chain of
// deferred Drop calls that can be handed around. The zero Scope is ready to
// use. A Scope is not safe for concurrent use.
type Scope struct {
	noCopy noCopy
	drops  []Dropper
	closed bool
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Defer schedules d to be dropped when the scope closes. Deferring onto a
// closed scope drops d immediately.
func (s *Scope) Defer(d Dropper) {
	if s.closed {
		Logger().Debug("scope already closed, dropping immediately")
		d.Drop()
		return
	}
	s.drops = append(s.drops, d)
}

// Adopt defers w on s and returns w, so wrappers can be created inline:
//
//	tex := thinwrap.Adopt(s, res.TextureFromRaw(ffi.LoadTexture(path)))
func Adopt[W Dropper](s *Scope, w W) W {
	s.Defer(w)
	return w
}

// Len returns the number of wrappers awaiting release.
func (s *Scope) Len() int {
	return len(s.drops)
}

// Close drops every deferred wrapper in reverse order. If a release panics,
// the remaining wrappers are still dropped and the first panic is re-raised
// afterwards. Closing twice is a no-op.
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	drops := s.drops
	s.drops = nil

	var first any
	for i := len(drops) - 1; i >= 0; i-- {
		if r := dropRecover(drops[i]); r != nil && first == nil {
			first = r
		}
	}
	if first != nil {
		panic(first)
	}
	return nil
}

func dropRecover(d Dropper) (r any) {
	defer func() {
		if r = recover(); r != nil {
			Logger().Error("release panicked during scope close", zap.Any("panic", r))
		}
	}()
	d.Drop()
	return nil
}

// Run calls fn with a fresh scope and closes the scope on every exit path:
// normal return, error return and panic.
func Run(fn func(s *Scope) error) error {
	s := NewScope()
	defer s.Close()
	return fn(s)
}

// With adopts raw for the duration of fn and releases it afterwards unless fn
// extracted it.
func With[H any, R Releaser[H]](raw H, fn func(w *Owned[H, R]) error) error {
	w := FromRaw[H, R](raw)
	defer w.Drop()
	return fn(w)
}

// WithBound is With for handles that depend on b.
func WithBound[H any, R Releaser[H], B any](b *Binding[B], raw H, fn func(w *Bound[H, R, B]) error) error {
	w := FromRawBound[H, R](b, raw)
	defer w.Drop()
	return fn(w)
}
