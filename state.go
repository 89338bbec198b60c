package thinwrap

import (
	"reflect"
	"runtime"
)

// Releaser releases handles of type H. Implementations are normally
// zero-size types whose Release calls the foreign deallocation function, so
// the release function is part of the wrapper type and costs no storage.
//
// Release must not be called twice for the same logical handle.
type Releaser[H any] interface {
	Release(H)
}

// Kinder is optionally implemented by a Releaser to name its resource kind
// in events, logs and errors. Without it the handle's Go type name is used.
type Kinder interface {
	Kind() string
}

// kindOf names the resource kind released by R.
func kindOf[H any, R Releaser[H]]() string {
	var r R
	if k, ok := any(r).(Kinder); ok {
		return k.Kind()
	}
	return reflect.TypeFor[H]().String()
}

// release runs R's release function for h.
func release[H any, R Releaser[H]](h H) {
	var r R
	r.Release(h)
}

// state is the ownership state of a wrapper.
type state uint8

const (
	stateEmpty     state = iota // zero wrapper, never adopted a handle
	stateOwning                 // owns its handle; release pending
	stateExtracted              // handle moved out, no release
	stateReleased               // release ran
)

// cause maps a non-owning state to its sentinel error.
func (s state) cause() error {
	switch s {
	case stateExtracted:
		return ErrConsumed
	case stateReleased:
		return ErrReleased
	default:
		return ErrEmpty
	}
}

// noCopy lets go vet's copylocks check flag wrappers copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// ownership is the state word shared by every wrapper variant. It follows
// the handle in memory so the handle stays at offset zero.
type ownership struct {
	noCopy  noCopy
	state   state
	tracked bool
	thread  int
	cleanup runtime.Cleanup
}

// adopt moves a fresh wrapper into the owning state, recording the adopting
// thread when affinity checks are on.
func (o *ownership) adopt(cfg *Config) {
	o.state = stateOwning
	if cfg.CheckAffinity {
		o.thread = threadID()
	}
}

// owning reports whether the release is still pending.
func (o *ownership) owning() bool {
	return o.state == stateOwning
}

// check panics unless the wrapper owns its handle and, with affinity checks
// on, the caller runs on the adopting thread.
func (o *ownership) check(op string, kind func() string) {
	if o.state != stateOwning {
		panic(&UseError{Op: op, Kind: kind(), Cause: o.state.cause()})
	}
	o.checkThread(op, kind)
}

func (o *ownership) checkThread(op string, kind func() string) {
	if o.thread == 0 {
		return
	}
	if cur := threadID(); cur != o.thread {
		panic(&AffinityError{Op: op, Kind: kind(), Owner: o.thread, Caller: cur})
	}
}

// extract ends ownership without releasing.
func (o *ownership) extract(op string, kind func() string) {
	o.check(op, kind)
	o.state = stateExtracted
	o.untrack()
}

// beginRelease reports whether the caller must run the release function.
// It returns true exactly once per adopted handle; the state is switched
// before the release runs so a panicking release is never retried.
func (o *ownership) beginRelease(kind func() string) bool {
	if o.state != stateOwning {
		return false
	}
	o.checkThread("drop", kind)
	o.state = stateReleased
	o.untrack()
	return true
}

func (o *ownership) untrack() {
	if o.tracked {
		o.cleanup.Stop()
		o.tracked = false
	}
}

func (s state) label() string {
	switch s {
	case stateOwning:
		return "owning"
	case stateExtracted:
		return "extracted"
	case stateReleased:
		return "released"
	default:
		return "empty"
	}
}
