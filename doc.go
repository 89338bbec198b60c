// Package thinwrap attaches exactly-once release to handles obtained from a
// native library.
//
// Native graphics libraries hand out plain-data handles (images, textures,
// sounds, shaders) that must be released exactly once, through a
// library-specific function, on the thread that created them. A wrapper owns
// one such handle, gives controlled access to it for further foreign calls,
// and releases it when dropped.
//
// # Wrappers
//
// A wrapper type is an instantiation of Owned with the handle type and a
// releaser type whose Release method calls the foreign deallocation function:
//
//	type unloadImage struct{}
//
//	func (unloadImage) Release(h ffi.Image) { ffi.UnloadImage(h) }
//
//	type Image = thinwrap.Owned[ffi.Image, unloadImage]
//
// The compiler/gen package and the thinwrap command generate these
// declarations from a manifest, one per resource kind.
//
// Every wrapper offers the same operations:
//
//	FromRaw    adopt a raw handle (caller attests liveness and thread)
//	Get        read-only copy of the handle
//	Mut        *H for in-place mutation or foreign calls
//	Unwrap     move the handle out; the wrapper will not release it
//	ToRaw      same as Unwrap
//	Drop       release if still owning; no-op otherwise
//
// # Release on every exit path
//
// Go has no destructors, so release is tied to scope with defer, a Scope, or
// the With helpers, all of which run on normal return, error return and
// panic:
//
//	err := thinwrap.Run(func(s *thinwrap.Scope) error {
//		img := thinwrap.Adopt(s, res.ImageFromRaw(ffi.LoadImage("a.png")))
//		tex := thinwrap.Adopt(s, res.TextureFromRaw(ffi.LoadTextureFromImage(img.Get())))
//		return draw(tex)
//	})
//
// # Bound wrappers
//
// Bound ties a handle to a Binding, the context it depends on. Accessing a
// bound wrapper after its binding closed panics, and closing a binding first
// releases the dependents that are still owning.
//
// # Misuse
//
// Using a wrapper after Unwrap, ToRaw or Drop panics with a *UseError.
// With affinity checks enabled (WithAffinityCheck), touching a handle from a
// different OS thread panics with an *AffinityError. Handles leaked by
// forgetting Drop can be recovered on the owning thread with a Collector.
package thinwrap
