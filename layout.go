package thinwrap

import "unsafe"

// CheckLayout verifies the prefix layout of Owned[H, R]: the handle is the
// leading field, the ownership word follows it with only alignment padding
// in between, and the wrapper holds nothing else. A *Owned[H, R] can
// therefore be passed wherever foreign code reads or writes a *H.
//
// The wrapper is not the same size as H. It is H plus padding plus the
// ownership word, so a wrapper value must never be copied into an H slot.
func CheckLayout[H any, R Releaser[H]]() error {
	var w Owned[H, R]
	var h H
	got := layout{
		handle: unsafe.Offsetof(w.raw),
		own:    unsafe.Offsetof(w.own),
		size:   unsafe.Sizeof(w),
	}
	return checkLayout(kindOf[H, R](), got, ownedLayout(unsafe.Sizeof(h), unsafe.Alignof(h)),
		"wrapper size is not handle plus ownership word")
}

// CheckBoundLayout is CheckLayout for bound wrappers. It also verifies that
// the relationship markers add no bytes: a Bound must be exactly as large as
// the same fields without markers.
func CheckBoundLayout[H any, R Releaser[H], B any]() error {
	var w Bound[H, R, B]
	var h H
	var plain boundFields[H, B]
	got := layout{
		handle: unsafe.Offsetof(w.raw),
		own:    unsafe.Offsetof(w.own),
		size:   unsafe.Sizeof(w),
	}
	want := ownedLayout(unsafe.Sizeof(h), unsafe.Alignof(h))
	want.size = unsafe.Sizeof(plain)
	return checkLayout(kindOf[H, R](), got, want, "relationship markers add storage")
}

// boundFields mirrors Bound without its markers.
type boundFields[H, B any] struct {
	raw  H
	own  ownership
	bind *Binding[B]
	id   uint64
}

// layout holds the offsets and size that CheckLayout compares.
type layout struct {
	handle uintptr
	own    uintptr
	size   uintptr
}

// ownedLayout computes the layout of a handle of the given size and
// alignment followed by the ownership word.
func ownedLayout(size, align uintptr) layout {
	var o ownership
	ownAt := alignUp(size, unsafe.Alignof(o))
	return layout{
		handle: 0,
		own:    ownAt,
		size:   alignUp(ownAt+unsafe.Sizeof(o), max(align, unsafe.Alignof(o))),
	}
}

func alignUp(n, align uintptr) uintptr {
	if align == 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

func checkLayout(kind string, got, want layout, sizeMsg string) error {
	switch {
	case got.handle != want.handle:
		return &LayoutError{Kind: kind, Offset: got.handle, Size: got.handle, Want: want.handle,
			Message: "handle is not the leading field"}
	case got.own != want.own:
		return &LayoutError{Kind: kind, Offset: got.own, Size: got.own, Want: want.own,
			Message: "ownership word does not follow the handle"}
	case got.size != want.size:
		return &LayoutError{Kind: kind, Offset: got.own, Size: got.size, Want: want.size,
			Message: sizeMsg}
	}
	return nil
}
