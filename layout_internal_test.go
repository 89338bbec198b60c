package thinwrap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rgb [3]byte

type rgbReleaser struct{}

func (rgbReleaser) Release(rgb) {}

// Wrapper shapes that break the prefix layout.
type (
	handleLast struct {
		own ownership
		raw rgb
	}
	extraField struct {
		raw   rgb
		own   ownership
		extra uint64
	}
	trailingMarker struct {
		raw  rgb
		own  ownership
		bind *Binding[int]
		id   uint64
		_    Marker[int]
	}
)

func measure[W any](w *W, handle, own uintptr) layout {
	return layout{handle: handle, own: own, size: unsafe.Sizeof(*w)}
}

func TestCheckLayout_PaddedHandle(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckLayout[rgb, rgbReleaser]())
	require.NoError(t, CheckBoundLayout[rgb, rgbReleaser, int]())

	var w Owned[rgb, rgbReleaser]
	var o ownership
	assert.Greater(t, unsafe.Sizeof(w), unsafe.Sizeof(rgb{}), "a wrapper is larger than its handle")
	assert.Equal(t, alignUp(3, unsafe.Alignof(o)), unsafe.Offsetof(w.own))
	assert.Equal(t, ownedLayout(3, 1).size, unsafe.Sizeof(w))
}

func TestCheckLayout_Violations(t *testing.T) {
	t.Parallel()

	want := ownedLayout(unsafe.Sizeof(rgb{}), unsafe.Alignof(rgb{}))

	var last handleLast
	var extra extraField
	var trailing trailingMarker
	var plain boundFields[rgb, int]
	boundWant := want
	boundWant.size = unsafe.Sizeof(plain)

	tests := []struct {
		name string
		got  layout
		want layout
		msg  string
	}{
		{
			name: "handle after ownership word",
			got:  measure(&last, unsafe.Offsetof(last.raw), unsafe.Offsetof(last.own)),
			want: want,
			msg:  "handle is not the leading field",
		},
		{
			name: "extra field",
			got:  measure(&extra, unsafe.Offsetof(extra.raw), unsafe.Offsetof(extra.own)),
			want: want,
			msg:  "wrapper size is not handle plus ownership word",
		},
		{
			name: "marker after the fields",
			got:  measure(&trailing, unsafe.Offsetof(trailing.raw), unsafe.Offsetof(trailing.own)),
			want: boundWant,
			msg:  "relationship markers add storage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkLayout("Pixel", tt.got, tt.want, tt.msg)
			require.ErrorIs(t, err, ErrBadLayout)
			var le *LayoutError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "Pixel", le.Kind)
			assert.Equal(t, tt.msg, le.Message)
			assert.NotEqual(t, le.Want, le.Size)
		})
	}
}

func TestCheckLayout_OwnershipGap(t *testing.T) {
	t.Parallel()

	want := ownedLayout(8, 8)
	got := want
	got.own += 8
	err := checkLayout("Pixel", got, want, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ownership word does not follow the handle")
}
