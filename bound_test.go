package thinwrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/thinwrap"
	"github.com/syssam/thinwrap/internal/fakeffi"
)

// A bound wrapper only accepts a binding of its own context type; the
// following does not compile because Sound is bound to fakeffi.AudioDevice:
//
//	b := thinwrap.NewBinding(fakeffi.Image{})
//	thinwrap.FromRawBound[fakeffi.Sound, unloadSound](b, snd)

func TestBound_DropReleasesOnce(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	defer dev.Close()

	snd := newSound(dev)
	id := snd.Get().ID
	assert.Equal(t, 1, dev.Len())
	assert.Same(t, dev, snd.Binding())

	snd.Drop()
	snd.Drop()
	assert.Equal(t, 1, fakeffi.Releases(id))
	assert.Equal(t, 0, dev.Len())
	assert.False(t, fakeffi.ReleasedLate(id))
}

func TestBound_CloseReleasesDependentsFirst(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	devID := dev.Value().ID
	first := newSound(dev)
	second := newSound(dev)
	firstID, secondID := first.Get().ID, second.Get().ID

	require.NoError(t, dev.Close())
	assert.False(t, dev.Alive())

	assert.Equal(t, 1, fakeffi.Releases(firstID))
	assert.Equal(t, 1, fakeffi.Releases(secondID))
	assert.Equal(t, 1, fakeffi.Releases(devID))
	assert.Less(t, fakeffi.ReleaseSeq(secondID), fakeffi.ReleaseSeq(firstID), "newest dependent first")
	assert.Less(t, fakeffi.ReleaseSeq(firstID), fakeffi.ReleaseSeq(devID), "context last")
	assert.False(t, fakeffi.ReleasedLate(firstID))
	assert.False(t, fakeffi.ReleasedLate(secondID))

	// Deferred drops after the binding closed must not release again.
	first.Drop()
	second.Drop()
	assert.Equal(t, 1, fakeffi.Releases(firstID))

	require.NoError(t, dev.Close())
	assert.Equal(t, 1, fakeffi.Releases(devID))
}

type panickingSound struct{}

func (panickingSound) Release(h fakeffi.Sound) {
	fakeffi.UnloadSound(h)
	panic("mixer crashed")
}

func TestBound_ClosePanickingReleaseStillClosesContext(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	devID := dev.Value().ID
	first := newSound(dev)
	bad := thinwrap.FromRawBound[fakeffi.Sound, panickingSound](dev, fakeffi.LoadSound(dev.Value(), 8))
	last := newSound(dev)
	ids := []uint32{first.Get().ID, bad.Get().ID, last.Get().ID}

	assert.PanicsWithValue(t, "mixer crashed", func() { _ = dev.Close() })
	assert.False(t, dev.Alive())
	assert.Equal(t, 0, dev.Len())
	for _, id := range ids {
		assert.Equal(t, 1, fakeffi.Releases(id))
		assert.False(t, fakeffi.ReleasedLate(id))
	}
	assert.Equal(t, 1, fakeffi.Releases(devID), "context released after a dependent panicked")

	assert.NotPanics(t, func() { require.NoError(t, dev.Close()) })
	assert.Equal(t, 1, fakeffi.Releases(devID))
}

func TestBound_UseAfterBindingClosed(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	snd := newSound(dev)
	require.NoError(t, dev.Close())

	assert.False(t, snd.Live())
	for name, op := range map[string]func(){
		"get":    func() { snd.Get() },
		"mut":    func() { snd.Mut() },
		"unwrap": func() { snd.Unwrap() },
		"to_raw": func() { snd.ToRaw() },
	} {
		err := panicErr(op)
		require.ErrorIs(t, err, thinwrap.ErrBindingClosed, name)
	}

	err := panicErr(func() { newSound(dev) })
	require.ErrorIs(t, err, thinwrap.ErrBindingClosed)
}

func TestBound_UnwrapDetaches(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	snd := newSound(dev)
	raw := snd.Unwrap()
	assert.Equal(t, 0, dev.Len())

	snd.Drop()
	assert.Equal(t, 0, fakeffi.Releases(raw.ID))

	fakeffi.UnloadSound(raw)
	require.NoError(t, dev.Close())
	assert.Equal(t, 1, fakeffi.Releases(raw.ID), "binding does not release an extracted handle")
	assert.ErrorIs(t, panicErr(func() { snd.Get() }), thinwrap.ErrBindingClosed)
}

func TestBound_RoundTrip(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	defer dev.Close()

	snd := newSound(dev)
	want := snd.Get()
	again := thinwrap.FromRawBound[fakeffi.Sound, unloadSound](dev, snd.ToRaw())
	assert.Equal(t, want, again.Get())

	again.Drop()
	assert.Equal(t, 1, fakeffi.Releases(want.ID))
}

func TestBound_BorrowDoesNotRelease(t *testing.T) {
	t.Parallel()

	dev := openDevice()
	defer dev.Close()

	snd := newSound(dev)
	defer snd.Drop()

	snd.Mut().FrameCount = 10
	assert.Equal(t, uint32(10), snd.Get().FrameCount)
	assert.True(t, snd.Live())
	assert.Equal(t, 0, fakeffi.Releases(snd.Get().ID))
}

func TestBound_Layout(t *testing.T) {
	t.Parallel()

	require.NoError(t, thinwrap.CheckBoundLayout[fakeffi.Sound, unloadSound, fakeffi.AudioDevice]())

	dev := openDevice()
	defer dev.Close()
	snd := newSound(dev)
	assert.Equal(t, "Sound", snd.Kind())
	assert.Contains(t, snd.String(), "Sound({")
	snd.Drop()
	assert.Equal(t, "Sound(<released>)", snd.String())
}

func TestBound_ZeroValue(t *testing.T) {
	t.Parallel()

	var snd Sound
	assert.ErrorIs(t, panicErr(func() { snd.Get() }), thinwrap.ErrEmpty)
	assert.NotPanics(t, snd.Drop)
	assert.False(t, snd.Live())
}
