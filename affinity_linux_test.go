//go:build linux

package thinwrap_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/thinwrap"
	"github.com/syssam/thinwrap/internal/fakeffi"
)

// onOtherThread runs fn on a goroutine locked to a different OS thread than
// the caller, which must itself be locked.
func onOtherThread(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
	<-done
}

func TestAffinity_WrongThreadPanics(t *testing.T) {
	require.NoError(t, thinwrap.Configure(thinwrap.WithAffinityCheck(true)))
	t.Cleanup(thinwrap.ResetSettings)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	img := newImage()
	id := img.Get().ID

	var getErr, dropErr error
	onOtherThread(func() {
		getErr = panicErr(func() { img.Get() })
		dropErr = panicErr(img.Drop)
	})

	require.ErrorIs(t, getErr, thinwrap.ErrWrongThread)
	assert.True(t, thinwrap.IsAffinityError(getErr))
	require.ErrorIs(t, dropErr, thinwrap.ErrWrongThread)
	assert.True(t, img.Live(), "a refused release leaves the wrapper owning")
	assert.Equal(t, 0, fakeffi.Releases(id))

	img.Drop()
	assert.Equal(t, 1, fakeffi.Releases(id))
}

func TestAffinity_DisabledByDefault(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	img := newImage()
	id := img.Get().ID
	onOtherThread(img.Drop)
	assert.Equal(t, 1, fakeffi.Releases(id))
}
