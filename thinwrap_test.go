package thinwrap_test

import (
	"sync"

	"github.com/syssam/thinwrap"
	"github.com/syssam/thinwrap/internal/fakeffi"
)

// Releasers shared by the package tests.

type unloadImage struct{}

func (unloadImage) Release(h fakeffi.Image) { fakeffi.UnloadImage(h) }
func (unloadImage) Kind() string            { return "Image" }

type unloadTexture struct{}

func (unloadTexture) Release(h fakeffi.Texture) { fakeffi.UnloadTexture(h) }

type unloadSound struct{}

func (unloadSound) Release(h fakeffi.Sound) { fakeffi.UnloadSound(h) }
func (unloadSound) Kind() string            { return "Sound" }

type (
	Image   = thinwrap.Owned[fakeffi.Image, unloadImage]
	Texture = thinwrap.Owned[fakeffi.Texture, unloadTexture]
	Sound   = thinwrap.Bound[fakeffi.Sound, unloadSound, fakeffi.AudioDevice]
)

// captured records the exact value each captureImage release received.
var captured sync.Map

type captureImage struct{}

func (captureImage) Release(h fakeffi.Image) {
	captured.Store(h.ID, h)
	fakeffi.UnloadImage(h)
}

func newImage() *Image {
	return thinwrap.FromRaw[fakeffi.Image, unloadImage](fakeffi.LoadImage(64, 32))
}

func openDevice() *thinwrap.Binding[fakeffi.AudioDevice] {
	return thinwrap.NewBinding(fakeffi.InitAudioDevice(), thinwrap.WithRelease(fakeffi.CloseAudioDevice))
}

func newSound(b *thinwrap.Binding[fakeffi.AudioDevice]) *Sound {
	return thinwrap.FromRawBound[fakeffi.Sound, unloadSound](b, fakeffi.LoadSound(b.Value(), 44100))
}

// panicErr runs fn and returns the error it panicked with, if any.
func panicErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
