// Package fakeffi imitates a native graphics and audio library. Handles are
// plain structs, as a cgo binding would expose them, and every release is
// recorded so tests can assert exactly-once and ordering guarantees.
package fakeffi

import (
	"sync"
	"sync/atomic"
)

// Image is a CPU-side pixel buffer handle.
type Image struct {
	Data    uintptr
	ID      uint32
	Width   int32
	Height  int32
	Mipmaps int32
	Format  int32
}

// Texture is a GPU texture handle.
type Texture struct {
	ID      uint32
	Width   int32
	Height  int32
	Mipmaps int32
	Format  int32
}

// AudioDevice is an opened audio output.
type AudioDevice struct {
	ID uint32
}

// Sound is a sample loaded into an audio device.
type Sound struct {
	ID         uint32
	Device     uint32
	FrameCount uint32
}

type record struct {
	releases int
	seq      uint64 // release order, 1-based; 0 while live
	late     bool   // released after the device it depends on
}

var (
	nextID  atomic.Uint32
	nextSeq atomic.Uint64

	mu      sync.Mutex
	records = make(map[uint32]*record)
	devices = make(map[uint32]bool)
)

func alloc() uint32 {
	id := nextID.Add(1)
	mu.Lock()
	records[id] = &record{}
	mu.Unlock()
	return id
}

func free(id uint32) {
	mu.Lock()
	defer mu.Unlock()
	r, ok := records[id]
	if !ok {
		r = &record{}
		records[id] = r
	}
	r.releases++
	r.seq = nextSeq.Add(1)
}

// LoadImage allocates an image.
func LoadImage(width, height int32) Image {
	id := alloc()
	return Image{ID: id, Data: uintptr(id) << 12, Width: width, Height: height, Mipmaps: 1, Format: 7}
}

// UnloadImage releases an image.
func UnloadImage(img Image) { free(img.ID) }

// LoadTextureFromImage uploads img and returns a texture.
func LoadTextureFromImage(img Image) Texture {
	return Texture{ID: alloc(), Width: img.Width, Height: img.Height, Mipmaps: img.Mipmaps, Format: img.Format}
}

// UnloadTexture releases a texture.
func UnloadTexture(tex Texture) { free(tex.ID) }

// InitAudioDevice opens an audio device.
func InitAudioDevice() AudioDevice {
	id := alloc()
	mu.Lock()
	devices[id] = true
	mu.Unlock()
	return AudioDevice{ID: id}
}

// CloseAudioDevice closes dev. Sounds loaded through it must be unloaded
// first.
func CloseAudioDevice(dev AudioDevice) {
	mu.Lock()
	devices[dev.ID] = false
	mu.Unlock()
	free(dev.ID)
}

// LoadSound loads a sound into dev.
func LoadSound(dev AudioDevice, frames uint32) Sound {
	return Sound{ID: alloc(), Device: dev.ID, FrameCount: frames}
}

// UnloadSound releases a sound.
func UnloadSound(s Sound) {
	mu.Lock()
	open := devices[s.Device]
	mu.Unlock()
	free(s.ID)
	if !open {
		mu.Lock()
		records[s.ID].late = true
		mu.Unlock()
	}
}

// Releases returns how many times the resource with id was released.
func Releases(id uint32) int {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := records[id]; ok {
		return r.releases
	}
	return 0
}

// ReleaseSeq returns the global order in which id was last released, or 0 if
// it is still live. Larger values were released later.
func ReleaseSeq(id uint32) uint64 {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := records[id]; ok {
		return r.seq
	}
	return 0
}

// ReleasedLate reports whether the sound with id was unloaded after its
// audio device closed.
func ReleasedLate(id uint32) bool {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := records[id]; ok {
		return r.late
	}
	return false
}
