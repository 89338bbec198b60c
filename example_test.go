package thinwrap_test

import (
	"errors"
	"fmt"

	"github.com/syssam/thinwrap"
	"github.com/syssam/thinwrap/internal/fakeffi"
)

func ExampleFromRaw() {
	img := thinwrap.FromRaw[fakeffi.Image, unloadImage](fakeffi.LoadImage(640, 480))
	defer img.Drop()

	fmt.Println(img.Kind(), img.Get().Width, img.Get().Height)
	// Output: Image 640 480
}

func ExampleOwned_Unwrap() {
	img := thinwrap.FromRaw[fakeffi.Image, unloadImage](fakeffi.LoadImage(1, 1))
	raw := img.Unwrap()
	img.Drop() // no-op: ownership moved to raw

	fmt.Println(img, fakeffi.Releases(raw.ID))
	fakeffi.UnloadImage(raw)
	// Output: Image(<extracted>) 0
}

func ExampleBinding() {
	dev := thinwrap.NewBinding(fakeffi.InitAudioDevice(), thinwrap.WithRelease(fakeffi.CloseAudioDevice))
	snd := thinwrap.FromRawBound[fakeffi.Sound, unloadSound](dev, fakeffi.LoadSound(dev.Value(), 100))
	id := snd.Get().ID

	_ = dev.Close()
	fmt.Println(snd.Live(), fakeffi.Releases(id), fakeffi.ReleasedLate(id))
	// Output: false 1 false
}

func ExampleRun() {
	var ids []uint32
	err := thinwrap.Run(func(s *thinwrap.Scope) error {
		for range 3 {
			img := thinwrap.Adopt(s, thinwrap.FromRaw[fakeffi.Image, unloadImage](fakeffi.LoadImage(2, 2)))
			ids = append(ids, img.Get().ID)
		}
		return errors.New("load failed")
	})

	fmt.Println(err)
	for _, id := range ids {
		fmt.Print(fakeffi.Releases(id), " ")
	}
	fmt.Println(fakeffi.ReleaseSeq(ids[2]) < fakeffi.ReleaseSeq(ids[0]))
	// Output:
	// load failed
	// 1 1 1 true
}
