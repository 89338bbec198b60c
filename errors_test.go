package thinwrap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/thinwrap"
)

func TestUseError(t *testing.T) {
	t.Parallel()

	err := &thinwrap.UseError{Op: "get", Kind: "Image", Cause: thinwrap.ErrConsumed}
	assert.Equal(t, "thinwrap: get on Image: handle already extracted", err.Error())
	assert.ErrorIs(t, err, thinwrap.ErrConsumed)
	assert.NotErrorIs(t, err, thinwrap.ErrReleased)

	wrapped := fmt.Errorf("frame 12: %w", err)
	assert.True(t, thinwrap.IsUseError(wrapped))
	assert.False(t, thinwrap.IsUseError(errors.New("other")))

	bare := &thinwrap.UseError{Op: "mut"}
	assert.Equal(t, "thinwrap: mut", bare.Error())
}

func TestAffinityError(t *testing.T) {
	t.Parallel()

	err := &thinwrap.AffinityError{Op: "drop", Kind: "Texture", Owner: 10, Caller: 11}
	assert.Equal(t, "thinwrap: drop on Texture from thread 11, owned by thread 10", err.Error())
	assert.ErrorIs(t, err, thinwrap.ErrWrongThread)
	assert.True(t, thinwrap.IsAffinityError(fmt.Errorf("wrap: %w", err)))
}

func TestLayoutError(t *testing.T) {
	t.Parallel()

	err := &thinwrap.LayoutError{Kind: "Image", Offset: 8, Size: 24, Want: 24, Message: "handle is not the leading field"}
	assert.Equal(t, "thinwrap: layout error for Image (offset 8, size 24, want 24): handle is not the leading field", err.Error())
	assert.ErrorIs(t, err, thinwrap.ErrBadLayout)
}
