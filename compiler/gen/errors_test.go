package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("yaml: line 3: bad indent")
		err := &ManifestError{Path: "res.yaml", Line: 3, Message: "parse", Cause: cause}

		assert.Equal(t, "thinwrap: manifest error in res.yaml:3: parse: yaml: line 3: bad indent", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewManifestError("res.yaml", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Is matches ErrInvalidManifest", func(t *testing.T) {
		err := NewManifestError("", "empty", nil)
		assert.ErrorIs(t, err, ErrInvalidManifest)
		assert.Equal(t, "thinwrap: manifest error: empty", err.Error())
	})

	t.Run("IsManifestError helper", func(t *testing.T) {
		assert.True(t, IsManifestError(fmt.Errorf("wrap: %w", NewManifestError("", "x", nil))))
		assert.False(t, IsManifestError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "workers cannot be negative")
		assert.Equal(t, `thinwrap: config error for "Workers" (value: -1): workers cannot be negative`, err.Error())
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		assert.ErrorIs(t, NewConfigError("Target", nil, "missing"), ErrMissingConfig)
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		assert.True(t, IsConfigError(NewConfigError("Target", nil, "missing")))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("write", "image.go", "", cause)

	assert.Equal(t, "thinwrap: generation error in phase write (file: image.go): disk full", err.Error())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsGenerationError(err))
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ValidationError{Resource: "image", Field: "release", Line: 7, Message: "release function is required"}
		assert.Equal(t, "thinwrap: validation error on resource image field release (line 7): release function is required", err.Error())
	})

	t.Run("Is matches ErrValidationFailed", func(t *testing.T) {
		err := NewValidationError("image", "", nil, "bad")
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.NotErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("joined errors", func(t *testing.T) {
		err := errors.Join(
			NewValidationError("image", "handle", nil, "a"),
			NewValidationError("sound", "release", nil, "b"),
		)
		assert.True(t, IsValidationError(err))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}
