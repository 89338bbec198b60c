package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputConfig(t *testing.T) {
	t.Run("returns grouped output settings", func(t *testing.T) {
		c := &Config{
			Target:  "./res",
			Package: "res",
			Header:  "Custom header",
		}

		output := c.Output()

		assert.Equal(t, "./res", output.Target)
		assert.Equal(t, "res", output.Package)
		assert.Equal(t, "Custom header", output.Header)
	})

	t.Run("handles empty config", func(t *testing.T) {
		output := (&Config{}).Output()

		assert.Empty(t, output.Target)
		assert.Empty(t, output.Package)
		assert.Empty(t, output.Header)
	})
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("returns true for enabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureLayoutTests, FeatureKindList}}

		enabled, err := c.FeatureEnabled("kind-list")

		assert.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("returns false for disabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureLayoutTests}}

		enabled, err := c.FeatureEnabled("scope-helpers")

		assert.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("returns error for unknown feature", func(t *testing.T) {
		_, err := (&Config{}).FeatureEnabled("nonexistent")

		assert.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, defaultHeader, c.Header)
	assert.Equal(t, RuntimePkg, c.Runtime)
	assert.Positive(t, c.Workers)
	assert.True(t, c.HasFeature(FeatureLayoutTests.Name))
	assert.False(t, c.HasFeature(FeatureScopeHelpers.Name))
}

func TestConfigFeatureEnabled_AllFeatures(t *testing.T) {
	for _, f := range AllFeatures {
		t.Run(f.Name, func(t *testing.T) {
			c := &Config{Features: []Feature{f}}

			enabled, err := c.FeatureEnabled(f.Name)

			assert.NoError(t, err)
			assert.True(t, enabled)

			byName, ok := FeatureByName(f.Name)
			assert.True(t, ok)
			assert.Equal(t, f.Name, byName.Name)
			assert.NotEqual(t, "unknown", f.Stage.String())
		})
	}
}
