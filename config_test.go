package thinwrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/thinwrap"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(thinwrap.ResetSettings)

	col := thinwrap.NewCollector()
	require.NoError(t, thinwrap.Configure(thinwrap.WithCollector(col)))
	assert.Same(t, col, thinwrap.Settings().Collector)

	errBad := errors.New("bad option")
	err := thinwrap.Configure(
		thinwrap.WithCollector(nil),
		func(*thinwrap.Config) error { return errBad },
	)
	require.ErrorIs(t, err, errBad)
	assert.Same(t, col, thinwrap.Settings().Collector, "failed Configure keeps settings")

	thinwrap.ResetSettings()
	assert.Equal(t, thinwrap.Config{}, thinwrap.Settings())
}

func TestConfig_ApplyAll(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")
	var c thinwrap.Config
	err := c.ApplyAll(
		func(*thinwrap.Config) error { return errA },
		thinwrap.WithCollector(thinwrap.NewCollector()),
		func(*thinwrap.Config) error { return errB },
	)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	assert.NotNil(t, c.Collector)
}
