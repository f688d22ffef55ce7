package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godem/internal"
	"godem/internal/config"
)

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	cfg := &config.Config{
		Inversion: config.InversionConfig{NSteps: 4, Seed: 9, EdgeTolerance: 2},
		Logging:   config.LoggingConfig{Level: "ERROR"},
	}
	c, err := New(cfg, nil)
	require.NoError(t, err)
	defer c.Shutdown()

	assert.Same(t, cfg, c.Config)
	assert.Equal(t, internal.LogLevelError, c.Logger.GetLevel())
	require.NotNil(t, c.Store)
	require.NotNil(t, c.RNG)
	require.NotNil(t, c.Inversion)
	assert.Equal(t, 4, c.Inversion.Options().NSteps)
	assert.Equal(t, int64(9), c.Inversion.Options().Seed)

	nop := internal.NewNopLogger()
	c, err = New(cfg, nop)
	require.NoError(t, err)
	assert.Same(t, nop, c.Logger)
}
