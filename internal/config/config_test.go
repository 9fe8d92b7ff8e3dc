package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesDefaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.False(t, c.GetBool("debug"))
	assert.Equal(t, 8080, c.Port())
	assert.Equal(t, PresetSi1000, c.NoisePreset())
	assert.Equal(t, 0.001, c.NoiseP())
	assert.Empty(t, c.ImmuneQubits())
}

func TestNew_EnvOverridesDefault(t *testing.T) {
	os.Setenv("QPLAY_NOISE_PRESET", "uniform_depolarizing")
	os.Setenv("QPLAY_NOISE_P", "0.02")
	defer os.Unsetenv("QPLAY_NOISE_PRESET")
	defer os.Unsetenv("QPLAY_NOISE_P")

	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, PresetUniformDepolarizing, c.NoisePreset())
	assert.Equal(t, 0.02, c.NoiseP())
}
