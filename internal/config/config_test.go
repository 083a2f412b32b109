package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[ecs]
page_size = 256

[simulation]
tick_rate = "20ms"
ticks = 10

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.ECS.PageSize)
	assert.Equal(t, 64, cfg.ECS.DestroyQueueCapacity, "untouched keys keep defaults")
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 10, cfg.Simulation.Ticks)
	assert.Equal(t, "scripts", cfg.Simulation.ScriptsDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "[ecs\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "[simulation]\ntick_rate = \"0s\"\n"))
	assert.ErrorContains(t, err, "tick_rate")

	_, err = Load(writeConfig(t, "[simulation]\nticks = -1\n"))
	assert.ErrorContains(t, err, "ticks")

	_, err = Load(writeConfig(t, "[simulation]\nbounds_width = 0\n"))
	assert.ErrorContains(t, err, "bounds")
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().validate())
}
