package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "window": {"title": "custom", "scale": 4},
  "emulation": {"steps_per_frame": 100},
  "debug": {"trace": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Window.Title)
	assert.Equal(t, 4, cfg.Window.Scale)
	assert.Equal(t, 100, cfg.Emulation.StepsPerFrame)
	assert.True(t, cfg.Debug.Trace)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"debug": {"trace": true}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug.Trace)
	assert.Equal(t, DefaultConfig().Window.Scale, cfg.Window.Scale)
	assert.Equal(t, DefaultConfig().Emulation.StepsPerFrame, cfg.Emulation.StepsPerFrame)
}

func TestLoadConfigRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window": {"scale": -1}, "emulation": {"steps_per_frame": 0}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Window.Scale, cfg.Window.Scale)
	assert.Equal(t, DefaultConfig().Emulation.StepsPerFrame, cfg.Emulation.StepsPerFrame)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Window.Scale = 7
	cfg.Debug.Trace = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
