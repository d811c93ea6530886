package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/phanxgames/lattice"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, "lattice", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.False(t, cfg.Window.ShowFPS)
	assert.Equal(t, "screenshots", cfg.Window.ScreenshotDir)
	assert.Equal(t, 0.2, cfg.Theme.AnimationDuration)
	assert.Equal(t, "in_out_sine", cfg.Theme.AnimationTransition)
	assert.Equal(t, 64.0, cfg.Grid.CellSize)
	assert.True(t, cfg.Grid.RenderCache)
	assert.Equal(t, "normal", cfg.Logging.Level)
}

func TestLoadConfigurationFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	content := `window:
  width: 320
theme:
  animation_transition: out_bounce
grid:
  render_cache: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, "out_bounce", cfg.Theme.AnimationTransition)
	assert.False(t, cfg.Grid.RenderCache)
}

func TestLoadConfigurationUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  colour: red\n"), 0644))

	_, err := LoadConfiguration(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process configuration file")
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	t.Setenv("LATTICE_THEME_ANIMATION_DURATION", "0.5")
	t.Setenv("LATTICE_WINDOW_TITLE", "sudoku")
	t.Setenv("LATTICE_GRID_CELL_SIZE", "48")
	t.Setenv("LATTICE_WINDOW_SHOW_FPS", "true")

	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Theme.AnimationDuration)
	assert.Equal(t, "sudoku", cfg.Window.Title)
	assert.Equal(t, 48.0, cfg.Grid.CellSize)
	assert.True(t, cfg.Window.ShowFPS)
}

func TestLoadConfigurationEnvironmentBadValue(t *testing.T) {
	t.Setenv("LATTICE_WINDOW_WIDTH", "wide")

	_, err := LoadConfiguration("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply environment")
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Window.Width = 0
	cfg.Theme.AnimationDuration = -1
	cfg.Theme.AnimationTransition = "wobble"
	cfg.Theme.Cell = "red"
	cfg.Grid.CellSize = 0
	cfg.Logging.Level = "loud"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
	assert.ErrorIs(t, err, lattice.ErrNegativeDuration)
	assert.ErrorIs(t, err, lattice.ErrUnknownTransition)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, lattice.Color{R: 1, G: 128.0 / 255, B: 0, A: 1}, c)

	c, err = ParseColor("#00000080")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.A, 0.01)

	for _, bad := range []string{"", "ff8000", "#ff80", "#gg0000"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestPalette(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	p, err := cfg.Theme.Palette()
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Cell.A)
	assert.NotEqual(t, p.Cell, p.CellSelected)
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Grid.Spacing = 3

	data, err := Dump(cfg)
	require.NoError(t, err)

	back := &Config{}
	require.NoError(t, unmarshalConfig(data, back))
	assert.Equal(t, cfg, back)
}

func TestPrepareIsEmbeddedDefault(t *testing.T) {
	data := Prepare()
	cfg := &Config{}
	require.NoError(t, unmarshalConfig(data, cfg))
	assert.Equal(t, "in_out_sine", cfg.Theme.AnimationTransition)
}

func TestLoggerPrepare(t *testing.T) {
	conf := LoggingConfig{Level: "none"}
	log, err := conf.Prepare(false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))

	dest := filepath.Join(t.TempDir(), "lattice.log")
	conf = LoggingConfig{Level: "normal", Destination: dest, Mode: "overwrite"}
	log, err = conf.Prepare(false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "normal level drops debug")
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	log, err = conf.Prepare(true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1), "debug flag forces debug level")
}
