package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/phanxgames/lattice"
)

// EnvPrefix prefixes environment overrides, e.g. LATTICE_WINDOW_WIDTH or
// LATTICE_THEME_ANIMATION_DURATION.
const EnvPrefix = "LATTICE"

//go:embed default.yaml
var defaultConfig []byte

type (
	WindowConfig struct {
		Title     string `yaml:"title"`
		Width     int    `yaml:"width"`
		Height    int    `yaml:"height"`
		Resizable bool   `yaml:"resizable"`
		ShowFPS   bool   `yaml:"show_fps" split_words:"true"`
		// ScreenshotDir receives the PNG files written by Scene.Screenshot.
		ScreenshotDir string `yaml:"screenshot_dir" split_words:"true"`
	}

	// ThemeConfig holds the animation settings shared by every button and
	// cell, and the palette as "#rrggbb" or "#rrggbbaa" strings.
	ThemeConfig struct {
		AnimationDuration   float64 `yaml:"animation_duration" split_words:"true"`
		AnimationTransition string  `yaml:"animation_transition" split_words:"true"`
		Background          string  `yaml:"background"`
		Cell                string  `yaml:"cell"`
		CellSelected        string  `yaml:"cell_selected" split_words:"true"`
		CellHighlight       string  `yaml:"cell_highlight" split_words:"true"`
		Button              string  `yaml:"button"`
		ButtonPressed       string  `yaml:"button_pressed" split_words:"true"`
	}

	GridConfig struct {
		CellSize     float64 `yaml:"cell_size" split_words:"true"`
		Spacing      float64 `yaml:"spacing"`
		BlockSpacing float64 `yaml:"block_spacing" split_words:"true"`
		RenderCache  bool    `yaml:"render_cache" split_words:"true"`
	}

	Config struct {
		Window  WindowConfig  `yaml:"window"`
		Theme   ThemeConfig   `yaml:"theme"`
		Grid    GridConfig    `yaml:"grid"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Palette is the theme with colors parsed.
type Palette struct {
	Background    lattice.Color
	Cell          lattice.Color
	CellSelected  lattice.Color
	CellHighlight lattice.Color
	Button        lattice.Color
	ButtonPressed lattice.Color
}

func unmarshalConfig(data []byte, cfg *Config) error {
	// Only fields we defined are accepted.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := unmarshalConfig(defaultConfig, cfg); err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration file at path over the embedded
// defaults, applies LATTICE_* environment overrides and validates the result.
// An empty path uses the defaults alone.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare returns the embedded default configuration as YAML.
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

// Dump marshals cfg to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() (err error) {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Theme.AnimationDuration < 0 {
		err = multierr.Append(err, fmt.Errorf("theme: %w: %g", lattice.ErrNegativeDuration, c.Theme.AnimationDuration))
	}
	if _, e := lattice.TransitionByName(c.Theme.AnimationTransition); e != nil {
		err = multierr.Append(err, fmt.Errorf("theme: %w", e))
	}
	if _, e := c.Theme.Palette(); e != nil {
		err = multierr.Append(err, e)
	}
	if c.Grid.CellSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("grid: cell_size must be positive, got %g", c.Grid.CellSize))
	}
	if c.Grid.Spacing < 0 || c.Grid.BlockSpacing < 0 {
		err = multierr.Append(err, errors.New("grid: spacing must not be negative"))
	}
	err = multierr.Append(err, c.Logging.validate())
	return err
}

// Palette parses the theme colors.
func (t *ThemeConfig) Palette() (p Palette, err error) {
	for _, f := range []struct {
		name string
		src  string
		dst  *lattice.Color
	}{
		{"background", t.Background, &p.Background},
		{"cell", t.Cell, &p.Cell},
		{"cell_selected", t.CellSelected, &p.CellSelected},
		{"cell_highlight", t.CellHighlight, &p.CellHighlight},
		{"button", t.Button, &p.Button},
		{"button_pressed", t.ButtonPressed, &p.ButtonPressed},
	} {
		c, e := ParseColor(f.src)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("theme: %s: %w", f.name, e))
			continue
		}
		*f.dst = c
	}
	return p, err
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (lattice.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return lattice.Color{}, fmt.Errorf("malformed color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return lattice.Color{}, fmt.Errorf("malformed color %q: %w", s, err)
	}
	return lattice.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
