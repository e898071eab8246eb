// Package config holds the tree's tunables: window, spiral template,
// per-strand colours, chime and logging. Defaults live in code; a TOML or
// YAML file can override any subset.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"xmastree/internal/spiral"
)

// EnvPath names the environment variable holding a config file path.
const EnvPath = "XMASTREE_CONFIG"

// Window defaults.
const (
	WindowWidth  = 800
	WindowHeight = 800
	PointSize    = 6.0
	SpinPeriodS  = 24.0 // seconds per full turn of the camera orbit; 0 disables
	FovDegrees   = 45.0
)

// Spiral template defaults. The apex sits at HeightMax.
const (
	Spirals     = 4
	Slices      = 120
	Rotations   = 4
	CycleMs     = 6000
	HeightMax   = 2.0
	Slope       = -2.0
	SlopeStep   = spiral.DefaultSlopeStep
	AngleOffset = 0.0
)

// Chime defaults.
const (
	ChimeVolume        = 0.25
	ChimeMinIntervalMs = 900
)

// Window controls the GL window and camera.
type Window struct {
	Width       int        `toml:"width" yaml:"width"`
	Height      int        `toml:"height" yaml:"height"`
	Title       string     `toml:"title" yaml:"title"`
	PointSize   float32    `toml:"point_size" yaml:"point_size"`
	SpinPeriodS float32    `toml:"spin_period_s" yaml:"spin_period_s"`
	FovDegrees  float32    `toml:"fov_degrees" yaml:"fov_degrees"`
	Background  [3]float32 `toml:"background" yaml:"background"`
}

// Tree is the spiral template shared by every strand, plus per-strand colours.
type Tree struct {
	Spirals        int          `toml:"spirals" yaml:"spirals"`
	Slices         int          `toml:"slices" yaml:"slices"`
	Rotations      float32      `toml:"rotations" yaml:"rotations"`
	CycleMs        uint32       `toml:"cycle_ms" yaml:"cycle_ms"`
	HeightMax      float32      `toml:"height_max" yaml:"height_max"`
	ApexHeight     float32      `toml:"apex_height" yaml:"apex_height"`
	Slope          float32      `toml:"slope" yaml:"slope"`
	SlopeStep      float32      `toml:"slope_step" yaml:"slope_step"`
	AngleOffset    float32      `toml:"angle_offset" yaml:"angle_offset"`
	ParallelUpdate bool         `toml:"parallel_update" yaml:"parallel_update"`
	Colors         [][4]float32 `toml:"colors" yaml:"colors"`
}

// Audio controls the wrap chime.
type Audio struct {
	Enabled       bool    `toml:"enabled" yaml:"enabled"`
	Volume        float64 `toml:"volume" yaml:"volume"`
	MinIntervalMs int     `toml:"min_interval_ms" yaml:"min_interval_ms"`
}

// Config is the whole program configuration.
type Config struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Window   Window `toml:"window" yaml:"window"`
	Tree     Tree   `toml:"tree" yaml:"tree"`
	Audio    Audio  `toml:"audio" yaml:"audio"`
}

// Default returns the reference tree: four strands, two slopes by two phases.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: Window{
			Width:       WindowWidth,
			Height:      WindowHeight,
			Title:       "Christmas Tree",
			PointSize:   PointSize,
			SpinPeriodS: SpinPeriodS,
			FovDegrees:  FovDegrees,
			Background:  [3]float32{0.01, 0.02, 0.05},
		},
		Tree: Tree{
			Spirals:     Spirals,
			Slices:      Slices,
			Rotations:   Rotations,
			CycleMs:     CycleMs,
			HeightMax:   HeightMax,
			Slope:       Slope,
			SlopeStep:   SlopeStep,
			AngleOffset: AngleOffset,
			Colors: [][4]float32{
				{1.0, 0.15, 0.10, 1.0},
				{1.0, 0.85, 0.25, 1.0},
				{0.20, 0.90, 0.35, 1.0},
				{0.35, 0.60, 1.0, 1.0},
			},
		},
		Audio: Audio{
			Enabled:       true,
			Volume:        ChimeVolume,
			MinIntervalMs: ChimeMinIntervalMs,
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
// The format is picked by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(&cfg, filepath.Ext(path), data); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals data into cfg according to ext, leaving unset fields alone.
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("unsupported config format %q", ext)
}

// PathFromEnv returns the first CLI argument if any, else $XMASTREE_CONFIG.
func PathFromEnv(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return os.Getenv(EnvPath)
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.PointSize <= 0 {
		errs = append(errs, fmt.Errorf("point size %v must be positive", c.Window.PointSize))
	}
	if c.Window.FovDegrees <= 0 || c.Window.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("fov %v must be in (0, 180)", c.Window.FovDegrees))
	}
	if c.Tree.Spirals <= 0 {
		errs = append(errs, fmt.Errorf("spirals: %w", spiral.ErrSpiralCount))
	}
	if len(c.Tree.Colors) != c.Tree.Spirals {
		errs = append(errs, fmt.Errorf("%w: %d colors for %d spirals", spiral.ErrColorCount, len(c.Tree.Colors), c.Tree.Spirals))
	}
	if err := c.Tree.Template().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tree: %w", err))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %v must be in [0, 1]", c.Audio.Volume))
	}
	if c.Audio.MinIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("audio min interval %d must not be negative", c.Audio.MinIntervalMs))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Template returns the spiral parameters shared by every strand.
func (t Tree) Template() spiral.Params {
	return spiral.Params{
		Slices:      t.Slices,
		Rotations:   t.Rotations,
		CycleMs:     t.CycleMs,
		HeightMax:   t.HeightMax,
		ApexHeight:  t.ApexHeight,
		Slope:       t.Slope,
		AngleOffset: t.AngleOffset,
	}
}

// SpiralColors converts Colors for spiral.NewComposer.
func (t Tree) SpiralColors() []spiral.Color {
	out := make([]spiral.Color, len(t.Colors))
	for i, c := range t.Colors {
		out[i] = spiral.Color(c)
	}
	return out
}

// ComposerOptions maps the tree settings onto composer options.
func (t Tree) ComposerOptions() []spiral.ComposerOption {
	opts := []spiral.ComposerOption{spiral.WithSlopeStep(t.SlopeStep)}
	if t.ParallelUpdate {
		opts = append(opts, spiral.WithParallelUpdate())
	}
	return opts
}
