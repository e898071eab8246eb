package config

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmastree/internal/spiral"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Tree.SpiralColors(), cfg.Tree.Spirals)

	c, err := spiral.NewComposer(cfg.Tree.Spirals, cfg.Tree.Template(), cfg.Tree.SpiralColors(), cfg.Tree.ComposerOptions()...)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, Spirals, c.Len())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	src := `
log_level = "debug"

[window]
width = 640
point_size = 3.5

[tree]
slices = 60
cycle_ms = 2500
apex_height = 2.5
parallel_update = true
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, WindowHeight, cfg.Window.Height)
	assert.Equal(t, float32(3.5), cfg.Window.PointSize)
	assert.Equal(t, 60, cfg.Tree.Slices)
	assert.Equal(t, uint32(2500), cfg.Tree.CycleMs)
	assert.Equal(t, float32(2.5), cfg.Tree.Template().Apex())
	assert.True(t, cfg.Tree.ParallelUpdate)
	assert.Len(t, cfg.Tree.ComposerOptions(), 2)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	src := `
tree:
  spirals: 2
  slope: -3
  colors:
    - [1, 1, 1, 1]
    - [0.5, 0.5, 0.5, 1]
audio:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Tree.Spirals)
	assert.Equal(t, float32(-3), cfg.Tree.Slope)
	assert.Equal(t, []spiral.Color{{1, 1, 1, 1}, {0.5, 0.5, 0.5, 1}}, cfg.Tree.SpiralColors())
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "unsupported config format")

	path = filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tree\nslices = "), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Tree.Slices = 0
	cfg.Tree.Slope = 0
	cfg.Tree.Colors = cfg.Tree.Colors[:3]
	cfg.Audio.Volume = 2
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, spiral.ErrSliceCount)
	assert.ErrorIs(t, err, spiral.ErrZeroSlope)
	assert.ErrorIs(t, err, spiral.ErrColorCount)
	assert.ErrorContains(t, err, "audio volume")
	assert.ErrorContains(t, err, "log level")
}

func TestValidateRejectsDegenerateCone(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Tree)
		want error
	}{
		{"nan slope", func(tr *Tree) { tr.Slope = float32(math.NaN()) }, spiral.ErrZeroSlope},
		{"infinite slope", func(tr *Tree) { tr.Slope = float32(math.Inf(1)) }, spiral.ErrZeroSlope},
		{"nan height", func(tr *Tree) { tr.HeightMax = float32(math.NaN()) }, spiral.ErrHeightMax},
		{"nan rotations", func(tr *Tree) { tr.Rotations = float32(math.NaN()) }, spiral.ErrNotFinite},
		{"apex below top", func(tr *Tree) { tr.ApexHeight = 1 }, spiral.ErrApexHeight},
		{"cycle too long", func(tr *Tree) { tr.CycleMs = 100_000_000 }, spiral.ErrCycleDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(&cfg.Tree)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/tree.toml")
	assert.Equal(t, "/etc/tree.toml", PathFromEnv(nil))
	assert.Equal(t, "local.yaml", PathFromEnv([]string{"local.yaml"}))
}
