package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	t.Setenv("RANDOMFUSION_STORE_DIR", "")
	t.Setenv("RANDOMFUSION_HASH", "")
	path := writeConfig(t, `
style: Mandelbrot
width: 800
hash: sha3-256
store_dir: /var/lib/randomfusion
overrides:
  mandelbrot:
    max_iterations: 500
  circles:
    num_circles: "8"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "Mandelbrot", cfg.Style)
	require.Equal(t, 800, cfg.Width)
	require.Equal(t, 512, cfg.Height, "unset fields keep defaults")
	require.Equal(t, "sha3-256", cfg.Hash)
	require.Equal(t, "127.0.0.1:7878", cfg.Daemon.Listen)
	require.Equal(t, params.Overrides{"max_iterations": 500}, cfg.OverridesFor(params.StyleMandelbrot))
	require.Equal(t, params.Overrides{"num_circles": "8"}, cfg.OverridesFor(params.StyleCircles))
	require.Nil(t, cfg.OverridesFor(params.StyleNoiseScape))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RANDOMFUSION_STORE_DIR", "/tmp/gallery")
	t.Setenv("RANDOMFUSION_HASH", "blake2b-256")
	cfg, err := Load(writeConfig(t, "store_dir: /elsewhere\n"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/gallery", cfg.StoreDir)
	require.Equal(t, "blake2b-256", cfg.Hash)
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RANDOMFUSION_STORE_DIR", "")
	t.Setenv("RANDOMFUSION_HASH", "")
	cfg, err := LoadDefault()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "width: [1, 2\n"))
	require.ErrorContains(t, err, "parse")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		kind   fusionerr.Kind
	}{
		{"style", func(c *Config) { c.Style = "hexagons" }, fusionerr.KindUnknownStyle},
		{"width", func(c *Config) { c.Width = 0 }, fusionerr.KindInvalidDimensions},
		{"hash", func(c *Config) { c.Hash = "md4" }, fusionerr.KindParameterOutOfDomain},
		{"override style", func(c *Config) { c.Overrides = map[string]params.Overrides{"spirals": {}} }, fusionerr.KindUnknownStyle},
		{"override key", func(c *Config) {
			c.Overrides = map[string]params.Overrides{"circles": {"grid_size": 3}}
		}, fusionerr.KindParameterOutOfDomain},
		{"override value", func(c *Config) {
			c.Overrides = map[string]params.Overrides{"color_blocks": {"grid_size": 0}}
		}, fusionerr.KindParameterOutOfDomain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.True(t, fusionerr.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoreDir = "/data"
	cfg.Overrides = map[string]params.Overrides{"noisescape": {"octaves": 4}}
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, cfg.Save(path))

	t.Setenv("RANDOMFUSION_STORE_DIR", "")
	t.Setenv("RANDOMFUSION_HASH", "")
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}
