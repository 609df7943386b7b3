package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, CELL_W, cfg.CellW)
	require.Equal(t, MERGE_SCALE, cfg.Scale)
	require.True(t, cfg.FlipY)
	require.False(t, cfg.FlipX)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "cell_w = 800\nmatch_threshold = 0.9\nflip_y = false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 800, cfg.CellW)
	require.Equal(t, 0.9, cfg.MatchThreshold)
	require.False(t, cfg.FlipY)

	// Untouched options keep their defaults.
	require.Equal(t, CELL_H, cfg.CellH)
	require.Equal(t, MERGE_SCALE, cfg.Scale)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("scale = 2.0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell", func(c *Config) { c.CellW = 0 }},
		{"negative scale", func(c *Config) { c.Scale = -0.1 }},
		{"threshold above one", func(c *Config) { c.MatchThreshold = 1.5 }},
		{"overlap frac below zero", func(c *Config) { c.MinOverlapFrac = -0.2 }},
		{"margin above half", func(c *Config) { c.IslandCenterMargin = 0.6 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
