// Copyright (c) 2026 Harry Huang

// Package config holds the recognized tuning options of the map tools.
// Every magic number of the pipeline lives here, with defaults matching
// the values the MapTracker assets were produced with.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries the full option surface of the merge/stitch pipeline.
// Values are passed down explicitly; the pipeline never reads globals.
type Config struct {
	// CellW, CellH is the standard tile cell size in pixels.
	CellW int `toml:"cell_w"`
	CellH int `toml:"cell_h"`

	// FlipX / FlipY control the grid axis conventions.
	FlipX bool `toml:"flip_x"`
	FlipY bool `toml:"flip_y"`

	// Scale is the downscale factor for merged map export.
	Scale float64 `toml:"scale"`

	// MatchThreshold is the minimum similarity score for an overlap match.
	MatchThreshold float64 `toml:"match_threshold"`

	// MinOverlapFrac is the minimum joint-land fraction of one cell's
	// pixel count for a candidate offset to be scored.
	MinOverlapFrac float64 `toml:"min_overlap_frac"`

	// IslandCenterMargin is the half-size of the island filter's center
	// region as a fraction of each dimension.
	IslandCenterMargin float64 `toml:"island_center_margin"`

	// EdgeAlphaThreshold is the alpha value from which a tile edge pixel
	// counts as opaque during alignment detection.
	EdgeAlphaThreshold int `toml:"edge_alpha_threshold"`

	// ContentThreshold is the grayscale value above which a pixel is land.
	ContentThreshold int `toml:"content_threshold"`

	// BboxBrightnessFrac is the mean-brightness fraction (of 255) for the
	// exported bounding-box index.
	BboxBrightnessFrac float64 `toml:"bbox_brightness_frac"`

	// ComponentGap is the pixel gap between disconnected layout components.
	ComponentGap int `toml:"component_gap"`
}

// Default returns the configuration the MapTracker assets were produced with.
func Default() Config {
	return Config{
		CellW:              CELL_W,
		CellH:              CELL_H,
		FlipX:              FLIP_X,
		FlipY:              FLIP_Y,
		Scale:              MERGE_SCALE,
		MatchThreshold:     MATCH_THRESHOLD,
		MinOverlapFrac:     MIN_OVERLAP_FRAC,
		IslandCenterMargin: ISLAND_CENTER_MARGIN,
		EdgeAlphaThreshold: EDGE_ALPHA_THRESHOLD,
		ContentThreshold:   CONTENT_THRESHOLD,
		BboxBrightnessFrac: BBOX_BRIGHTNESS_FRAC,
		ComponentGap:       COMPONENT_GAP,
	}
}

// Load reads a TOML file over the defaults. Options absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values outside their meaningful ranges.
func (c Config) Validate() error {
	if c.CellW <= 0 || c.CellH <= 0 {
		return fmt.Errorf("invalid cell size: %dx%d", c.CellW, c.CellH)
	}
	if c.Scale <= 0 || c.Scale > 1 {
		return fmt.Errorf("invalid scale value: %f", c.Scale)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("invalid match_threshold value: %f", c.MatchThreshold)
	}
	if c.MinOverlapFrac < 0 || c.MinOverlapFrac > 1 {
		return fmt.Errorf("invalid min_overlap_frac value: %f", c.MinOverlapFrac)
	}
	if c.IslandCenterMargin <= 0 || c.IslandCenterMargin > 0.5 {
		return fmt.Errorf("invalid island_center_margin value: %f", c.IslandCenterMargin)
	}
	return nil
}
