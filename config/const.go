// Copyright (c) 2026 Harry Huang
package config

// Tile grid configuration
var (
	// Standard tile cell size in pixels (width, height)
	CELL_W = 600
	CELL_H = 600

	// Axis conventions: grid y=1 is the bottom row when FLIP_Y is set
	FLIP_X = false
	FLIP_Y = true
)

// Merged map export configuration
var (
	// Downscale factor applied to the full-resolution canvas
	MERGE_SCALE = 0.1625
)

// Overlap matching configuration
var (
	// Minimum similarity score to accept an offset.
	// Empirically chosen; re-tune for other tile sets.
	MATCH_THRESHOLD = 0.85

	// Minimum joint-land fraction of one cell's pixel count.
	// Empirically chosen; re-tune for other tile sets.
	MIN_OVERLAP_FRAC = 0.30
)

// Island filter configuration
var (
	// Half-size of the center region as a fraction of width/height
	ISLAND_CENTER_MARGIN = 0.05
)

// Pixel thresholds
var (
	// Alpha value from which a tile edge pixel counts as opaque
	// (tolerates compression noise)
	EDGE_ALPHA_THRESHOLD = 4

	// Grayscale value above which a pixel is "land"
	CONTENT_THRESHOLD = 1

	// Mean-brightness fraction for the exported bbox index
	BBOX_BRIGHTNESS_FRAC = 0.05
)

// Layout configuration
var (
	// Horizontal gap in pixels between disconnected layout components
	COMPONENT_GAP = 20
)
