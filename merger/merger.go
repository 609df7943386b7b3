// Copyright (c) 2026 Harry Huang

// Package merger assembles map tile screenshots into full map images.
package merger

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/interaction"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/pkg/fsutil"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/tiles"
)

// mlog is the sub-logger for the merger module.
var mlog zerolog.Logger = log.With().Str("module", "merger").Logger()

// Bounds is a group's grid extent in cells.
type Bounds struct {
	MaxX, MaxY int
}

// Merger builds one full map canvas per tile group and exports it.
type Merger struct {
	cfg config.Config
	res interaction.Resolver
}

// New creates a Merger with the given options and interaction resolver.
func New(cfg config.Config, res interaction.Resolver) *Merger {
	return &Merger{cfg: cfg, res: res}
}

// Run scans inputDir for tiles of the given map type, composes every
// group, and writes one merged PNG per group into outputDir. Per-group
// failures are logged and do not abort the remaining groups.
func (m *Merger) Run(inputDir, outputDir string, mapType tiles.MapType) error {
	groups, err := tiles.Scan(inputDir, mapType)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureOutputDir(outputDir); err != nil {
		return err
	}

	// Bounds of normal groups, so tier variants can align to them.
	normalBounds := make(map[string]Bounds)
	for name, g := range groups {
		if !strings.Contains(name, "_tier_") {
			maxX, maxY := g.Bounds()
			normalBounds[name] = Bounds{MaxX: maxX, MaxY: maxY}
		}
	}

	for _, name := range tiles.SortedNames(groups) {
		g := groups[name]
		var forced *Bounds
		if strings.Contains(name, "_tier_") {
			baseName := strings.SplitN(name, "_tier_", 2)[0]
			if b, ok := normalBounds[baseName]; ok {
				forced = &b
				mlog.Info().Str("group", name).Str("base", baseName).
					Msg("Tier group aligned to normal group bounds")
			} else {
				mlog.Warn().Str("group", name).
					Msg("No matching normal group for tier group, using own bounds")
			}
		}

		canvas, err := m.ComposeGroup(g, forced)
		if err != nil {
			mlog.Warn().Err(err).Str("group", name).Msg("Skipping group")
			continue
		}
		outPath := filepath.Join(outputDir, name+".png")
		if err := m.ExportMerged(outPath, canvas); err != nil {
			mlog.Error().Err(err).Str("path", outPath).Msg("Failed to write merged map")
			continue
		}
		mlog.Info().Str("group", name).Str("path", outPath).Msg("Merged map saved")
	}
	return nil
}

// ComposeGroup composites all tiles of a group onto a fresh canvas sized
// to the group's grid extents. Unreadable tiles are skipped with a
// warning. Non-standard tiles are auto-aligned where possible; ambiguous
// ones are routed to the interaction resolver.
func (m *Merger) ComposeGroup(g *tiles.MapGroup, forced *Bounds) (*image.NRGBA, error) {
	if len(g.Paths) == 0 {
		return nil, fmt.Errorf("group %q has no tiles", g.Name)
	}

	maxX, maxY := g.Bounds()
	if forced != nil {
		maxX, maxY = forced.MaxX, forced.MaxY
	}
	canvas := raster.NewCanvas(maxX*m.cfg.CellW, maxY*m.cfg.CellH)

	mlog.Info().Str("group", g.Name).Int("tiles", len(g.Paths)).
		Int("gridW", maxX).Int("gridH", maxY).
		Msg("Processing group")

	for _, pos := range g.SortedPositions() {
		path := g.Paths[pos]
		tile, err := tiles.Load(path, pos)
		if err != nil {
			mlog.Warn().Err(err).Str("file", filepath.Base(path)).
				Msg("Skipping unreadable tile")
			continue
		}
		m.placeTile(canvas, tile, maxX, maxY)
	}
	return canvas, nil
}

// placeTile composites one tile onto the group canvas.
func (m *Merger) placeTile(canvas *image.NRGBA, tile tiles.Tile, maxX, maxY int) {
	cellX, cellY := tiles.CellOrigin(tile.Pos, maxX, maxY,
		m.cfg.CellW, m.cfg.CellH, m.cfg.FlipX, m.cfg.FlipY)

	if tile.W == m.cfg.CellW && tile.H == m.cfg.CellH {
		raster.Paste(canvas, tile.Img, cellX, cellY, true)
		return
	}

	dir, ok := tiles.DetectAlignment(tile, m.cfg.CellW, m.cfg.CellH, m.cfg.EdgeAlphaThreshold)
	if ok {
		tile = tile.WithAlignment(tiles.AlignAuto, dir)
		mlog.Info().Str("file", tile.FileName).Str("direction", string(dir)).
			Int("w", tile.W).Int("h", tile.H).
			Msg("Tile auto aligned")
	} else {
		mlog.Info().Str("file", tile.FileName).
			Int("w", tile.W).Int("h", tile.H).
			Msg("Tile requires manual alignment")
		tile = tile.WithAlignment(tiles.AlignManual, m.res.ResolveAlignment(tile))
	}

	offX, offY := tiles.AnchorOffset(tile.AlignDirection, m.cfg.CellW, m.cfg.CellH, tile.W, tile.H)
	raster.Paste(canvas, tile.Img, cellX+offX, cellY+offY, true)
}

// ExportMerged downscales the canvas by the configured factor, lays it
// over a fully opaque background, and writes it to path.
func (m *Merger) ExportMerged(path string, canvas *image.NRGBA) error {
	w := int(float64(canvas.Rect.Dx()) * m.cfg.Scale)
	h := int(float64(canvas.Rect.Dy()) * m.cfg.Scale)
	scaled := raster.Scale(canvas, w, h)

	final := raster.NewOpaqueCanvas(scaled.Rect.Dx(), scaled.Rect.Dy())
	raster.Paste(final, scaled, 0, 0, true)
	return raster.SavePNG(path, final)
}
