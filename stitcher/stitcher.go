// Copyright (c) 2026 Harry Huang

// Package stitcher reconciles overlapping full-map images into a single
// composite and disjoint per-map territories.
package stitcher

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/interaction"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/pkg/fsutil"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// slog is the sub-logger for the stitcher module.
var slog zerolog.Logger = log.With().Str("module", "stitcher").Logger()

// Stitcher places merged maps on a shared canvas and splits their
// overlapping regions into exclusive territories.
type Stitcher struct {
	cfg config.Config
	res interaction.Resolver
}

// New creates a Stitcher with the given options and interaction resolver.
func New(cfg config.Config, res interaction.Resolver) *Stitcher {
	return &Stitcher{cfg: cfg, res: res}
}

// Run stitches every map group found in inputDir and writes the composite
// and split results to outputDir. Tier maps are copied through unchanged.
// Per-group failures do not abort the remaining groups.
func (s *Stitcher) Run(inputDir, outputDir string) error {
	if err := fsutil.EnsureOutputDir(outputDir); err != nil {
		return err
	}
	s.copyTierMaps(inputDir, outputDir)

	maps, err := s.loadNormalMaps(inputDir)
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		slog.Warn().Str("dir", inputDir).Msg("No normal maps found in directory")
		return nil
	}

	groups := make(map[string]map[string]*image.NRGBA)
	for name, img := range maps {
		key := mapGroupKey(name)
		if groups[key] == nil {
			groups[key] = make(map[string]*image.NRGBA)
		}
		groups[key][name] = img
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		if len(group) < 2 {
			slog.Info().Str("group", key).Msg("Only one map, skipping stitch")
			continue
		}
		if err := s.StitchGroup(key, group, outputDir); err != nil {
			slog.Error().Err(err).Str("group", key).Msg("Failed to stitch group")
		}
	}
	return nil
}

// mapGroupKey extracts the map id prefix from a merged map name, e.g.
// "map01_lv002" -> "map01". Names without an "_lv" separator are their
// own group.
func mapGroupKey(name string) string {
	if idx := strings.Index(name, "_lv"); idx >= 0 {
		return name[:idx]
	}
	return name
}

// loadNormalMaps loads all non-tier merged maps from dir. Alpha is forced
// opaque so downstream code sees a uniform format.
func (s *Stitcher) loadNormalMaps(dir string) (map[string]*image.NRGBA, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}
	maps := make(map[string]*image.NRGBA)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		if strings.Contains(name, "_tier_") || strings.HasPrefix(name, "_") {
			continue
		}
		img, err := raster.LoadNRGBA(filepath.Join(dir, name))
		if err != nil {
			slog.Warn().Err(err).Str("file", name).Msg("Skipping unreadable map")
			continue
		}
		raster.FillAlpha(img, 255)
		maps[strings.TrimSuffix(name, ".png")] = img
	}
	return maps, nil
}

// copyTierMaps copies tier maps to the output directory unchanged.
func (s *Stitcher) copyTierMaps(inputDir, outputDir string) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return
	}
	copied := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		if !strings.Contains(name, "_tier_") || strings.HasPrefix(name, "_") {
			continue
		}
		if err := fsutil.CopyFile(filepath.Join(inputDir, name), filepath.Join(outputDir, name)); err != nil {
			slog.Warn().Err(err).Str("file", name).Msg("Failed to copy tier map")
			continue
		}
		copied++
	}
	slog.Info().Int("copied", copied).Msg("Tier maps copied to output dir")
}

// StitchGroup stitches one group of merged maps: overlap matching, layout,
// composite export, island removal, territory split, and per-map export.
func (s *Stitcher) StitchGroup(groupKey string, maps map[string]*image.NRGBA, outputDir string) error {
	names := make([]string, 0, len(maps))
	for name := range maps {
		names = append(names, name)
	}
	sort.Strings(names)
	slog.Info().Str("group", groupKey).Int("maps", len(names)).Msg("Stitching group")

	masks := make(map[string]*raster.Mask, len(names))
	for _, name := range names {
		masks[name] = raster.ContentMask(maps[name], uint8(s.cfg.ContentThreshold))
	}

	// Pairwise overlap search in fixed order.
	var edges []Edge
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			na, nb := names[i], names[j]
			m, ok := MatchPair(maps[na], masks[na], maps[nb], masks[nb], s.cfg)
			if ok {
				slog.Info().Str("a", na).Str("b", nb).
					Int("dx", m.Dx).Int("dy", m.Dy).Float64("score", m.Score).
					Msg("Overlap matched")
				edges = append(edges, Edge{A: na, B: nb, Dx: m.Dx, Dy: m.Dy, Score: m.Score})
			} else {
				slog.Info().Str("a", na).Str("b", nb).Msg("No overlap")
			}
		}
	}

	widths := make(map[string]int, len(names))
	for _, name := range names {
		widths[name] = maps[name].Rect.Dx()
	}
	positions, err := AssembleLayout(names, edges, widths, s.cfg.ComponentGap)
	if err != nil {
		return err
	}

	canvasW, canvasH := 0, 0
	for _, name := range names {
		p := positions[name]
		if right := p.X + maps[name].Rect.Dx(); right > canvasW {
			canvasW = right
		}
		if bottom := p.Y + maps[name].Rect.Dy(); bottom > canvasH {
			canvasH = bottom
		}
	}
	slog.Info().Int("w", canvasW).Int("h", canvasH).Msg("Compositing onto shared canvas")

	layoutPath := filepath.Join(outputDir, fmt.Sprintf("_layout_%s.json", groupKey))
	if err := dumpLayout(layoutPath, positions); err != nil {
		slog.Warn().Err(err).Str("path", layoutPath).Msg("Failed to write layout dump")
	}

	canvas := s.compositeCanvas(maps, positions, names, canvasW, canvasH)
	stitchedPath := filepath.Join(outputDir, fmt.Sprintf("_stitched_%s.png", groupKey))
	if err := raster.SavePNG(stitchedPath, canvas); err != nil {
		slog.Error().Err(err).Str("path", stitchedPath).Msg("Failed to write stitched composite")
	} else {
		slog.Info().Str("path", stitchedPath).Msg("Stitched composite saved")
	}

	// Drop islands bleeding in from neighboring maps, then recomposite.
	cleaned := make(map[string]*image.NRGBA, len(names))
	for _, name := range names {
		cleaned[name], _ = RemoveIslands(name, maps[name], s.cfg)
	}
	canvas = s.compositeCanvas(cleaned, positions, names, canvasW, canvasH)

	// Canvas-sized land masks, dilated so thin peninsulas and isolated
	// edge pixels connect to the main body.
	landMasks := make([]*raster.Mask, len(names))
	for i, name := range names {
		landMasks[i] = canvasLandMask(cleaned[name], positions[name], canvasW, canvasH, uint8(s.cfg.ContentThreshold))
	}

	hasOverlap := false
	seen := raster.NewMask(canvasW, canvasH)
	for _, m := range landMasks {
		for i, v := range m.Pix {
			if v != 0 {
				if seen.Pix[i] != 0 {
					hasOverlap = true
				}
				seen.Pix[i] = 1
			}
		}
		if hasOverlap {
			break
		}
	}

	var barrier *raster.Mask
	skip := false
	if hasOverlap {
		barrier, skip = s.res.CollectBarrier(canvas)
	}
	final := PartitionTerritories(names, landMasks, barrier, skip)

	s.exportSplitMaps(outputDir, cleaned, positions, names, final, canvasW, canvasH)
	return nil
}

// compositeCanvas lays every map onto an opaque black canvas with
// land-only alpha, so black map borders don't erase neighbors.
func (s *Stitcher) compositeCanvas(maps map[string]*image.NRGBA, positions Layout, names []string, w, h int) *image.NRGBA {
	ordered := append([]string(nil), names...)
	sort.Slice(ordered, func(i, j int) bool {
		pi, pj := positions[ordered[i]], positions[ordered[j]]
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return ordered[i] < ordered[j]
	})

	canvas := raster.NewOpaqueCanvas(w, h)
	for _, name := range ordered {
		p := positions[name]
		raster.Paste(canvas, s.landAlpha(maps[name]), p.X, p.Y, true)
	}
	return canvas
}

// landAlpha returns a copy of img with non-land pixels forced transparent.
func (s *Stitcher) landAlpha(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	land := raster.ContentMask(img, uint8(s.cfg.ContentThreshold))
	for i, v := range land.Pix {
		if v == 0 {
			out.Pix[i*4+3] = 0
		} else {
			out.Pix[i*4+3] = 255
		}
	}
	return out
}

// canvasLandMask places a map's content mask at its canvas position and
// dilates it twice with a small disk to close capture gaps.
func canvasLandMask(img *image.NRGBA, pos image.Point, canvasW, canvasH int, threshold uint8) *raster.Mask {
	local := raster.ContentMask(img, threshold)
	m := raster.NewMask(canvasW, canvasH)
	for y := 0; y < local.H; y++ {
		cy := pos.Y + y
		if cy < 0 || cy >= canvasH {
			continue
		}
		for x := 0; x < local.W; x++ {
			cx := pos.X + x
			if cx < 0 || cx >= canvasW {
				continue
			}
			m.Pix[cy*canvasW+cx] = local.Pix[y*local.W+x]
		}
	}
	return m.Dilate(raster.DiskKernel5, 2)
}
