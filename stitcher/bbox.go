// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/pkg/fsutil"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// BBoxIndexFile is the name of the bounding box index written next to the maps.
const BBoxIndexFile = "map_bbox.json"

// GenerateBBoxIndex scans dir for map PNGs and writes map_bbox.json, an
// index of each map's bright-content bounding box as [minX, minY, maxX,
// maxY] with exclusive upper bounds. The directory is created (with its
// ignore marker) if missing. Files prefixed with "_" are working artifacts
// and are skipped. Keys are file names without extension; the index itself
// is written with sorted keys so reruns are diff-stable.
func GenerateBBoxIndex(dir string, cfg config.Config) error {
	if err := fsutil.EnsureOutputDir(dir); err != nil {
		return err
	}

	boxes := make(map[string][4]int)
	threshold := cfg.BboxBrightnessFrac * 255.0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".png") || strings.HasPrefix(name, "_") {
			return nil
		}
		img, err := raster.LoadNRGBA(path)
		if err != nil {
			slog.Warn().Err(err).Str("file", name).Msg("Skipping unreadable map in bbox scan")
			return nil
		}
		bright := raster.BrightnessMask(img, threshold)
		bbox, ok := bright.ContentBounds()
		if !ok {
			slog.Warn().Str("file", name).Msg("Map has no bright content, skipping")
			return nil
		}
		key := strings.TrimSuffix(name, ".png")
		boxes[key] = [4]int{bbox.Min.X, bbox.Min.Y, bbox.Max.X, bbox.Max.Y}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan map directory: %w", err)
	}

	// ConfigStd sorts object keys, matching encoding/json output.
	data, err := sonic.ConfigStd.MarshalIndent(boxes, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode bbox index: %w", err)
	}
	out := filepath.Join(dir, BBoxIndexFile)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bbox index: %w", err)
	}
	slog.Info().Str("path", out).Int("maps", len(boxes)).Msg("Bounding box index saved")
	return nil
}

// dumpLayout writes the resolved canvas positions as JSON next to the
// composite, so match results can be inspected without rerunning the search.
func dumpLayout(path string, positions Layout) error {
	out := make(map[string][2]int, len(positions))
	for name, p := range positions {
		out[name] = [2]int{p.X, p.Y}
	}
	data, err := sonic.ConfigStd.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode layout dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write layout dump: %w", err)
	}
	return nil
}
