// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// exportSplitMaps writes one cropped PNG per map, containing only the
// pixels the map owns after partitioning. Maps that ended up owning no
// pixels are skipped with a warning; a failed write is reported per output
// and does not abandon the remaining maps.
func (s *Stitcher) exportSplitMaps(outputDir string, maps map[string]*image.NRGBA, positions Layout, names []string, owned []*raster.Mask, canvasW, canvasH int) {
	for i, name := range names {
		bbox, ok := owned[i].ContentBounds()
		if !ok {
			slog.Warn().Str("map", name).Msg("Map owns no pixels, skipping export")
			continue
		}

		// Place the map's cleaned raster on a private canvas, then keep
		// only the owned pixels inside the ownership bounding box.
		full := raster.NewCanvas(canvasW, canvasH)
		p := positions[name]
		raster.Paste(full, maps[name], p.X, p.Y, false)

		out := raster.Crop(full, bbox)
		mask := owned[i]
		for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
			mRow := y * mask.W
			oRow := out.PixOffset(0, y-bbox.Min.Y)
			for x := bbox.Min.X; x < bbox.Max.X; x++ {
				if mask.Pix[mRow+x] == 0 {
					o := out.Pix[oRow : oRow+4 : oRow+4]
					o[0], o[1], o[2], o[3] = 0, 0, 0, 0
				}
				oRow += 4
			}
		}

		path := filepath.Join(outputDir, fmt.Sprintf("%s.png", name))
		if err := raster.SavePNG(path, out); err != nil {
			slog.Error().Err(err).Str("map", name).Str("path", path).
				Msg("Failed to export split map")
			continue
		}
		slog.Info().Str("path", path).
			Int("w", bbox.Dx()).Int("h", bbox.Dy()).
			Msg("Split map saved")
	}
}
