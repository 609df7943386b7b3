// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// RemoveIslands erases land disconnected from a map's center region.
//
// Land components are labeled under 8-connectivity. Components that
// overlap a small rectangle around the raster's geometric center form the
// "continent" and are kept; everything else is assumed to be bleed from a
// neighboring map captured at the edge and is zeroed. If the center
// region holds no land at all the map is returned unchanged — erasing
// everything would be worse than doing nothing — and a warning is logged.
// Returns the cleaned image and the number of island pixels removed.
func RemoveIslands(name string, img *image.NRGBA, cfg config.Config) (*image.NRGBA, int) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	land := raster.ContentMask(img, uint8(cfg.ContentThreshold))
	labels, _ := raster.Label(land, raster.Conn8)

	cx, cy := w/2, h/2
	marginX := max(1, int(float64(w)*cfg.IslandCenterMargin))
	marginY := max(1, int(float64(h)*cfg.IslandCenterMargin))

	centerLabels := make(map[int32]bool)
	for y := cy - marginY; y <= cy+marginY; y++ {
		if y < 0 || y >= h {
			continue
		}
		row := y * w
		for x := cx - marginX; x <= cx+marginX; x++ {
			if x < 0 || x >= w {
				continue
			}
			if l := labels[row+x]; l != 0 {
				centerLabels[l] = true
			}
		}
	}

	if len(centerLabels) == 0 {
		slog.Warn().Str("map", name).Msg("No land at center, keeping map unchanged")
		return img, 0
	}

	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	removed := 0
	for i, l := range labels {
		if l == 0 || centerLabels[l] {
			continue
		}
		p := i * 4
		out.Pix[p] = 0
		out.Pix[p+1] = 0
		out.Pix[p+2] = 0
		out.Pix[p+3] = 0
		removed++
	}
	if removed > 0 {
		slog.Info().Str("map", name).Int("islandPixels", removed).Msg("Removed islands")
	}
	return out, removed
}
