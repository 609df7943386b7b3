// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"image"
	"math"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// Match is the best grid-aligned placement of map B relative to map A.
type Match struct {
	Dx, Dy int
	Score  float64
}

// MatchPair searches for the best grid-aligned offset of B relative to A.
//
// Only translations that are whole multiples of the tile step are tested,
// spanning every offset where B's cell grid could touch A's. Candidates
// whose content bounding boxes do not intersect are rejected before any
// pixel comparison; surviving candidates need at least MinOverlapFrac of
// one cell's pixels jointly "land" to be scored. The score is
// 1 - mean(|grayA - grayB|)/255 over jointly-land pixels; grayscale
// comparison tolerates palette shifts between captures. The highest score
// above MatchThreshold wins; the scan order is fixed, so equal scores
// deterministically keep the first maximum.
func MatchPair(imgA *image.NRGBA, maskA *raster.Mask, imgB *image.NRGBA, maskB *raster.Mask, cfg config.Config) (Match, bool) {
	wA, hA := imgA.Rect.Dx(), imgA.Rect.Dy()
	wB, hB := imgB.Rect.Dx(), imgB.Rect.Dy()
	sfx := float64(cfg.CellW) * cfg.Scale
	sfy := float64(cfg.CellH) * cfg.Scale

	tilesAx := int(math.Round(float64(wA) / sfx))
	tilesAy := int(math.Round(float64(hA) / sfy))
	tilesBx := int(math.Round(float64(wB) / sfx))
	tilesBy := int(math.Round(float64(hB) / sfy))

	minContent := int(math.Round(sfx) * math.Round(sfy) * cfg.MinOverlapFrac)

	bboxA, okA := maskA.ContentBounds()
	bboxB, okB := maskB.ContentBounds()
	if !okA || !okB {
		return Match{}, false
	}

	grayA := raster.Grayscale(imgA)
	grayB := raster.Grayscale(imgB)

	var best Match
	found := false

	for nx := -(tilesBx - 1); nx < tilesAx; nx++ {
		for ny := -(tilesBy - 1); ny < tilesAy; ny++ {
			if nx == 0 && ny == 0 {
				continue
			}
			dx := int(math.Round(float64(nx) * sfx))
			dy := int(math.Round(float64(ny) * sfy))

			// Content bounding boxes must intersect at this offset.
			if bboxB.Min.X+dx >= bboxA.Max.X || bboxB.Max.X+dx <= bboxA.Min.X ||
				bboxB.Min.Y+dy >= bboxA.Max.Y || bboxB.Max.Y+dy <= bboxA.Min.Y {
				continue
			}

			ox1, oy1 := max(0, dx), max(0, dy)
			ox2, oy2 := min(wA, dx+wB), min(hA, dy+hB)
			if ox2 <= ox1 || oy2 <= oy1 {
				continue
			}

			score, nBoth := scoreOverlap(grayA, maskA, grayB, maskB, dx, dy, ox1, oy1, ox2, oy2)
			if nBoth < minContent {
				continue
			}
			if score > cfg.MatchThreshold && (!found || score > best.Score) {
				best = Match{Dx: dx, Dy: dy, Score: score}
				found = true
			}
		}
	}
	return best, found
}

// scoreOverlap computes the joint-land pixel count and the grayscale
// similarity score inside the overlap rectangle [ox1,ox2)x[oy1,oy2) of A,
// with B shifted by (dx, dy).
func scoreOverlap(grayA *image.Gray, maskA *raster.Mask, grayB *image.Gray, maskB *raster.Mask, dx, dy, ox1, oy1, ox2, oy2 int) (float64, int) {
	var sum int64
	n := 0
	for y := oy1; y < oy2; y++ {
		aRow := y * maskA.W
		bRow := (y - dy) * maskB.W
		gaRow := grayA.PixOffset(0, y)
		gbRow := grayB.PixOffset(0, y-dy)
		for x := ox1; x < ox2; x++ {
			if maskA.Pix[aRow+x] == 0 || maskB.Pix[bRow+x-dx] == 0 {
				continue
			}
			d := int(grayA.Pix[gaRow+x]) - int(grayB.Pix[gbRow+x-dx])
			if d < 0 {
				d = -d
			}
			sum += int64(d)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return 1.0 - float64(sum)/float64(n)/255.0, n
}
