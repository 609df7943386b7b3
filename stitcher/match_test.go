package stitcher

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.CellW = 4
	cfg.CellH = 4
	cfg.Scale = 1.0
	return cfg
}

// worldPixel hashes a world coordinate to a bright pixel value. A linear
// gradient would self-correlate under grid-sized shifts; the avalanche mix
// keeps every candidate offset except the true one dissimilar.
func worldPixel(wx, wy int) uint8 {
	h := uint32(wx)*374761393 + uint32(wy)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return uint8(20 + h%200)
}

// worldCrop cuts a w x h view starting at world column offX out of a
// deterministic synthetic "world" so two crops share pixels exactly where
// their world regions overlap.
func worldCrop(offX, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := worldPixel(offX+x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = v
			img.Pix[off+1] = v
			img.Pix[off+2] = v
			img.Pix[off+3] = 255
		}
	}
	return img
}

func TestMatchPairFindsKnownOffset(t *testing.T) {
	cfg := testConfig()
	imgA := worldCrop(0, 8, 8)
	imgB := worldCrop(4, 8, 8)
	maskA := raster.ContentMask(imgA, uint8(cfg.ContentThreshold))
	maskB := raster.ContentMask(imgB, uint8(cfg.ContentThreshold))

	m, ok := MatchPair(imgA, maskA, imgB, maskB, cfg)
	require.True(t, ok)
	require.Equal(t, 4, m.Dx)
	require.Equal(t, 0, m.Dy)
	require.InDelta(t, 1.0, m.Score, 1e-9)
}

func TestMatchPairVerticalOffset(t *testing.T) {
	cfg := testConfig()
	// Same trick on the Y axis: B is A shifted one tile down.
	build := func(offY int) *image.NRGBA {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				v := worldPixel(x, offY+y)
				off := img.PixOffset(x, y)
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = v, v, v, 255
			}
		}
		return img
	}
	imgA := build(0)
	imgB := build(4)
	maskA := raster.ContentMask(imgA, uint8(cfg.ContentThreshold))
	maskB := raster.ContentMask(imgB, uint8(cfg.ContentThreshold))

	m, ok := MatchPair(imgA, maskA, imgB, maskB, cfg)
	require.True(t, ok)
	require.Equal(t, 0, m.Dx)
	require.Equal(t, 4, m.Dy)
}

func TestMatchPairRejectsUnrelatedContent(t *testing.T) {
	cfg := testConfig()
	// Crops from far-apart world regions share no pixel values at any
	// candidate offset.
	imgA := worldCrop(0, 8, 8)
	imgB := worldCrop(100, 8, 8)
	maskA := raster.ContentMask(imgA, uint8(cfg.ContentThreshold))
	maskB := raster.ContentMask(imgB, uint8(cfg.ContentThreshold))

	_, ok := MatchPair(imgA, maskA, imgB, maskB, cfg)
	require.False(t, ok)
}

func TestMatchPairDisjointBounds(t *testing.T) {
	cfg := testConfig()
	// Content confined to opposite borders can never intersect on the
	// tested grid offsets, so the bbox pruning rejects every candidate.
	mkEdge := func(col int) *image.NRGBA {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			off := img.PixOffset(col, y)
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = 200, 200, 200, 255
		}
		return img
	}
	imgA := mkEdge(0)
	imgB := mkEdge(7)
	maskA := raster.ContentMask(imgA, uint8(cfg.ContentThreshold))
	maskB := raster.ContentMask(imgB, uint8(cfg.ContentThreshold))

	_, ok := MatchPair(imgA, maskA, imgB, maskB, cfg)
	require.False(t, ok)
}

func TestMatchPairEmptyMask(t *testing.T) {
	cfg := testConfig()
	imgA := worldCrop(0, 8, 8)
	empty := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	maskA := raster.ContentMask(imgA, uint8(cfg.ContentThreshold))
	maskE := raster.ContentMask(empty, uint8(cfg.ContentThreshold))

	_, ok := MatchPair(imgA, maskA, empty, maskE, cfg)
	require.False(t, ok)
}
