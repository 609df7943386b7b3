package tiles

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testCellW = 10
	testCellH = 10
	testThr   = 4
)

// testTile builds a transparent tile with the given opaque pixels.
func testTile(w, h int, opaque ...image.Point) Tile {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, p := range opaque {
		img.Pix[img.PixOffset(p.X, p.Y)+3] = 255
	}
	return Tile{FileName: "test.png", Img: img, W: w, H: h}
}

func TestDetectAlignmentShortHeight(t *testing.T) {
	// Full width, short height: the opaque edge picks top or bottom.
	top := testTile(testCellW, 6, image.Point{X: 4, Y: 0})
	dir, ok := DetectAlignment(top, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirLT, dir)

	bottom := testTile(testCellW, 6, image.Point{X: 4, Y: 5})
	dir, ok = DetectAlignment(bottom, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirLB, dir)

	both := testTile(testCellW, 6, image.Point{X: 4, Y: 0}, image.Point{X: 4, Y: 5})
	_, ok = DetectAlignment(both, testCellW, testCellH, testThr)
	require.False(t, ok)
}

func TestDetectAlignmentShortWidth(t *testing.T) {
	left := testTile(6, testCellH, image.Point{X: 0, Y: 4})
	dir, ok := DetectAlignment(left, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirLT, dir)

	right := testTile(6, testCellH, image.Point{X: 5, Y: 4})
	dir, ok = DetectAlignment(right, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirRT, dir)
}

func TestDetectAlignmentCorners(t *testing.T) {
	lt := testTile(6, 6, image.Point{X: 0, Y: 0})
	dir, ok := DetectAlignment(lt, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirLT, dir)

	rb := testTile(6, 6, image.Point{X: 5, Y: 5})
	dir, ok = DetectAlignment(rb, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirRB, dir)

	// Two opposing corners: ambiguous, defer to manual.
	ambiguous := testTile(6, 6, image.Point{X: 0, Y: 0}, image.Point{X: 5, Y: 5})
	_, ok = DetectAlignment(ambiguous, testCellW, testCellH, testThr)
	require.False(t, ok)

	// Fully transparent: nothing to anchor on.
	empty := testTile(6, 6)
	_, ok = DetectAlignment(empty, testCellW, testCellH, testThr)
	require.False(t, ok)
}

func TestDetectAlignmentAlphaThreshold(t *testing.T) {
	// Alpha below the threshold is treated as transparent noise.
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	img.Pix[img.PixOffset(0, 0)+3] = testThr - 1
	img.Pix[img.PixOffset(5, 5)+3] = testThr
	tile := Tile{Img: img, W: 6, H: 6}

	dir, ok := DetectAlignment(tile, testCellW, testCellH, testThr)
	require.True(t, ok)
	require.Equal(t, DirRB, dir)
}

func TestAnchorOffset(t *testing.T) {
	x, y := AnchorOffset(DirLT, 10, 10, 6, 4)
	require.Equal(t, 0, x)
	require.Equal(t, 0, y)

	x, y = AnchorOffset(DirRT, 10, 10, 6, 4)
	require.Equal(t, 4, x)
	require.Equal(t, 0, y)

	x, y = AnchorOffset(DirLB, 10, 10, 6, 4)
	require.Equal(t, 0, x)
	require.Equal(t, 6, y)

	x, y = AnchorOffset(DirRB, 10, 10, 6, 4)
	require.Equal(t, 4, x)
	require.Equal(t, 6, y)
}

func TestCellOrigin(t *testing.T) {
	// No flip: 1-based coordinates map straight to pixel origins.
	x, y := CellOrigin(GridPos{X: 1, Y: 1}, 3, 3, 10, 10, false, false)
	require.Equal(t, 0, x)
	require.Equal(t, 0, y)

	// FlipY puts row 1 at the bottom.
	x, y = CellOrigin(GridPos{X: 1, Y: 1}, 3, 3, 10, 10, false, true)
	require.Equal(t, 0, x)
	require.Equal(t, 20, y)

	x, y = CellOrigin(GridPos{X: 2, Y: 3}, 3, 3, 10, 10, false, true)
	require.Equal(t, 10, x)
	require.Equal(t, 0, y)

	// FlipX mirrors columns.
	x, _ = CellOrigin(GridPos{X: 1, Y: 1}, 3, 3, 10, 10, true, false)
	require.Equal(t, 20, x)
}
