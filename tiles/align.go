// Copyright (c) 2026 Harry Huang
package tiles

import "image"

type edge int

const (
	edgeLeft edge = iota
	edgeRight
	edgeTop
	edgeBottom
)

// hasOpaqueEdge reports whether the tile image has any pixel with alpha at
// or above threshold along the given edge. A threshold above zero tolerates
// compression noise in fully transparent borders.
func hasOpaqueEdge(img *image.NRGBA, e edge, threshold uint8) bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	switch e {
	case edgeLeft:
		for y := 0; y < h; y++ {
			if img.Pix[img.PixOffset(0, y)+3] >= threshold {
				return true
			}
		}
	case edgeRight:
		for y := 0; y < h; y++ {
			if img.Pix[img.PixOffset(w-1, y)+3] >= threshold {
				return true
			}
		}
	case edgeTop:
		row := img.PixOffset(0, 0)
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] >= threshold {
				return true
			}
		}
	case edgeBottom:
		row := img.PixOffset(0, h-1)
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] >= threshold {
				return true
			}
		}
	}
	return false
}

// DetectAlignment decides how a tile whose pixel size differs from the
// standard cell anchors inside its grid cell.
//
// If only the height is short, top/bottom edge presence decides; if only
// the width, left/right; otherwise corners are tested as AND-combinations
// of adjacent edges. The tile auto-aligns only when exactly one candidate
// is true; zero or multiple candidates defer to manual resolution
// (ok == false). Single-edge results are normalized to a corner because
// placement math always anchors on a corner.
func DetectAlignment(t Tile, cellW, cellH, alphaThreshold int) (Direction, bool) {
	thr := uint8(alphaThreshold)
	flagL := hasOpaqueEdge(t.Img, edgeLeft, thr)
	flagR := hasOpaqueEdge(t.Img, edgeRight, thr)
	flagT := hasOpaqueEdge(t.Img, edgeTop, thr)
	flagB := hasOpaqueEdge(t.Img, edgeBottom, thr)

	var candidates []Direction
	switch {
	case t.W == cellW:
		// Only height is short: top/bottom edges are meaningful.
		if flagT {
			candidates = append(candidates, DirLT)
		}
		if flagB {
			candidates = append(candidates, DirLB)
		}
	case t.H == cellH:
		// Only width is short: left/right edges are meaningful.
		if flagL {
			candidates = append(candidates, DirLT)
		}
		if flagR {
			candidates = append(candidates, DirRT)
		}
	default:
		if flagL && flagT {
			candidates = append(candidates, DirLT)
		}
		if flagR && flagT {
			candidates = append(candidates, DirRT)
		}
		if flagL && flagB {
			candidates = append(candidates, DirLB)
		}
		if flagR && flagB {
			candidates = append(candidates, DirRB)
		}
	}

	if len(candidates) != 1 {
		return DirLT, false
	}
	return candidates[0], true
}

// AnchorOffset returns the pixel offset of the tile's top-left corner
// within its cell for the given anchor direction.
func AnchorOffset(dir Direction, cellW, cellH, tileW, tileH int) (int, int) {
	switch dir {
	case DirRT:
		return cellW - tileW, 0
	case DirLB:
		return 0, cellH - tileH
	case DirRB:
		return cellW - tileW, cellH - tileH
	default: // DirLT
		return 0, 0
	}
}

// CellOrigin converts a 1-based grid position to the pixel origin of its
// cell on the group canvas, honoring the axis flip conventions.
func CellOrigin(pos GridPos, maxX, maxY, cellW, cellH int, flipX, flipY bool) (int, int) {
	var x, y int
	if flipX {
		x = (maxX - pos.X) * cellW
	} else {
		x = (pos.X - 1) * cellW
	}
	if flipY {
		y = (maxY - pos.Y) * cellH
	} else {
		y = (pos.Y - 1) * cellH
	}
	return x, y
}
