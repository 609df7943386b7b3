// Copyright (c) 2026 Harry Huang
package raster

import (
	"image"
)

// Mask is a binary raster. Pixels hold 0 or 1.
type Mask struct {
	W, H int
	Pix  []uint8
}

// NewMask creates an all-zero mask of the given size.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At reports whether the pixel at (x, y) is set. Out-of-bounds reads
// return false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Pix[y*m.W+x] != 0
}

// Set sets the pixel at (x, y). Out-of-bounds writes are dropped.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	if v {
		m.Pix[y*m.W+x] = 1
	} else {
		m.Pix[y*m.W+x] = 0
	}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.W, m.H)
	copy(out.Pix, m.Pix)
	return out
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Any reports whether at least one pixel is set.
func (m *Mask) Any() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return true
		}
	}
	return false
}

// ContentBounds returns the tight bounding box of set pixels with exclusive
// upper bounds, and false if the mask is empty.
func (m *Mask) ContentBounds() (image.Rectangle, bool) {
	minX, minY := m.W, m.H
	maxX, maxY := -1, -1
	for y := 0; y < m.H; y++ {
		row := y * m.W
		for x := 0; x < m.W; x++ {
			if m.Pix[row+x] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Kernel is a structuring element expressed as pixel offsets from the anchor.
type Kernel []image.Point

// CrossKernel3 is a 3x3 cross. One dilation with it closes diagonal 1-pixel
// gaps so a stroke forms a 4-connected separator.
var CrossKernel3 = Kernel{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}

// DiskKernel5 is a 5x5 elliptical disk used to close small capture gaps in
// land masks.
var DiskKernel5 = buildDiskKernel5()

func buildDiskKernel5() Kernel {
	// Row pattern of a 5x5 ellipse: only the middle column is set on the
	// first and last rows.
	var k Kernel
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if (dy == -2 || dy == 2) && dx != 0 {
				continue
			}
			k = append(k, image.Point{X: dx, Y: dy})
		}
	}
	return k
}

// Dilate returns the morphological dilation of the mask by the kernel,
// repeated iterations times.
func (m *Mask) Dilate(k Kernel, iterations int) *Mask {
	cur := m
	for it := 0; it < iterations; it++ {
		out := NewMask(cur.W, cur.H)
		for y := 0; y < cur.H; y++ {
			row := y * cur.W
			for x := 0; x < cur.W; x++ {
				if cur.Pix[row+x] == 0 {
					continue
				}
				for _, off := range k {
					nx, ny := x+off.X, y+off.Y
					if nx >= 0 && ny >= 0 && nx < cur.W && ny < cur.H {
						out.Pix[ny*cur.W+nx] = 1
					}
				}
			}
		}
		cur = out
	}
	if cur == m {
		return m.Clone()
	}
	return cur
}

// ContentMask builds the binary "land" mask of img: pixels whose grayscale
// luminance exceeds threshold.
func ContentMask(img *image.NRGBA, threshold uint8) *Mask {
	gray := Grayscale(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	m := NewMask(w, h)
	for i, v := range gray.Pix {
		if v > threshold {
			m.Pix[i] = 1
		}
	}
	return m
}

// BrightnessMask marks pixels whose mean RGB channel value exceeds
// threshold. Used for the exported bounding-box index.
func BrightnessMask(img *image.NRGBA, threshold float64) *Mask {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := img.PixOffset(0, y)
		mRow := y * w
		for x := 0; x < w; x++ {
			s := img.Pix[row : row+4]
			mean := (float64(s[0]) + float64(s[1]) + float64(s[2])) / 3.0
			if mean > threshold {
				m.Pix[mRow+x] = 1
			}
			row += 4
		}
	}
	return m
}
