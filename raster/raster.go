// Copyright (c) 2026 Harry Huang
package raster

import (
	"image"
	"image/draw"
)

// NewCanvas creates a transparent black NRGBA canvas of the given size.
func NewCanvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// NewOpaqueCanvas creates a fully opaque black NRGBA canvas of the given size.
func NewOpaqueCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// ToNRGBA converts any image to NRGBA (straight alpha).
// Returns the input unchanged if it is already *image.NRGBA with a
// zero-origin bounds.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Paste composites src onto dst with its top-left corner at (x, y).
//
// The source/destination intersection is clamped to the canvas bounds;
// out-of-bounds pixels are silently dropped. With withAlpha, pixels are
// blended with straight alpha:
//
//	outA   = aF + aB*(1-aF)
//	outRGB = (rgbF*aF + rgbB*aB*(1-aF)) / outA    where outA > 0
//
// Pixels where outA == 0 keep their prior value. Without withAlpha the
// destination region is overwritten unconditionally. Repeating the call
// with identical inputs yields an identical canvas.
func Paste(dst, src *image.NRGBA, x, y int, withAlpha bool) {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := dst.Rect.Dx(), dst.Rect.Dy()

	x0, y0 := max(0, x), max(0, y)
	x1, y1 := min(dw, x+sw), min(dh, y+sh)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	for dy := y0; dy < y1; dy++ {
		sy := dy - y
		dRow := dst.PixOffset(x0, dy)
		sRow := src.PixOffset(x0-x, sy)
		for dx := x0; dx < x1; dx++ {
			d := dst.Pix[dRow : dRow+4 : dRow+4]
			s := src.Pix[sRow : sRow+4 : sRow+4]
			if !withAlpha {
				copy(d, s)
			} else {
				aF := float64(s[3]) / 255.0
				aB := float64(d[3]) / 255.0
				outA := aF + aB*(1.0-aF)
				if outA > 0 {
					for c := 0; c < 3; c++ {
						v := (float64(s[c])*aF + float64(d[c])*aB*(1.0-aF)) / outA
						d[c] = clampByte(v)
					}
					d[3] = clampByte(outA * 255.0)
				}
			}
			dRow += 4
			sRow += 4
		}
	}
}

// Grayscale converts an NRGBA image to 8-bit luminance using the standard
// formula Y = 0.299*R + 0.587*G + 0.114*B. Alpha is ignored.
func Grayscale(img *image.NRGBA) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sRow := img.PixOffset(0, y)
		dRow := out.PixOffset(0, y)
		for x := 0; x < w; x++ {
			s := img.Pix[sRow : sRow+4]
			lum := 0.299*float64(s[0]) + 0.587*float64(s[1]) + 0.114*float64(s[2])
			out.Pix[dRow] = uint8(lum)
			sRow += 4
			dRow++
		}
	}
	return out
}

// Crop returns a copy of the given rectangle of img, clamped to its bounds.
func Crop(img *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	r := rect.Intersect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// FillAlpha sets the alpha channel of every pixel to a.
func FillAlpha(img *image.NRGBA, a uint8) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = a
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
