// Copyright (c) 2026 Harry Huang
package raster

import "math"

// DistanceTransform computes, for every pixel, the approximate Euclidean
// distance to the nearest set pixel of target, using a two-pass chamfer
// with weights 1 and sqrt(2). Pixels inside target get distance 0. If the
// target is empty every distance is +Inf.
func DistanceTransform(target *Mask) []float64 {
	const diag = math.Sqrt2
	w, h := target.W, target.H
	dist := make([]float64, w*h)
	inf := math.Inf(1)

	for i := range dist {
		if target.Pix[i] != 0 {
			dist[i] = 0
		} else {
			dist[i] = inf
		}
	}

	// Forward pass: top-left to bottom-right.
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			d := dist[row+x]
			if x > 0 && dist[row+x-1]+1 < d {
				d = dist[row+x-1] + 1
			}
			if y > 0 {
				up := row - w
				if dist[up+x]+1 < d {
					d = dist[up+x] + 1
				}
				if x > 0 && dist[up+x-1]+diag < d {
					d = dist[up+x-1] + diag
				}
				if x < w-1 && dist[up+x+1]+diag < d {
					d = dist[up+x+1] + diag
				}
			}
			dist[row+x] = d
		}
	}

	// Backward pass: bottom-right to top-left.
	for y := h - 1; y >= 0; y-- {
		row := y * w
		for x := w - 1; x >= 0; x-- {
			d := dist[row+x]
			if x < w-1 && dist[row+x+1]+1 < d {
				d = dist[row+x+1] + 1
			}
			if y < h-1 {
				down := row + w
				if dist[down+x]+1 < d {
					d = dist[down+x] + 1
				}
				if x < w-1 && dist[down+x+1]+diag < d {
					d = dist[down+x+1] + diag
				}
				if x > 0 && dist[down+x-1]+diag < d {
					d = dist[down+x-1] + diag
				}
			}
			dist[row+x] = d
		}
	}

	return dist
}
