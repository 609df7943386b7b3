// Copyright (c) 2026 Harry Huang
package raster

import "image"

// Connectivity selects the neighborhood used for component labeling.
type Connectivity int

const (
	Conn4 Connectivity = 4
	Conn8 Connectivity = 8
)

var (
	offsets4 = []image.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}
	offsets8 = []image.Point{
		{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
		{X: -1, Y: 0}, {X: 1, Y: 0},
		{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}
)

// Label assigns a component label to every set pixel of the mask.
//
// Returns a labels plane the size of the mask (0 = background, components
// are numbered 1..n in raster scan order of their first pixel, so labeling
// is deterministic) and the component count n.
func Label(m *Mask, conn Connectivity) ([]int32, int) {
	offs := offsets4
	if conn == Conn8 {
		offs = offsets8
	}

	labels := make([]int32, m.W*m.H)
	var next int32
	queue := make([]image.Point, 0, 256)

	for sy := 0; sy < m.H; sy++ {
		row := sy * m.W
		for sx := 0; sx < m.W; sx++ {
			if m.Pix[row+sx] == 0 || labels[row+sx] != 0 {
				continue
			}
			next++
			labels[row+sx] = next
			queue = append(queue[:0], image.Point{X: sx, Y: sy})
			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				for _, off := range offs {
					nx, ny := p.X+off.X, p.Y+off.Y
					if nx < 0 || ny < 0 || nx >= m.W || ny >= m.H {
						continue
					}
					idx := ny*m.W + nx
					if m.Pix[idx] != 0 && labels[idx] == 0 {
						labels[idx] = next
						queue = append(queue, image.Point{X: nx, Y: ny})
					}
				}
			}
		}
	}
	return labels, int(next)
}

// ComponentMask extracts the pixels carrying the given label as a mask.
func ComponentMask(labels []int32, w, h int, label int32) *Mask {
	m := NewMask(w, h)
	for i, l := range labels {
		if l == label {
			m.Pix[i] = 1
		}
	}
	return m
}
