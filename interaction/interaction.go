// Copyright (c) 2026 Harry Huang

// Package interaction defines the synchronous port through which the
// pipeline requests manual input. The original tool drove these steps
// with a live window and mouse callbacks; the core instead calls a
// Resolver supplied by the caller, so it runs headlessly and is testable
// with scripted responses.
package interaction

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/tiles"
)

// Resolver supplies the manual decisions of the pipeline. Both calls are
// synchronous request/response boundaries; the core never polls devices.
type Resolver interface {
	// ResolveAlignment is called for each tile whose alignment could not
	// be determined automatically. The returned direction is used as-is.
	ResolveAlignment(t tiles.Tile) tiles.Direction

	// CollectBarrier is called once per stitch group before overlap
	// partitioning, with a preview of the composite canvas. It returns
	// the barrier stroke as a binary mask of the canvas size, or
	// skip == true to leave overlapping regions shared.
	CollectBarrier(preview *image.NRGBA) (barrier *raster.Mask, skip bool)
}

// Auto is the headless resolver: ambiguous tiles anchor at the default
// corner and overlap splitting is skipped.
type Auto struct{}

func (Auto) ResolveAlignment(tiles.Tile) tiles.Direction { return tiles.DirLT }

func (Auto) CollectBarrier(*image.NRGBA) (*raster.Mask, bool) { return nil, true }

// FixedBarrier resolves alignments like Auto but answers the barrier
// request with a pre-drawn mask (e.g. loaded from a PNG stroke file).
type FixedBarrier struct {
	Barrier *raster.Mask
}

func (f FixedBarrier) ResolveAlignment(tiles.Tile) tiles.Direction { return tiles.DirLT }

func (f FixedBarrier) CollectBarrier(preview *image.NRGBA) (*raster.Mask, bool) {
	if f.Barrier == nil {
		return nil, true
	}
	return f.Barrier, false
}

// Scripted answers from queued responses; used by tests.
type Scripted struct {
	// Alignments maps tile file names to their manual direction.
	// Missing entries fall back to lt.
	Alignments map[string]tiles.Direction

	// Barrier and Skip form the single barrier response.
	Barrier *raster.Mask
	Skip    bool

	// AlignmentRequests records the tiles routed to manual resolution.
	AlignmentRequests []string
}

func (s *Scripted) ResolveAlignment(t tiles.Tile) tiles.Direction {
	s.AlignmentRequests = append(s.AlignmentRequests, t.FileName)
	if dir, ok := s.Alignments[t.FileName]; ok {
		return dir
	}
	return tiles.DirLT
}

func (s *Scripted) CollectBarrier(*image.NRGBA) (*raster.Mask, bool) {
	return s.Barrier, s.Skip
}

// LoadBarrierPNG reads a barrier stroke from a PNG file: every pixel with
// nonzero brightness or alpha counts as part of the stroke.
func LoadBarrierPNG(path string) (*raster.Mask, error) {
	img, err := raster.LoadNRGBA(path)
	if err != nil {
		return nil, err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	m := raster.NewMask(w, h)
	for y := 0; y < h; y++ {
		row := img.PixOffset(0, y)
		for x := 0; x < w; x++ {
			p := img.Pix[row : row+4]
			if (p[0] > 0 || p[1] > 0 || p[2] > 0) && p[3] > 0 {
				m.Set(x, y, true)
			}
			row += 4
		}
	}
	return m, nil
}
