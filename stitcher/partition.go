// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"math"
	"sort"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// Owner plane values below 0; values >= 0 are map indices.
const (
	ownerNone       int32 = -1
	ownerUnresolved int32 = -2
)

// PartitionTerritories resolves overlapping land into disjoint per-map
// ownership masks.
//
// landMasks are the maps' canvas-sized land masks, indexed like names.
// When no pixel is covered by two or more maps, or when skip is set,
// every map keeps its full mask and overlap (if any) stays shared by
// design. Otherwise the barrier is dilated with a 3x3 cross so the stroke
// forms a 4-connected separator, and each 4-connected component of the
// remaining overlap is assigned in bulk:
//
//  1. to the map with the most exclusive pixels on the component's
//     4-connected ring (exclusive regions snapshotted before this pass,
//     avoiding order-dependent bias),
//  2. failing that, to the map whose exclusive region is nearest by
//     distance transform (computed once per map),
//  3. remaining pixels on the dilated wall go to the alphabetically
//     first map with land there.
//
// The result partitions the land union exactly; a leftover unresolved
// pixel is a defect and is reported loudly.
func PartitionTerritories(names []string, landMasks []*raster.Mask, barrier *raster.Mask, skip bool) []*raster.Mask {
	w, h := landMasks[0].W, landMasks[0].H
	nMaps := len(names)

	anyLand := raster.NewMask(w, h)
	overlap := raster.NewMask(w, h)
	for _, m := range landMasks {
		for i, v := range m.Pix {
			if v == 0 {
				continue
			}
			if anyLand.Pix[i] != 0 {
				overlap.Pix[i] = 1
			}
			anyLand.Pix[i] = 1
		}
	}

	if !overlap.Any() || skip {
		if skip {
			slog.Info().Msg("Splitting skipped, each map retains its full land")
		} else {
			slog.Info().Msg("No overlaps, exporting maps as-is")
		}
		out := make([]*raster.Mask, nMaps)
		for i, m := range landMasks {
			out[i] = m.Clone()
		}
		return out
	}
	slog.Info().Int("overlapPixels", overlap.Count()).Msg("Resolving overlap ownership")

	// owner: ownerNone = non-land, ownerUnresolved = overlap, i = map i.
	owner := make([]int32, w*h)
	for i := range owner {
		owner[i] = ownerNone
	}
	for idx, m := range landMasks {
		for i, v := range m.Pix {
			if v != 0 && overlap.Pix[i] == 0 {
				owner[i] = int32(idx)
			}
		}
	}
	for i, v := range overlap.Pix {
		if v != 0 {
			owner[i] = ownerUnresolved
		}
	}

	wall := raster.NewMask(w, h)
	if barrier != nil {
		if barrier.W != w || barrier.H != h {
			slog.Warn().
				Int("barrierW", barrier.W).Int("barrierH", barrier.H).
				Int("canvasW", w).Int("canvasH", h).
				Msg("Barrier size does not match canvas, ignoring barrier")
		} else {
			wall = barrier.Dilate(raster.CrossKernel3, 1)
		}
	}

	fillable := raster.NewMask(w, h)
	for i := range fillable.Pix {
		if owner[i] == ownerUnresolved && wall.Pix[i] == 0 {
			fillable.Pix[i] = 1
		}
	}

	labels, nComps := raster.Label(fillable, raster.Conn4)
	slog.Info().Int("components", nComps).Msg("Fillable overlap components")

	// Snapshot exclusive regions before any assignment so later components
	// don't see freshly assigned pixels as exclusive land.
	exclusive := make([]*raster.Mask, nMaps)
	for idx := range exclusive {
		exclusive[idx] = raster.NewMask(w, h)
		for i := range owner {
			if owner[i] == int32(idx) {
				exclusive[idx].Pix[i] = 1
			}
		}
	}

	// Distance transforms are computed lazily, once per map.
	distances := make([][]float64, nMaps)
	distanceTo := func(idx int) []float64 {
		if distances[idx] == nil {
			distances[idx] = raster.DistanceTransform(exclusive[idx])
		}
		return distances[idx]
	}

	for comp := int32(1); comp <= int32(nComps); comp++ {
		compMask := raster.ComponentMask(labels, w, h, comp)

		// 4-connected ring around the component, excluding its interior.
		ring := compMask.Dilate(raster.CrossKernel3, 1)
		for i, v := range compMask.Pix {
			if v != 0 {
				ring.Pix[i] = 0
			}
		}

		bestMap, bestCnt := -1, 0
		for idx := 0; idx < nMaps; idx++ {
			cnt := 0
			for i, v := range ring.Pix {
				if v != 0 && exclusive[idx].Pix[i] != 0 {
					cnt++
				}
			}
			if cnt > bestCnt {
				bestCnt = cnt
				bestMap = idx
			}
		}

		if bestMap < 0 {
			// Fully isolated by the barrier: nearest exclusive region wins.
			bestDist := math.Inf(1)
			for idx := 0; idx < nMaps; idx++ {
				if !exclusive[idx].Any() {
					continue
				}
				dist := distanceTo(idx)
				minDist := math.Inf(1)
				for i, v := range compMask.Pix {
					if v != 0 && dist[i] < minDist {
						minDist = dist[i]
					}
				}
				if minDist < bestDist {
					bestDist = minDist
					bestMap = idx
				}
			}
		}

		if bestMap >= 0 {
			for i, v := range compMask.Pix {
				if v != 0 {
					owner[i] = int32(bestMap)
				}
			}
		}
		// Still unassigned components fall through to the wall-pixel pass.
	}

	// Wall pixels (and anything left) go to the alphabetically first map
	// with land there, so the result is reproducible across runs.
	alphaOrder := make([]int, nMaps)
	for i := range alphaOrder {
		alphaOrder[i] = i
	}
	sort.Slice(alphaOrder, func(a, b int) bool { return names[alphaOrder[a]] < names[alphaOrder[b]] })
	for _, idx := range alphaOrder {
		for i := range owner {
			if owner[i] == ownerUnresolved && landMasks[idx].Pix[i] != 0 {
				owner[i] = int32(idx)
			}
		}
	}

	unresolved := 0
	for _, v := range owner {
		if v == ownerUnresolved {
			unresolved++
		}
	}
	if unresolved > 0 {
		// Should be unreachable: every overlap pixel lies in at least two
		// land masks, so the alphabetical pass covers it.
		slog.Error().Int("pixels", unresolved).Msg("Unresolved overlap pixels after partitioning")
	}

	out := make([]*raster.Mask, nMaps)
	for idx := range out {
		m := raster.NewMask(w, h)
		for i, v := range owner {
			if v == int32(idx) {
				m.Pix[i] = 1
			}
		}
		out[idx] = m
	}
	return out
}
