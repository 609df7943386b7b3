package stitcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

func columnMask(w, h, x0, x1 int) *raster.Mask {
	m := raster.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := x0; x <= x1; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// requirePartition checks the partition contract: per-map masks are
// pairwise disjoint and together cover the land union exactly.
func requirePartition(t *testing.T, landMasks, owned []*raster.Mask) {
	t.Helper()
	w, h := landMasks[0].W, landMasks[0].H
	for i := 0; i < w*h; i++ {
		var land, got int
		for _, m := range landMasks {
			if m.Pix[i] != 0 {
				land = 1
			}
		}
		for _, m := range owned {
			if m.Pix[i] != 0 {
				got++
			}
		}
		require.LessOrEqual(t, got, 1, "pixel %d owned by multiple maps", i)
		require.Equal(t, land, got, "pixel %d coverage mismatch", i)
	}
}

func TestPartitionBarrierSplitsOverlap(t *testing.T) {
	// A spans columns 0-12, B spans 8-19; the barrier stroke at column 10
	// cuts the overlap. Ring votes assign column 8 to A and column 12 to
	// B; the wall itself falls to the alphabetically first owner.
	names := []string{"mapA", "mapB"}
	land := []*raster.Mask{
		columnMask(20, 5, 0, 12),
		columnMask(20, 5, 8, 19),
	}
	barrier := columnMask(20, 5, 10, 10)

	owned := PartitionTerritories(names, land, barrier, false)
	requirePartition(t, land, owned)

	for y := 0; y < 5; y++ {
		require.True(t, owned[0].At(8, y))
		require.True(t, owned[0].At(10, y)) // wall, alphabetical fallback
		require.True(t, owned[1].At(12, y))
		require.True(t, owned[1].At(13, y))
	}
}

func TestPartitionWrongSizedBarrierIgnored(t *testing.T) {
	// A barrier raster that doesn't match the canvas cannot be applied;
	// partitioning proceeds as if none was supplied.
	names := []string{"mapA", "mapB"}
	land := []*raster.Mask{
		columnMask(20, 5, 0, 12),
		columnMask(20, 5, 8, 19),
	}
	barrier := columnMask(10, 3, 5, 5)

	owned := PartitionTerritories(names, land, barrier, false)
	requirePartition(t, land, owned)

	// Without a wall the overlap is one component; the ring vote ties at
	// five exclusive pixels per side and the first maximum wins.
	for y := 0; y < 5; y++ {
		require.True(t, owned[0].At(12, y))
		require.True(t, owned[1].At(13, y))
	}
}

func TestPartitionNoOverlap(t *testing.T) {
	names := []string{"mapA", "mapB"}
	land := []*raster.Mask{
		columnMask(10, 3, 0, 3),
		columnMask(10, 3, 6, 9),
	}

	owned := PartitionTerritories(names, land, nil, false)
	require.Equal(t, land[0].Pix, owned[0].Pix)
	require.Equal(t, land[1].Pix, owned[1].Pix)

	// Results are copies, not aliases.
	owned[0].Set(9, 0, true)
	require.False(t, land[0].At(9, 0))
}

func TestPartitionSkipKeepsOverlapShared(t *testing.T) {
	names := []string{"mapA", "mapB"}
	land := []*raster.Mask{
		columnMask(10, 3, 0, 6),
		columnMask(10, 3, 4, 9),
	}

	owned := PartitionTerritories(names, land, nil, true)
	require.Equal(t, land[0].Pix, owned[0].Pix)
	require.Equal(t, land[1].Pix, owned[1].Pix)
	// Overlap stays in both masks.
	require.True(t, owned[0].At(5, 1))
	require.True(t, owned[1].At(5, 1))
}

func TestPartitionDistanceFallback(t *testing.T) {
	// B's land lies entirely inside A's, and the barrier walls off the
	// overlap completely. The single enclosed pixel has no exclusive
	// neighbor, so the nearest exclusive region decides; only A has one.
	names := []string{"mapA", "mapB"}
	w, h := 7, 7
	landA := columnMask(w, h, 0, 6)
	landB := raster.NewMask(w, h)
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			landB.Set(x, y, true)
		}
	}
	barrier := raster.NewMask(w, h)
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			if x == 1 || x == 5 || y == 1 || y == 5 {
				barrier.Set(x, y, true)
			}
		}
	}

	owned := PartitionTerritories(names, []*raster.Mask{landA, landB}, barrier, false)
	requirePartition(t, []*raster.Mask{landA, landB}, owned)
	require.Equal(t, w*h, owned[0].Count())
	require.Equal(t, 0, owned[1].Count())
}

func TestPartitionAlphabeticalOrderUsesNames(t *testing.T) {
	// Identical land fully covered by the barrier: the tie-break follows
	// map names, not slice order.
	names := []string{"mapB", "mapA"}
	land := []*raster.Mask{
		columnMask(3, 1, 0, 2),
		columnMask(3, 1, 0, 2),
	}
	barrier := columnMask(3, 1, 0, 2)

	owned := PartitionTerritories(names, land, barrier, false)
	require.Equal(t, 0, owned[0].Count())
	require.Equal(t, 3, owned[1].Count())
}
