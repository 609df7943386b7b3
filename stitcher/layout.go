// Copyright (c) 2026 Harry Huang
package stitcher

import (
	"fmt"
	"image"
	"sort"

	"github.com/lvlath/go/bfs"
	"github.com/lvlath/go/core"
)

// Edge is a matched overlap between two maps: B sits at offset (Dx, Dy)
// relative to A. Edges are stored once and treated as bidirectional.
type Edge struct {
	A, B   string
	Dx, Dy int
	Score  float64
}

// Layout maps each map name to its integer position on the shared canvas.
type Layout map[string]image.Point

// AssembleLayout turns pairwise overlap edges into global canvas positions.
//
// Maps are graph nodes and edges are offset constraints. Each connected
// component is traversed breadth-first from its lexically smallest member;
// positions propagate along the BFS tree as the parent position plus the
// edge offset. Components are then normalized to a zero origin and placed
// left to right with a fixed pixel gap so disconnected clusters never
// overlap. Traversal roots and neighbor order both derive from sorted
// names, so repeated runs produce identical layouts.
func AssembleLayout(names []string, edges []Edge, widths map[string]int, gap int) (Layout, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	g, err := core.NewGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to create layout graph: %w", err)
	}
	for _, name := range sorted {
		if err := g.AddVertex(name); err != nil {
			return nil, fmt.Errorf("failed to add layout vertex %q: %w", name, err)
		}
	}

	// offsets[a][b] is b's offset relative to a, in both directions.
	offsets := make(map[string]map[string]image.Point, len(sorted))
	for _, name := range sorted {
		offsets[name] = make(map[string]image.Point)
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e.A, e.B, 0); err != nil {
			return nil, fmt.Errorf("failed to add layout edge %s-%s: %w", e.A, e.B, err)
		}
		offsets[e.A][e.B] = image.Point{X: e.Dx, Y: e.Dy}
		offsets[e.B][e.A] = image.Point{X: -e.Dx, Y: -e.Dy}
	}

	positions := make(Layout, len(sorted))
	var components [][]string

	for _, start := range sorted {
		if _, done := positions[start]; done {
			continue
		}
		res, err := bfs.BFS(g, start)
		if err != nil {
			return nil, fmt.Errorf("layout traversal failed at %q: %w", start, err)
		}
		// Visit order guarantees each parent precedes its children, so
		// offsets accumulate transitively without re-measuring.
		for _, id := range res.Order {
			if parent, ok := res.Parent[id]; ok {
				off := offsets[parent][id]
				positions[id] = positions[parent].Add(off)
			} else {
				positions[id] = image.Point{}
			}
		}
		components = append(components, res.Order)
	}

	// Normalize each component to origin and place components side by side.
	xCursor := 0
	for _, comp := range components {
		minX, minY := positions[comp[0]].X, positions[comp[0]].Y
		for _, name := range comp[1:] {
			if positions[name].X < minX {
				minX = positions[name].X
			}
			if positions[name].Y < minY {
				minY = positions[name].Y
			}
		}
		maxRight := 0
		for _, name := range comp {
			p := positions[name]
			p = image.Point{X: p.X - minX + xCursor, Y: p.Y - minY}
			positions[name] = p
			if right := p.X + widths[name]; right > maxRight {
				maxRight = right
			}
		}
		xCursor = maxRight + gap
	}

	if len(components) > 1 {
		slog.Warn().Int("components", len(components)).
			Msg("Disconnected map clusters placed side by side")
	}
	return positions, nil
}
