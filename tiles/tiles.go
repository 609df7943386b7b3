// Copyright (c) 2026 Harry Huang

// Package tiles loads and groups map screenshot tiles by their file names.
package tiles

import (
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

// tlog is the sub-logger for the tiles module.
var tlog zerolog.Logger = log.With().Str("module", "tiles").Logger()

// MapType selects which tile file patterns to collect.
type MapType string

const (
	MapTypeNormalTier MapType = "normal_tier"
	MapTypeBase       MapType = "base"
	MapTypeDungeon    MapType = "dungeon"
)

// GridPos is a 1-based tile coordinate within a group.
type GridPos struct {
	X, Y int
}

// AlignMode records how a non-standard tile was anchored.
type AlignMode string

const (
	AlignAuto   AlignMode = "auto"
	AlignManual AlignMode = "manual"
)

// Direction is the corner a tile anchors on inside its grid cell.
type Direction string

const (
	DirLT Direction = "lt"
	DirRT Direction = "rt"
	DirLB Direction = "lb"
	DirRB Direction = "rb"
)

// Tile is one screenshot fragment placed at integer grid coordinates.
// Tiles are immutable; alignment fields are replaced via WithAlignment,
// never mutated in place.
type Tile struct {
	FileName       string
	Pos            GridPos
	Img            *image.NRGBA
	W, H           int
	AlignMode      AlignMode
	AlignDirection Direction
}

// WithAlignment returns a copy of the tile with the alignment fields set.
func (t Tile) WithAlignment(mode AlignMode, dir Direction) Tile {
	t.AlignMode = mode
	t.AlignDirection = dir
	return t
}

// Load reads the tile image at path into a new Tile.
func Load(path string, pos GridPos) (Tile, error) {
	img, err := raster.LoadNRGBA(path)
	if err != nil {
		return Tile{}, err
	}
	return Tile{
		FileName: filepath.Base(path),
		Pos:      pos,
		Img:      img,
		W:        img.Rect.Dx(),
		H:        img.Rect.Dy(),
	}, nil
}

// MapGroup collects the tile files sharing one base name.
type MapGroup struct {
	Name  string
	Paths map[GridPos]string
}

// Bounds returns the maximum grid coordinates of the group.
func (g *MapGroup) Bounds() (maxX, maxY int) {
	for pos := range g.Paths {
		if pos.X > maxX {
			maxX = pos.X
		}
		if pos.Y > maxY {
			maxY = pos.Y
		}
	}
	return maxX, maxY
}

// SortedPositions returns the tile positions in fixed row-major order.
func (g *MapGroup) SortedPositions() []GridPos {
	out := make([]GridPos, 0, len(g.Paths))
	for pos := range g.Paths {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

type pattern struct {
	re   *regexp.Regexp
	tier bool
}

func patternsFor(mapType MapType) ([]pattern, error) {
	switch mapType {
	case MapTypeNormalTier:
		return []pattern{
			{re: regexp.MustCompile(`^(map\d+_lv\d+)_(\d+)_(\d+)\.png$`)},
			{re: regexp.MustCompile(`^(\w+)_(\d+)_(\d+)_tier_(\w+)\.png$`), tier: true},
		}, nil
	case MapTypeBase:
		return []pattern{
			{re: regexp.MustCompile(`^(base\d+_lv\d+)_(\d+)_(\d+)\.png$`)},
		}, nil
	case MapTypeDungeon:
		return []pattern{
			{re: regexp.MustCompile(`^(dung\d+_lv\d+)_(\d+)_(\d+)\.png$`)},
		}, nil
	default:
		return nil, fmt.Errorf("invalid map type: %q", mapType)
	}
}

// Scan walks dir recursively and groups matching tile files by base name.
// Duplicate grid coordinates within a group keep the first file seen and
// log a warning.
func Scan(dir string, mapType MapType) (map[string]*MapGroup, error) {
	patterns, err := patternsFor(mapType)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*MapGroup)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			groupName := m[1]
			if p.tier {
				groupName = fmt.Sprintf("%s_tier_%s", m[1], m[4])
			}
			x, _ := strconv.Atoi(m[2])
			y, _ := strconv.Atoi(m[3])
			pos := GridPos{X: x, Y: y}

			g, ok := groups[groupName]
			if !ok {
				g = &MapGroup{Name: groupName, Paths: make(map[GridPos]string)}
				groups[groupName] = g
			}
			if _, dup := g.Paths[pos]; dup {
				tlog.Warn().
					Str("group", groupName).
					Int("x", x).Int("y", y).
					Str("file", name).
					Msg("Duplicate tile coordinate, keeping first")
			} else {
				g.Paths[pos] = path
			}
			break // file matched, no need to try other patterns
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan tile directory: %w", walkErr)
	}

	if len(groups) == 0 {
		tlog.Warn().Str("dir", dir).Msg("No map tiles found in input directory")
	}
	return groups, nil
}

// SortedNames returns group names in lexical order for deterministic
// processing.
func SortedNames(groups map[string]*MapGroup) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
