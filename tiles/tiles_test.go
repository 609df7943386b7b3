package tiles

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/raster"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, raster.SavePNG(path, img))
}

func TestScanNormalAndTier(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "map01_lv001_1_1.png"))
	writeTestPNG(t, filepath.Join(dir, "map01_lv001_2_1.png"))
	writeTestPNG(t, filepath.Join(dir, "map01_lv001_1_1_tier_a.png"))
	writeTestPNG(t, filepath.Join(dir, "unrelated.png"))
	writeTestPNG(t, filepath.Join(dir, "notes.txt.png"))

	groups, err := Scan(dir, MapTypeNormalTier)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	normal := groups["map01_lv001"]
	require.NotNil(t, normal)
	require.Len(t, normal.Paths, 2)

	tier := groups["map01_lv001_tier_a"]
	require.NotNil(t, tier)
	require.Len(t, tier.Paths, 1)
	require.Contains(t, tier.Paths, GridPos{X: 1, Y: 1})
}

func TestScanRecursesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "sub", "map02_lv003_1_2.png"))

	groups, err := Scan(dir, MapTypeNormalTier)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Contains(t, groups["map02_lv003"].Paths, GridPos{X: 1, Y: 2})
}

func TestScanDuplicateKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "map01_lv001_1_1.png")
	second := filepath.Join(dir, "b", "map01_lv001_1_1.png")
	writeTestPNG(t, first)
	writeTestPNG(t, second)

	groups, err := Scan(dir, MapTypeNormalTier)
	require.NoError(t, err)
	require.Equal(t, first, groups["map01_lv001"].Paths[GridPos{X: 1, Y: 1}])
}

func TestScanMapTypes(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "base01_lv001_1_1.png"))
	writeTestPNG(t, filepath.Join(dir, "dung02_lv001_1_1.png"))
	writeTestPNG(t, filepath.Join(dir, "map03_lv001_1_1.png"))

	base, err := Scan(dir, MapTypeBase)
	require.NoError(t, err)
	require.Len(t, base, 1)
	require.NotNil(t, base["base01_lv001"])

	dungeon, err := Scan(dir, MapTypeDungeon)
	require.NoError(t, err)
	require.Len(t, dungeon, 1)
	require.NotNil(t, dungeon["dung02_lv001"])

	_, err = Scan(dir, MapType("bogus"))
	require.Error(t, err)
}

func TestGroupBoundsAndOrder(t *testing.T) {
	g := &MapGroup{Name: "g", Paths: map[GridPos]string{
		{X: 2, Y: 3}: "a",
		{X: 1, Y: 1}: "b",
		{X: 3, Y: 1}: "c",
	}}

	maxX, maxY := g.Bounds()
	require.Equal(t, 3, maxX)
	require.Equal(t, 3, maxY)

	order := g.SortedPositions()
	require.Equal(t, []GridPos{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 2, Y: 3}}, order)
}

func TestSortedNames(t *testing.T) {
	groups := map[string]*MapGroup{"b": {}, "a": {}, "c": {}}
	require.Equal(t, []string{"a", "b", "c"}, SortedNames(groups))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map01_lv001_1_1.png")
	writeTestPNG(t, path)

	tile, err := Load(path, GridPos{X: 1, Y: 1})
	require.NoError(t, err)
	require.Equal(t, "map01_lv001_1_1.png", tile.FileName)
	require.Equal(t, 2, tile.W)
	require.Equal(t, 2, tile.H)

	_, err = Load(filepath.Join(dir, "missing.png"), GridPos{})
	require.Error(t, err)
}
