package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopfaster/internal/model"
)

func rect(numCols, numRows int) []model.Tile {
	var tiles []model.Tile
	id := int64(1)
	for c := 0; c < numCols; c++ {
		for r := 0; r < numRows; r++ {
			tiles = append(tiles, model.Tile{ID: id, StoreID: 1, Column: c, Row: r})
			id++
		}
	}
	return tiles
}

func countPresent(refs []*model.TileRef) int {
	n := 0
	for _, ref := range refs {
		if ref != nil {
			n++
		}
	}
	return n
}

func TestNeighborsSingleTile(t *testing.T) {
	g := Build(rect(1, 1))

	cell := g.At(0, 0)
	require.NotNil(t, cell)
	require.Len(t, cell.Neighbors, 8)
	for i, ref := range cell.Neighbors {
		assert.Nil(t, ref, "slot %d", i)
	}
}

func TestNeighborsThreeByThree(t *testing.T) {
	g := Build(rect(3, 3))

	center := g.At(1, 1)
	require.NotNil(t, center)
	assert.Equal(t, 8, countPresent(center.Neighbors))

	for _, corner := range [][2]int{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		cell := g.At(corner[0], corner[1])
		require.NotNil(t, cell)
		assert.Equal(t, 3, countPresent(cell.Neighbors), "corner %v", corner)
	}
}

func TestNeighborsClockwiseFromAbove(t *testing.T) {
	g := Build(rect(3, 3))

	want := []*model.TileRef{
		{Column: 1, Row: 0},
		{Column: 2, Row: 0},
		{Column: 2, Row: 1},
		{Column: 2, Row: 2},
		{Column: 1, Row: 2},
		{Column: 0, Row: 2},
		{Column: 0, Row: 1},
		{Column: 0, Row: 0},
	}
	assert.Equal(t, want, g.At(1, 1).Neighbors)

	// Top-left corner: only right, bottom right and below are inside.
	corner := g.At(0, 0).Neighbors
	assert.Nil(t, corner[0])
	assert.Nil(t, corner[1])
	assert.Equal(t, &model.TileRef{Column: 1, Row: 0}, corner[2])
	assert.Equal(t, &model.TileRef{Column: 1, Row: 1}, corner[3])
	assert.Equal(t, &model.TileRef{Column: 0, Row: 1}, corner[4])
	assert.Nil(t, corner[5])
	assert.Nil(t, corner[6])
	assert.Nil(t, corner[7])
}

func TestNeighborsNullIffOutOfBounds(t *testing.T) {
	const numCols, numRows = 4, 3
	g := Build(rect(numCols, numRows))

	for c := 0; c < numCols; c++ {
		for r := 0; r < numRows; r++ {
			refs := g.At(c, r).Neighbors
			require.Len(t, refs, 8)
			for i, off := range offsets {
				nc, nr := c+off[0], r+off[1]
				inside := nc >= 0 && nc < numCols && nr >= 0 && nr < numRows
				if inside {
					require.NotNil(t, refs[i], "(%d,%d) slot %d", c, r, i)
					assert.Equal(t, model.TileRef{Column: nc, Row: nr}, *refs[i])
				} else {
					assert.Nil(t, refs[i], "(%d,%d) slot %d", c, r, i)
				}
			}
		}
	}
}

func TestBuildRaggedColumns(t *testing.T) {
	// The first column is shorter than the second; the row count must come
	// from the tallest column.
	tiles := []model.Tile{
		{ID: 1, Column: 0, Row: 0},
		{ID: 2, Column: 0, Row: 1},
		{ID: 3, Column: 1, Row: 0},
		{ID: 4, Column: 1, Row: 4},
	}
	g := Build(tiles)

	numCols, numRows := g.Dims()
	assert.Equal(t, 2, numCols)
	assert.Equal(t, 5, numRows)

	below := g.At(0, 1).Neighbors[4]
	require.NotNil(t, below)
	assert.Equal(t, model.TileRef{Column: 0, Row: 2}, *below)
}

func TestBuildOffsetColumns(t *testing.T) {
	tiles := []model.Tile{
		{ID: 1, Column: 2, Row: 0},
		{ID: 2, Column: 3, Row: 1},
	}
	g := Build(tiles)

	numCols, numRows := g.Dims()
	assert.Equal(t, 4, numCols)
	assert.Equal(t, 2, numRows)
	assert.Nil(t, g.At(0, 0))
	assert.Nil(t, g.At(9, 9))
	assert.Equal(t, int64(2), g.At(3, 1).ID)
}

func TestBuildIgnoresNegativeCoordinates(t *testing.T) {
	g := Build([]model.Tile{{ID: 1, Column: -1, Row: 0}, {ID: 2, Column: 0, Row: 0}})

	numCols, numRows := g.Dims()
	assert.Equal(t, 1, numCols)
	assert.Equal(t, 1, numRows)
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil)

	numCols, numRows := g.Dims()
	assert.Zero(t, numCols)
	assert.Zero(t, numRows)
	assert.Nil(t, g.At(0, 0))

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestDecorate(t *testing.T) {
	g := Build(rect(2, 2))

	assert.Nil(t, g.Decorate(nil))

	same := g.Decorate(&model.Tile{ID: 4, StoreID: 1, Column: 1, Row: 1})
	assert.Same(t, g.At(1, 1), same)

	outside := g.Decorate(&model.Tile{ID: 99, Column: 5, Row: 5})
	require.NotNil(t, outside)
	assert.Equal(t, 5, outside.Column)
	assert.Len(t, outside.Neighbors, 8)
}

func TestMarshalJSON(t *testing.T) {
	g := Build([]model.Tile{
		{ID: 1, StoreID: 7, Column: 0, Row: 0},
		{ID: 2, StoreID: 7, Column: 1, Row: 1, Obstacle: true},
	})

	b, err := json.Marshal(g)
	require.NoError(t, err)

	var got [][]map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 2)
	require.Len(t, got[0], 2)
	assert.Nil(t, got[0][1])
	assert.Nil(t, got[1][0])
	assert.Equal(t, true, got[1][1]["obstacle"])
	assert.Equal(t, float64(1), got[1][1]["col"])

	neighbors, ok := got[0][0]["neighbors"].([]any)
	require.True(t, ok)
	require.Len(t, neighbors, 8)
	assert.Nil(t, neighbors[0])
	assert.Equal(t, map[string]any{"col": float64(1), "row": float64(0)}, neighbors[2])
}
