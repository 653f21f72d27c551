// Package grid arranges a store's tiles into a floor-plan grid and works
// out which cells border each tile.
package grid

import (
	"encoding/json"

	"github.com/dukerupert/shopfaster/internal/model"
)

// Tile is a floor-plan tile decorated with its neighbor references.
type Tile struct {
	model.Tile
	Neighbors []*model.TileRef `json:"neighbors"`
}

// offsets lists the eight neighbor directions clockwise, starting directly
// above the tile.
var offsets = [8][2]int{
	{0, -1},  // above
	{1, -1},  // top right
	{1, 0},   // right
	{1, 1},   // bottom right
	{0, 1},   // below
	{-1, 1},  // bottom left
	{-1, 0},  // left
	{-1, -1}, // top left
}

// Grid is a dense [column][row] arrangement of tiles. Cells without a tile
// are nil. The grid is sized from the largest column and row over every
// tile, so ragged or gappy layouts still get correct bounds.
type Grid struct {
	numCols int
	numRows int
	cells   [][]*Tile
}

// Build places tiles by coordinate and attaches neighbors to each one.
// Tiles with negative coordinates are ignored.
func Build(tiles []model.Tile) *Grid {
	g := &Grid{}
	for _, t := range tiles {
		if t.Column < 0 || t.Row < 0 {
			continue
		}
		g.numCols = max(g.numCols, t.Column+1)
		g.numRows = max(g.numRows, t.Row+1)
	}

	g.cells = make([][]*Tile, g.numCols)
	for c := range g.cells {
		g.cells[c] = make([]*Tile, g.numRows)
	}
	for _, t := range tiles {
		if t.Column < 0 || t.Row < 0 {
			continue
		}
		g.cells[t.Column][t.Row] = &Tile{Tile: t}
	}

	for _, col := range g.cells {
		for _, cell := range col {
			if cell != nil {
				cell.Neighbors = g.Neighbors(cell.Column, cell.Row)
			}
		}
	}
	return g
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (numCols, numRows int) {
	return g.numCols, g.numRows
}

func (g *Grid) InBounds(column, row int) bool {
	return column >= 0 && column < g.numCols && row >= 0 && row < g.numRows
}

// At returns the tile at (column, row), or nil if the cell is empty or out
// of bounds.
func (g *Grid) At(column, row int) *Tile {
	if !g.InBounds(column, row) {
		return nil
	}
	return g.cells[column][row]
}

// Neighbors returns the eight clockwise neighbor slots of (column, row).
// A slot is nil when its coordinate falls outside the grid.
func (g *Grid) Neighbors(column, row int) []*model.TileRef {
	refs := make([]*model.TileRef, len(offsets))
	for i, off := range offsets {
		c, r := column+off[0], row+off[1]
		if g.InBounds(c, r) {
			refs[i] = &model.TileRef{Column: c, Row: r}
		}
	}
	return refs
}

// Decorate attaches neighbors to a tile resolved outside the grid. When
// the grid holds the same tile, the grid's own entry is returned so both
// representations agree.
func (g *Grid) Decorate(t *model.Tile) *Tile {
	if t == nil {
		return nil
	}
	if cell := g.At(t.Column, t.Row); cell != nil && cell.ID == t.ID {
		return cell
	}
	return &Tile{Tile: *t, Neighbors: g.Neighbors(t.Column, t.Row)}
}

// MarshalJSON renders the grid as a [column][row] array with null holes.
func (g *Grid) MarshalJSON() ([]byte, error) {
	if g.cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.cells)
}
