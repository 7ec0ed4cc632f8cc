package tetris

import (
	"fmt"
	"iter"
)

// Grid is a dense W*H store of cells in row-major order.
// Every access is bounds checked, reading or writing outside the grid
// is a programming error and panics.
type Grid[T comparable] struct {
	size  Size2
	tiles []T
}

func NewGrid[T comparable](size Size2) *Grid[T] {
	return &Grid[T]{
		size:  size,
		tiles: make([]T, size.W*size.H),
	}
}

func (g *Grid[T]) Size() Size2 { return g.size }

// IsInside reports whether pos addresses a cell of the grid.
func (g *Grid[T]) IsInside(pos Pos) bool {
	return pos.X < g.size.W && pos.Y < g.size.H
}

func (g *Grid[T]) Tile(pos Pos) T {
	return g.tiles[g.index(pos)]
}

func (g *Grid[T]) SetTile(pos Pos, v T) {
	g.tiles[g.index(pos)] = v
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for p := range g.Positions() {
		g.SetTile(p, v)
	}
}

// Row returns a copy of row y.
func (g *Grid[T]) Row(y uint) []T {
	if y >= g.size.H {
		panic(fmt.Sprintf("row %d out of bounds for grid %dx%d", y, g.size.W, g.size.H))
	}
	row := make([]T, g.size.W)
	copy(row, g.tiles[y*g.size.W:(y+1)*g.size.W])
	return row
}

// Positions yields every position of the grid, y outer and x inner.
func (g *Grid[T]) Positions() iter.Seq[Pos] {
	size := g.size
	return func(yield func(Pos) bool) {
		for y := range size.H {
			for x := range size.W {
				if !yield(Pos{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{size: g.size, tiles: make([]T, len(g.tiles))}
	copy(c.tiles, g.tiles)
	return c
}

func (g *Grid[T]) index(pos Pos) int {
	if !g.IsInside(pos) {
		panic(fmt.Sprintf("position %d,%d out of bounds for grid %dx%d", pos.X, pos.Y, g.size.W, g.size.H))
	}
	return int(g.size.W*pos.Y + pos.X)
}
