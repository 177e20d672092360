package tilemap

import (
	"fmt"

	"github.com/klemola/liikennematto-sub004/internal/geom"
)

// Cell is a 1-indexed grid coordinate: 1 <= X <= W, 1 <= Y <= H.
type Cell struct {
	X, Y int
}

// NewCell validates (x, y) against the grid dimensions and returns InvalidCell
// (spec §7) if out of bounds.
func NewCell(x, y, width, height int) (Cell, error) {
	if x < 1 || x > width || y < 1 || y > height {
		return Cell{}, fmt.Errorf("tilemap: %w: (%d,%d) outside %dx%d grid", ErrInvalidCell, x, y, width, height)
	}
	return Cell{X: x, Y: y}, nil
}

// Index converts a cell to its flat array index, given the grid width.
// Canonical conversion per spec §3: (x-1) + (y-1)*W.
func (c Cell) Index(width int) int {
	return (c.X - 1) + (c.Y-1)*width
}

// CellFromIndex is the inverse of Index.
func CellFromIndex(idx, width int) Cell {
	return Cell{X: idx%width + 1, Y: idx/width + 1}
}

// WorldPos returns the cell's bottom-left corner in meters, per spec §3:
// ((x-1)*S, (H-y)*S).
func (c Cell) WorldPos(height int) geom.Point {
	s := geom.CellSize
	return geom.Point{
		X: float64(c.X-1) * s,
		Y: float64(height-c.Y) * s,
	}
}

// Center returns the cell's center point in meters.
func (c Cell) Center(height int) geom.Point {
	p := c.WorldPos(height)
	half := geom.CellSize / 2
	return geom.Point{X: p.X + half, Y: p.Y + half}
}

// BoundingBox returns the cell's footprint as a geom.Box.
func (c Cell) BoundingBox(height int) geom.Box {
	p := c.WorldPos(height)
	return geom.Box{Min: p, Max: geom.Point{X: p.X + geom.CellSize, Y: p.Y + geom.CellSize}}
}

// Neighbor returns the adjacent cell in direction d. The second return value
// is false if that neighbor would fall off the grid.
func (c Cell) Neighbor(d geom.Direction, width, height int) (Cell, bool) {
	n := Cell{X: c.X, Y: c.Y}
	switch d {
	case geom.Up:
		n.Y--
	case geom.Down:
		n.Y++
	case geom.Left:
		n.X--
	case geom.Right:
		n.X++
	}
	if n.X < 1 || n.X > width || n.Y < 1 || n.Y > height {
		return Cell{}, false
	}
	return n, true
}
