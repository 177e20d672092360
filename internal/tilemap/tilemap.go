package tilemap

import (
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// Anchor records where a lot attaches to the road network: which lot, which
// direction points from the road cell toward the lot, and the cell the lot
// considers its own entry point (spec §3).
type Anchor struct {
	LotID     int
	Direction geom.Direction
	EntryCell Cell
}

// Tilemap is the fixed-size grid of tile slots plus lot anchor bookkeeping.
type Tilemap struct {
	Width, Height int
	Tiles         []Tile
	Anchors       map[Cell]Anchor
}

// New allocates a Width x Height grid of uninitialized tiles.
func New(width, height int) *Tilemap {
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = NewUninitializedTile()
	}
	return &Tilemap{Width: width, Height: height, Tiles: tiles, Anchors: map[Cell]Anchor{}}
}

// At returns the tile at c and whether c is in bounds.
func (tm *Tilemap) At(c Cell) (*Tile, bool) {
	if c.X < 1 || c.X > tm.Width || c.Y < 1 || c.Y > tm.Height {
		return nil, false
	}
	return &tm.Tiles[c.Index(tm.Width)], true
}

// Cells iterates every cell in row-major order.
func (tm *Tilemap) Cells() []Cell {
	out := make([]Cell, 0, tm.Width*tm.Height)
	for y := 1; y <= tm.Height; y++ {
		for x := 1; x <= tm.Width; x++ {
			out = append(out, Cell{X: x, Y: y})
		}
	}
	return out
}

// SetAnchor records a lot's attachment point.
func (tm *Tilemap) SetAnchor(c Cell, a Anchor) {
	tm.Anchors[c] = a
}

// Neighbors returns the up to four in-bounds neighbor cells of c alongside
// the direction from c to each.
func (tm *Tilemap) Neighbors(c Cell) map[geom.Direction]Cell {
	out := map[geom.Direction]Cell{}
	for _, d := range geom.Directions {
		if n, ok := c.Neighbor(d, tm.Width, tm.Height); ok {
			out[d] = n
		}
	}
	return out
}

// SocketsConsistent checks the spec §3 invariant for one cell: every Fixed
// edge pairs with its neighbor's facing socket, unless the neighbor is
// Buffer or off-grid.
func (tm *Tilemap) SocketsConsistent(c Cell, ts tileset.Tileset) bool {
	tile, ok := tm.At(c)
	if !ok {
		return true
	}
	mySockets, ok := tile.Sockets(ts)
	if !ok {
		return true // not Fixed, nothing to check
	}
	for _, d := range geom.Directions {
		n, inBounds := c.Neighbor(d, tm.Width, tm.Height)
		if !inBounds {
			continue
		}
		neighbor, _ := tm.At(n)
		if neighbor.Kind.Tag == KindBuffer {
			continue
		}
		theirSockets, ok := neighbor.Sockets(ts)
		if !ok {
			continue
		}
		if !tileset.Pairs(mySockets.Edge(d), theirSockets.Edge(d.Opposite())) {
			return false
		}
	}
	return true
}

// BoundingBox returns the full grid's bounding box in world meters, used to
// size the world's quadtrees (spec §4.5).
func (tm *Tilemap) BoundingBox() geom.Box {
	return geom.Box{
		Min: geom.Point{X: 0, Y: 0},
		Max: geom.Point{X: float64(tm.Width) * geom.CellSize, Y: float64(tm.Height) * geom.CellSize},
	}
}
