package tileset

import "github.com/klemola/liikennematto-sub004/internal/geom"

// GrassID is the plain filler tile: no road connections, all edges match
// the open field around it. Chosen outside both the road-id range (1..15)
// and the lot-id range (>=FirstLotID) so it never collides with either.
const GrassID TileID = 500

func socketsFor(id TileID) Sockets {
	var s Sockets
	for _, d := range geom.Directions {
		if ConnectsTo(id, d) {
			s[d] = SocketGray
		} else {
			s[d] = SocketGreen
		}
	}
	return s
}

// DefaultTileset builds the stock road tile library: the grass filler plus
// every road-connection bitmask from 1 (deadend) to 15 (4-way cross), with
// sockets derived mechanically from the spec §6 encoding.
func DefaultTileset() Tileset {
	configs := map[TileID]Config{
		GrassID: {
			ID:      GrassID,
			Kind:    KindSingle,
			Weight:  1.0,
			Sockets: Sockets{SocketGreen, SocketGreen, SocketGreen, SocketGreen},
		},
	}
	for id := TileID(1); id < roadIDCeiling; id++ {
		configs[id] = Config{
			ID:      id,
			Kind:    KindSingle,
			Weight:  1.0,
			Sockets: socketsFor(id),
		}
	}
	return Tileset{
		Configs:   configs,
		DefaultID: GrassID,
	}
}

// WithLot registers a large-tile config for a lot footprint of the given
// size, anchored at anchorIndex within its subgrid, and returns the
// extended tileset. The anchor subgrid cell carries a road-facing Gray
// socket on edge driveDir so the lot's driveway pairs with the road it
// attaches to; every other edge of the footprint is Green so the lot sits
// flush against open ground.
func (t Tileset) WithLot(id TileID, width, height, anchorIndex int, driveDir geom.Direction, weight float64) Tileset {
	sub := make([]Config, width*height)
	for i := range sub {
		sub[i] = Config{ID: id, Kind: KindSingle, Sockets: Sockets{SocketGreen, SocketGreen, SocketGreen, SocketGreen}}
	}
	anchor := sub[anchorIndex]
	anchor.Sockets[driveDir] = SocketGray
	sub[anchorIndex] = anchor

	if weight <= 0 {
		weight = 0.15
	}
	t.Configs[id] = Config{
		ID:          id,
		Kind:        KindLarge,
		Weight:      weight,
		Width:       width,
		Height:      height,
		AnchorIndex: anchorIndex,
		Subgrid:     sub,
	}
	return t
}
