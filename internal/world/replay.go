package world

import (
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// EditorEvent is one manual tile placement, the unit of work a level editor's
// drag-to-place gesture produces before PendingTilemapChange's debounce
// settles it into a single network rebuild (spec §4.4).
type EditorEvent struct {
	Cell   tilemap.Cell
	TileID tileset.TileID
}

// ReplayEditorEvents builds a fresh World over tm, applies every event in
// order (fixing the tiles of tm in place), and rebuilds the road network once
// at the end. Its result depends only on its inputs, with no wall clock and no
// debounce timer, so tests can exercise
// the seed-to-network determinism law (spec §8) without driving Sim.Tick.
func ReplayEditorEvents(tm *tilemap.Tilemap, ts tileset.Tileset, seed uint64, events []EditorEvent) *World {
	w := New(tm, ts, seed)
	for _, e := range events {
		tile, ok := w.Tilemap.At(e.Cell)
		if !ok {
			continue
		}
		tile.Fix(e.TileID, nil)
	}
	w.RebuildGraph()
	w.RefreshIndices()
	return w
}
