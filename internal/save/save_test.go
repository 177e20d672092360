package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/lot"
	"github.com/klemola/liikennematto-sub004/internal/randx"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

func TestEncodeDecodeRoundTripsPlainRoadTiles(t *testing.T) {
	ts := tileset.DefaultTileset()
	tm := tilemap.New(2, 1)
	left, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	right, _ := tm.At(tilemap.Cell{X: 2, Y: 1})
	left.Fix(tileset.TileID(tileset.BitRight), nil)
	right.Fix(tileset.TileID(tileset.BitLeft), nil)

	rng := randx.NewSource(555)
	rec := Encode(tm, rng, map[int]*lot.Lot{})

	decoded, decodedRNG, err := Decode(rec, ts)
	require.NoError(t, err)

	assert.Equal(t, tm.Width, decoded.Width)
	assert.Equal(t, tm.Height, decoded.Height)
	for i := range tm.Tiles {
		assert.Equal(t, tm.Tiles[i].Kind.Tag, decoded.Tiles[i].Kind.Tag)
		assert.Equal(t, tm.Tiles[i].Kind.ID, decoded.Tiles[i].Kind.ID)
	}

	wantHi, wantLo := rng.Parts()
	gotHi, gotLo := decodedRNG.Parts()
	assert.Equal(t, wantHi, gotHi)
	assert.Equal(t, wantLo, gotLo)
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	rec := Record{Version: 99, Width: 1, Height: 1, Tiles: []int{0}}
	_, _, err := Decode(rec, tileset.DefaultTileset())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSavegameVersionMismatch)
}

func TestEncodeDecodeRoundTripsLargeTileFromAnchor(t *testing.T) {
	ts := tileset.DefaultTileset()
	// the lot cell's Up edge (facing back toward the road cell above it)
	// carries the driveway socket; the anchor direction save.go records is
	// the opposite, road-to-lot direction (spec §3 "Anchor").
	ts = ts.WithLot(tileset.FirstLotID, 1, 1, 0, geom.Up, 0.2)

	tm := tilemap.New(1, 2) // row 1: road, row 2: lot footprint
	road, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	road.Fix(tileset.TileID(tileset.BitDown), nil)

	lotTile, _ := tm.At(tilemap.Cell{X: 1, Y: 2})
	lotTile.Fix(tileset.FirstLotID, &tilemap.ParentRef{LargeID: tileset.FirstLotID, SubgridIndex: 0})
	tm.SetAnchor(tilemap.Cell{X: 1, Y: 1}, tilemap.Anchor{LotID: 1, Direction: geom.Down, EntryCell: tilemap.Cell{X: 1, Y: 2}})

	rng := randx.NewSource(1)
	lots := map[int]*lot.Lot{1: {ID: 1, TileID: tileset.FirstLotID}}
	rec := Encode(tm, rng, lots)

	require.Len(t, rec.Lots, 1)
	assert.Equal(t, int(tileset.FirstLotID), rec.Lots[0].KindID)
	assert.Equal(t, 1, rec.Lots[0].AnchorX)
	assert.Equal(t, 1, rec.Lots[0].AnchorY)

	decoded, _, err := Decode(rec, ts)
	require.NoError(t, err)

	reconstructed, ok := decoded.At(tilemap.Cell{X: 1, Y: 2})
	require.True(t, ok)
	assert.Equal(t, tileset.FirstLotID, reconstructed.Kind.ID)
	require.NotNil(t, reconstructed.Kind.Parent)
	assert.Equal(t, tileset.FirstLotID, reconstructed.Kind.Parent.LargeID)
}

func TestDecodeRejectsMismatchedTileArrayLength(t *testing.T) {
	rec := Record{Version: currentVersion, Width: 2, Height: 2, Tiles: []int{0, 0}}
	_, _, err := Decode(rec, tileset.DefaultTileset())
	assert.Error(t, err)
}
