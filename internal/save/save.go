// Package save encodes and decodes the durable savegame record: a tilemap,
// an RNG seed, and a lot list (spec §6 "Savegame format").
package save

import (
	"errors"
	"fmt"

	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/lot"
	"github.com/klemola/liikennematto-sub004/internal/randx"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// currentVersion is the only version Decode accepts today.
const currentVersion = 1

// ErrSavegameVersionMismatch is the spec §7 SavegameVersionMismatch error:
// the record refuses to load and the host is told directly rather than
// Decode attempting a best-effort read.
var ErrSavegameVersionMismatch = errors.New("save: savegame version mismatch")

// subgridSentinel marks a large-tile subgrid member in the flat tilemap
// array; its real id is reconstructed from the owning lot's anchor instead.
const subgridSentinel = -1

// LotRecord is one `[lot-kind-id, anchor-x, anchor-y]` triple.
type LotRecord struct {
	KindID  int
	AnchorX int
	AnchorY int
}

// Record is the tagged savegame document (spec §6).
type Record struct {
	Version int
	SeedHi  uint32
	SeedLo  uint32
	Width   int
	Height  int
	Tiles   []int
	Lots    []LotRecord
}

// Encode captures tm, the RNG source and the lot list into a Record. Only
// Fixed and Uninitialized cells round-trip explicitly; large-tile subgrid
// members collapse to subgridSentinel and are reconstructed from anchors on
// decode, per spec §6.
func Encode(tm *tilemap.Tilemap, rng *randx.Source, lots map[int]*lot.Lot) Record {
	hi, lo := rng.Parts()
	rec := Record{
		Version: currentVersion,
		SeedHi:  hi,
		SeedLo:  lo,
		Width:   tm.Width,
		Height:  tm.Height,
		Tiles:   make([]int, len(tm.Tiles)),
	}
	for i, t := range tm.Tiles {
		switch t.Kind.Tag {
		case tilemap.KindFixed:
			if t.Kind.Parent != nil {
				rec.Tiles[i] = subgridSentinel
			} else {
				rec.Tiles[i] = int(t.Kind.ID)
			}
		default:
			rec.Tiles[i] = int(tileset.TileEmpty)
		}
	}
	for c, a := range tm.Anchors {
		l, ok := lots[a.LotID]
		if !ok {
			continue
		}
		rec.Lots = append(rec.Lots, LotRecord{KindID: int(l.TileID), AnchorX: c.X, AnchorY: c.Y})
	}
	return rec
}

// Decode reconstructs a tilemap and RNG source from rec, re-fixing large
// tiles from their anchors and ts's subgrid layout. It refuses anything but
// currentVersion outright (spec §7).
func Decode(rec Record, ts tileset.Tileset) (*tilemap.Tilemap, *randx.Source, error) {
	if rec.Version != currentVersion {
		return nil, nil, fmt.Errorf("save: version %d: %w", rec.Version, ErrSavegameVersionMismatch)
	}
	if len(rec.Tiles) != rec.Width*rec.Height {
		return nil, nil, fmt.Errorf("save: tile array length %d does not match %dx%d", len(rec.Tiles), rec.Width, rec.Height)
	}

	tm := tilemap.New(rec.Width, rec.Height)
	for i, id := range rec.Tiles {
		if id == subgridSentinel || id == int(tileset.TileEmpty) {
			continue
		}
		tm.Tiles[i].Fix(tileset.TileID(id), nil)
	}

	for i, lr := range rec.Lots {
		cfg, ok := ts.Get(tileset.TileID(lr.KindID))
		if !ok || cfg.Kind != tileset.KindLarge {
			continue
		}
		roadCell, err := tilemap.NewCell(lr.AnchorX, lr.AnchorY, rec.Width, rec.Height)
		if err != nil {
			return nil, nil, err
		}
		if err := fixLargeTile(tm, roadCell, cfg, i); err != nil {
			return nil, nil, err
		}
	}

	rng := randx.FromParts(rec.SeedHi, rec.SeedLo)
	return tm, rng, nil
}

// driveDirection returns the direction the large tile's driveway cell (its
// AnchorIndex subgrid member) faces, i.e. the Gray-socket edge WithLot set
// when the lot was registered.
func driveDirection(cfg tileset.Config) (geom.Direction, bool) {
	if cfg.AnchorIndex < 0 || cfg.AnchorIndex >= len(cfg.Subgrid) {
		return 0, false
	}
	sockets := cfg.Subgrid[cfg.AnchorIndex].Sockets
	for _, d := range geom.Directions {
		if sockets.Edge(d) == tileset.SocketGray {
			return d, true
		}
	}
	return 0, false
}

// fixLargeTile re-collapses every subgrid member of a large tile whose
// driveway touches roadCell, and records the road-network anchor at
// roadCell, mirroring how the WFC solver commits a large tile atomically
// (spec §4.1 "large-tile variants").
func fixLargeTile(tm *tilemap.Tilemap, roadCell tilemap.Cell, cfg tileset.Config, lotID int) error {
	driveDir, ok := driveDirection(cfg)
	if !ok {
		return fmt.Errorf("save: lot tile %d has no driveway socket", cfg.ID)
	}
	driveCell, ok := roadCell.Neighbor(driveDir.Opposite(), tm.Width, tm.Height)
	if !ok {
		return fmt.Errorf("save: lot tile %d driveway falls off grid from road cell (%d,%d)", cfg.ID, roadCell.X, roadCell.Y)
	}
	col, row := cfg.SubgridPos(cfg.AnchorIndex)
	originX, originY := driveCell.X-col, driveCell.Y-row

	for i := range cfg.Subgrid {
		sc, sr := cfg.SubgridPos(i)
		c, err := tilemap.NewCell(originX+sc, originY+sr, tm.Width, tm.Height)
		if err != nil {
			return fmt.Errorf("save: lot tile %d footprint falls off grid: %w", cfg.ID, err)
		}
		tile, ok := tm.At(c)
		if !ok {
			return fmt.Errorf("save: lot tile %d footprint falls off grid", cfg.ID)
		}
		tile.Fix(cfg.ID, &tilemap.ParentRef{LargeID: cfg.ID, SubgridIndex: i})
	}
	tm.SetAnchor(roadCell, tilemap.Anchor{LotID: lotID, Direction: driveDir.Opposite(), EntryCell: driveCell})
	return nil
}
