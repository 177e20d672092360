package tilemap

import (
	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// KindTag distinguishes the members of Tile.Kind, the WFC-visible state of a
// cell (spec §3: Unintialized / Superposition / Fixed / Buffer).
type KindTag int

const (
	KindUninitialized KindTag = iota
	KindSuperposition
	KindFixed
	KindBuffer
)

// ParentRef points a Fixed subgrid member back at the large tile that owns
// it, per spec §3's invariant that every subgrid cell resolves to a root.
type ParentRef struct {
	LargeID      tileset.TileID
	SubgridIndex int
}

// Kind is the tagged union of what a cell currently holds.
type Kind struct {
	Tag     KindTag
	Options []tileset.TileID // KindSuperposition: remaining legal ids
	ID      tileset.TileID   // KindFixed: the collapsed id
	Parent  *ParentRef       // KindFixed: set only for large-tile subgrid members
}

// Tile owns a lifecycle FSM (constructing/built/removing/removed) layered on
// top of the WFC-level Kind. The FSM only starts once Kind becomes Fixed;
// before that the tile has no lifecycle machine at all.
type Tile struct {
	Kind      Kind
	Lifecycle *fsm.Machine[LifecycleContext]
}

// NewUninitializedTile returns a tile that hasn't entered the solver yet.
func NewUninitializedTile() Tile {
	return Tile{Kind: Kind{Tag: KindUninitialized}}
}

// NewBufferTile returns a tile permanently excluded from collapse.
func NewBufferTile() Tile {
	return Tile{Kind: Kind{Tag: KindBuffer}}
}

// EnterSuperposition moves the tile into Superposition with the given
// candidate ids.
func (t *Tile) EnterSuperposition(options []tileset.TileID) {
	t.Kind = Kind{Tag: KindSuperposition, Options: append([]tileset.TileID(nil), options...)}
}

// Fix collapses the tile to id, optionally recording a large-tile parent,
// and starts its construction lifecycle. Returns the build-start action for
// the caller to forward to the world's action/event queue.
func (t *Tile) Fix(id tileset.TileID, parent *ParentRef) []fsm.Action {
	t.Kind = Kind{Tag: KindFixed, ID: id, Parent: parent}
	t.Lifecycle = fsm.New[LifecycleContext](stateConstructing{})
	return []fsm.Action{{Kind: "PlayAudio", Data: "build-start"}}
}

// BeginRemoving transitions a Fixed tile's lifecycle toward removal, e.g. on
// bulldoze (spec §6 Secondary editor event).
func (t *Tile) BeginRemoving() {
	if t.Lifecycle == nil {
		t.Lifecycle = fsm.New[LifecycleContext](stateRemoving{})
		return
	}
	t.Lifecycle.Force(stateRemoving{})
}

// Removed reports whether the tile's lifecycle has reached terminal removal.
func (t *Tile) Removed() bool {
	return t.Lifecycle != nil && t.Lifecycle.Current().Name() == "removed"
}

// Sockets returns the tile's outward sockets if Fixed, consulting the
// tileset for single tiles or the appropriate subgrid entry for large-tile
// members. Returns the zero Sockets and false for anything else.
func (t Tile) Sockets(ts tileset.Tileset) (tileset.Sockets, bool) {
	if t.Kind.Tag != KindFixed {
		return tileset.Sockets{}, false
	}
	cfg, ok := ts.Get(t.Kind.ID)
	if !ok {
		return tileset.Sockets{}, false
	}
	if cfg.Kind == tileset.KindSingle {
		return cfg.Sockets, true
	}
	if t.Kind.Parent != nil {
		return cfg.SubgridSockets(t.Kind.Parent.SubgridIndex), true
	}
	return tileset.Sockets{}, false
}

// EdgeSocket returns the socket facing direction d, if the tile is Fixed.
func (t Tile) EdgeSocket(ts tileset.Tileset, d geom.Direction) (tileset.Socket, bool) {
	s, ok := t.Sockets(ts)
	if !ok {
		return 0, false
	}
	return s.Edge(d), true
}
