// Package wfc is the constraint-propagation tilemap solver: given a sparse
// set of user-fixed cells plus the tileset's socket rules, it fills the rest
// of the grid and instantiates large (multi-cell) tiles consistent with
// their neighbors (spec §4.1).
package wfc

import (
	"fmt"

	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/randx"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// State is one of the three solver-level states the public API exposes.
type State int

const (
	StateRunning State = iota
	StateSolved
	StateFailed
)

// StopCondition controls when Step stops doing automatic work (spec §4.1).
type StopCondition int

const (
	// StopAtSolved keeps collapsing cells until every cell is Fixed.
	StopAtSolved StopCondition = iota
	// StopAtEmptySteps halts as soon as the propagation queue drains,
	// without starting a new collapse, used by callers (e.g. a single
	// user-seeded Collapse) that want to settle propagation but not
	// auto-advance the rest of the grid.
	StopAtEmptySteps
)

// maxSnapshots bounds the backtracking stack (spec §4.1 "bounded snapshot
// stack"); once it is full, pushSnapshot drops the oldest snapshot, so
// backtracking can no longer undo the collapses that snapshot covered.
const maxSnapshots = 4096

// snapshot captures everything needed to undo one collapse attempt.
type snapshot struct {
	tiles       []tilemap.Tile
	queue       []tilemap.Cell
	rng         randx.Source
	cell        tilemap.Cell
	triedOption tileset.TileID
}

// Solver runs the WFC algorithm over an internal grid that is two cells
// wider and taller than the public tilemap: a one-cell Buffer ring pads the
// playable W x H interior (spec §4.1 Initialize). ToTilemap extracts the
// interior as the tilemap the rest of the engine consumes.
type Solver struct {
	ts     tileset.Tileset
	tm     *tilemap.Tilemap // (width+2) x (height+2), interior is the public grid
	width  int              // public width
	height int              // public height
	rng    *randx.Source

	queue       []tilemap.Cell
	snapshots   []snapshot
	state       State
	failReason  string
	lastCell    tilemap.Cell
	currentCell tilemap.Cell

	// PendingActions accumulates side-effect actions (build-start etc.)
	// raised by Fix calls during solving; World drains this after each
	// StepN/Solve call.
	PendingActions []fsm.Action
	// ChangedCells lists cell indices that were modified since the caller
	// last drained it, for downstream cache refresh (spec §4.1 step 6).
	ChangedCells []tilemap.Cell
}

// toInternal converts a public (1..width, 1..height) cell into the solver's
// padded internal coordinate space.
func (s *Solver) toInternal(c tilemap.Cell) tilemap.Cell {
	return tilemap.Cell{X: c.X + 1, Y: c.Y + 1}
}

func (s *Solver) fromInternal(c tilemap.Cell) tilemap.Cell {
	return tilemap.Cell{X: c.X - 1, Y: c.Y - 1}
}

// Initialize builds a solver over a width x height public grid, seeding the
// interior with every tile id whose footprint could legally start there and
// surrounding it with a Buffer ring (spec §4.1).
func Initialize(ts tileset.Tileset, width, height int, seed uint64) *Solver {
	iw, ih := width+2, height+2
	tm := tilemap.New(iw, ih)
	s := &Solver{ts: ts, tm: tm, width: width, height: height, rng: randx.NewSource(seed)}

	for y := 1; y <= ih; y++ {
		for x := 1; x <= iw; x++ {
			c := tilemap.Cell{X: x, Y: y}
			isBorder := x == 1 || y == 1 || x == iw || y == ih
			t, _ := tm.At(c)
			if isBorder {
				*t = tilemap.NewBufferTile()
				continue
			}
			pub := s.fromInternal(c)
			t.EnterSuperposition(s.candidateIDs(pub))
		}
	}
	return s
}

// candidateIDs lists every tile id that could legally be placed at public
// cell pub: every single tile, plus every large tile whose footprint (using
// pub as its collapse point) stays fully within the public grid.
func (s *Solver) candidateIDs(pub tilemap.Cell) []tileset.TileID {
	var ids []tileset.TileID
	for _, id := range s.ts.AllIDs() {
		cfg, ok := s.ts.Get(id)
		if !ok {
			continue
		}
		if cfg.Kind == tileset.KindSingle {
			ids = append(ids, id)
			continue
		}
		if s.largeFootprintFits(pub, cfg) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Solver) largeFootprintFits(anchorPub tilemap.Cell, cfg tileset.Config) bool {
	acol, arow := cfg.SubgridPos(cfg.AnchorIndex)
	topLeftX := anchorPub.X - acol
	topLeftY := anchorPub.Y - arow
	for i := 0; i < cfg.Width*cfg.Height; i++ {
		col, row := cfg.SubgridPos(i)
		x, y := topLeftX+col, topLeftY+row
		if x < 1 || x > s.width || y < 1 || y > s.height {
			return false
		}
	}
	return true
}

// Seed places a Fixed cell directly, used for loading a savegame or
// re-applying user placements before solving the rest of the grid.
func (s *Solver) Seed(pub tilemap.Cell, id tileset.TileID) []fsm.Action {
	c := s.toInternal(pub)
	t, ok := s.tm.At(c)
	if !ok {
		return nil
	}
	actions := t.Fix(id, nil)
	s.enqueueNeighbors(c)
	s.ChangedCells = append(s.ChangedCells, pub)
	return actions
}

// Collapse collapses a single user-seeded Superposition cell (spec §4.1,
// "user-exposed for seeded placement"). No-op if the cell isn't in
// Superposition or has no remaining options.
func (s *Solver) Collapse(pub tilemap.Cell) {
	if s.state != StateRunning {
		return
	}
	c := s.toInternal(pub)
	s.collapseInternal(c)
}

func (s *Solver) collapseInternal(c tilemap.Cell) {
	t, ok := s.tm.At(c)
	if !ok || t.Kind.Tag != tilemap.KindSuperposition || len(t.Kind.Options) == 0 {
		return
	}
	weights := make([]float64, len(t.Kind.Options))
	for i, id := range t.Kind.Options {
		weights[i] = s.ts.WeightOf(id)
	}
	idx := s.rng.WeightedChoice(weights)
	if idx < 0 {
		s.contradiction(c)
		return
	}
	id := t.Kind.Options[idx]
	s.pushSnapshot(c, id)

	if tileset.IsLarge(id) {
		if !s.tryFixLarge(c, id) {
			s.contradiction(c)
			return
		}
	} else {
		actions := t.Fix(id, nil)
		s.PendingActions = append(s.PendingActions, actions...)
		s.ChangedCells = append(s.ChangedCells, s.fromInternal(c))
		s.enqueueNeighbors(c)
	}
	s.currentCell = s.fromInternal(c)
}

// tryFixLarge implements spec §4.1 step 4: atomic footprint verification
// and commit (the spec's Open Question is resolved in favor of this atomic,
// reject-on-conflict strategy, see DESIGN.md).
func (s *Solver) tryFixLarge(anchor tilemap.Cell, id tileset.TileID) bool {
	cfg, ok := s.ts.Get(id)
	if !ok {
		return false
	}
	acol, arow := cfg.SubgridPos(cfg.AnchorIndex)
	topLeftX := anchor.X - acol
	topLeftY := anchor.Y - arow

	type member struct {
		cell tilemap.Cell
		idx  int
	}
	var members []member
	for i := 0; i < cfg.Width*cfg.Height; i++ {
		col, row := cfg.SubgridPos(i)
		cell := tilemap.Cell{X: topLeftX + col, Y: topLeftY + row}
		t, ok := s.tm.At(cell)
		if !ok {
			return false
		}
		switch t.Kind.Tag {
		case tilemap.KindSuperposition:
			if !containsID(t.Kind.Options, id) {
				return false
			}
		case tilemap.KindFixed:
			if t.Kind.ID != id || t.Kind.Parent == nil || t.Kind.Parent.SubgridIndex != i {
				return false
			}
			continue // already correctly fixed (idempotent re-seed)
		default:
			return false
		}
		members = append(members, member{cell: cell, idx: i})
	}

	for _, m := range members {
		t, _ := s.tm.At(m.cell)
		actions := t.Fix(id, &tilemap.ParentRef{LargeID: id, SubgridIndex: m.idx})
		s.PendingActions = append(s.PendingActions, actions...)
		s.ChangedCells = append(s.ChangedCells, s.fromInternal(m.cell))
		s.enqueueNeighbors(m.cell)
	}
	return true
}

func containsID(ids []tileset.TileID, target tileset.TileID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func (s *Solver) enqueueNeighbors(c tilemap.Cell) {
	for _, d := range geom.Directions {
		if n, ok := c.Neighbor(d, s.tm.Width, s.tm.Height); ok {
			if t, _ := s.tm.At(n); t.Kind.Tag == tilemap.KindSuperposition {
				s.queue = append(s.queue, n)
			}
		}
	}
}

// Step performs one unit of work (spec §4.1).
func (s *Solver) Step(stop StopCondition) {
	if s.state != StateRunning {
		return
	}
	if len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]
		changed, contradiction := s.refilter(c)
		if contradiction {
			s.contradiction(c)
			return
		}
		if changed {
			s.enqueueNeighbors(c)
			s.ChangedCells = append(s.ChangedCells, s.fromInternal(c))
		}
		return
	}

	cell, found := s.selectMinEntropyCell()
	if !found {
		s.state = StateSolved
		return
	}
	if stop == StopAtEmptySteps {
		return
	}
	s.collapseInternal(cell)
}

// refilter recomputes a Superposition cell's options against its currently
// Fixed neighbors. Large-tile options are only verified atomically at
// collapse time (tryFixLarge); here they're treated as compatible unless the
// cell itself isn't the option's anchor point, which Initialize already
// guarantees by construction.
func (s *Solver) refilter(c tilemap.Cell) (changed, contradiction bool) {
	t, ok := s.tm.At(c)
	if !ok || t.Kind.Tag != tilemap.KindSuperposition {
		return false, false
	}
	kept := make([]tileset.TileID, 0, len(t.Kind.Options))
	for _, id := range t.Kind.Options {
		if s.compatible(c, id) {
			kept = append(kept, id)
		}
	}
	changed = len(kept) != len(t.Kind.Options)
	t.Kind.Options = kept
	return changed, len(kept) == 0
}

func (s *Solver) compatible(c tilemap.Cell, id tileset.TileID) bool {
	cfg, ok := s.ts.Get(id)
	if !ok || cfg.Kind != tileset.KindSingle {
		return true
	}
	for _, d := range geom.Directions {
		n, inBounds := c.Neighbor(d, s.tm.Width, s.tm.Height)
		if !inBounds {
			continue
		}
		nt, _ := s.tm.At(n)
		if nt.Kind.Tag == tilemap.KindBuffer || nt.Kind.Tag != tilemap.KindFixed {
			continue
		}
		theirSockets, ok := nt.Sockets(s.ts)
		if !ok {
			continue
		}
		if !tileset.Pairs(cfg.Sockets.Edge(d), theirSockets.Edge(d.Opposite())) {
			return false
		}
	}
	return true
}

func (s *Solver) pushSnapshot(c tilemap.Cell, triedID tileset.TileID) {
	if len(s.snapshots) >= maxSnapshots {
		// Drop the oldest snapshot rather than grow unbounded; spec only
		// requires the stack be bounded, not infinite.
		s.snapshots = s.snapshots[1:]
	}
	s.snapshots = append(s.snapshots, snapshot{
		tiles:       append([]tilemap.Tile(nil), s.tm.Tiles...),
		queue:       append([]tilemap.Cell(nil), s.queue...),
		rng:         s.rng.Snapshot(),
		cell:        c,
		triedOption: triedID,
	})
}

func (s *Solver) contradiction(at tilemap.Cell) {
	for len(s.snapshots) > 0 {
		top := s.snapshots[len(s.snapshots)-1]
		s.snapshots = s.snapshots[:len(s.snapshots)-1]

		s.tm.Tiles = append([]tilemap.Tile(nil), top.tiles...)
		s.queue = append([]tilemap.Cell(nil), top.queue...)
		s.rng.Restore(top.rng)

		t, ok := s.tm.At(top.cell)
		if !ok {
			continue
		}
		t.Kind.Options = removeID(t.Kind.Options, top.triedOption)
		if len(t.Kind.Options) == 0 {
			continue // still contradictory from here, keep unwinding
		}
		return
	}
	s.state = StateFailed
	s.failReason = "backtracking stack underflow"
	s.lastCell = s.fromInternal(at)
}

// removeID returns a fresh slice excluding target. It must not mutate ids in
// place: the same backing array can be aliased by multiple entries on the
// snapshot stack, and in-place compaction would corrupt snapshots other than
// the one being popped.
func removeID(ids []tileset.TileID, target tileset.TileID) []tileset.TileID {
	out := make([]tileset.TileID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// selectMinEntropyCell implements spec §4.1 step 1: minimum-entropy
// selection with RNG tie-break over a deterministically-ordered candidate
// set (so replays with the same seed pick the same cell).
func (s *Solver) selectMinEntropyCell() (tilemap.Cell, bool) {
	minCount := -1
	var candidates []tilemap.Cell
	for y := 1; y <= s.tm.Height; y++ {
		for x := 1; x <= s.tm.Width; x++ {
			c := tilemap.Cell{X: x, Y: y}
			t, _ := s.tm.At(c)
			if t.Kind.Tag != tilemap.KindSuperposition {
				continue
			}
			n := len(t.Kind.Options)
			if minCount == -1 || n < minCount {
				minCount = n
				candidates = candidates[:0]
			}
			if n == minCount {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return tilemap.Cell{}, false
	}
	idx := s.rng.IntN(len(candidates))
	return candidates[idx], true
}

// StepN invokes Step up to n times or until the solver stops.
func (s *Solver) StepN(stop StopCondition, n int) {
	for i := 0; i < n && !s.Stopped(); i++ {
		s.Step(stop)
	}
}

// Solve repeatedly steps until the solver is Solved or Failed.
func Solve(ts tileset.Tileset, width, height int, seed uint64) *Solver {
	s := Initialize(ts, width, height, seed)
	for !s.Stopped() {
		s.Step(StopAtSolved)
	}
	return s
}

func (s *Solver) Stopped() bool { return s.state != StateRunning }
func (s *Solver) Solved() bool  { return s.state == StateSolved }
func (s *Solver) Failed() bool  { return s.state == StateFailed }

// FailReason describes why a Failed solver stopped.
func (s *Solver) FailReason() string { return s.failReason }

// LastCell is the public cell the solver was working on when it failed.
func (s *Solver) LastCell() tilemap.Cell { return s.lastCell }

// CurrentCell is the public cell most recently collapsed, for introspection.
func (s *Solver) CurrentCell() tilemap.Cell { return s.currentCell }

// StateDebug renders a one-line summary of the solver's state.
func (s *Solver) StateDebug() string {
	return fmt.Sprintf("state=%d queue=%d snapshots=%d", s.state, len(s.queue), len(s.snapshots))
}

// ContextDebug renders the per-cell option counts, for small grids only.
func (s *Solver) ContextDebug() string {
	out := ""
	for y := 1; y <= s.tm.Height; y++ {
		for x := 1; x <= s.tm.Width; x++ {
			c := tilemap.Cell{X: x, Y: y}
			t, _ := s.tm.At(c)
			switch t.Kind.Tag {
			case tilemap.KindBuffer:
				out += " . "
			case tilemap.KindFixed:
				out += fmt.Sprintf("%2d ", t.Kind.ID)
			case tilemap.KindSuperposition:
				out += fmt.Sprintf("{%d}", len(t.Kind.Options))
			default:
				out += " ? "
			}
		}
		out += "\n"
	}
	return out
}

// ToTilemap materializes the solver's interior as the public tilemap (spec
// §4.1 ToTilemap).
func (s *Solver) ToTilemap() *tilemap.Tilemap {
	out := tilemap.New(s.width, s.height)
	for y := 1; y <= s.height; y++ {
		for x := 1; x <= s.width; x++ {
			pub := tilemap.Cell{X: x, Y: y}
			internal := s.toInternal(pub)
			src, _ := s.tm.At(internal)
			dst, _ := out.At(pub)
			*dst = *src
		}
	}
	return out
}

// DrainActions returns and clears accumulated side-effect actions.
func (s *Solver) DrainActions() []fsm.Action {
	a := s.PendingActions
	s.PendingActions = nil
	return a
}

// DrainChangedCells returns and clears the set of cells modified since the
// last drain.
func (s *Solver) DrainChangedCells() []tilemap.Cell {
	c := s.ChangedCells
	s.ChangedCells = nil
	return c
}
