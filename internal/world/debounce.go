package world

import "github.com/klemola/liikennematto-sub004/internal/tilemap"

// debounceFloor is the minimum time a pending tilemap change waits before
// firing, reset on every additional edit (spec §4.4 "750 ms").
const debounceFloor = 0.75

// PendingTilemapChange accumulates cell edits until the editor goes quiet
// for debounceFloor seconds, then fires once for the whole batch so a
// drag-to-place gesture doesn't trigger a WFC solve and road-network
// rebuild per cell.
type PendingTilemapChange struct {
	remaining float64
	cells     map[tilemap.Cell]bool
}

// Trigger records cells as changed and resets the debounce timer.
func (p *PendingTilemapChange) Trigger(cells ...tilemap.Cell) {
	if p.cells == nil {
		p.cells = map[tilemap.Cell]bool{}
	}
	for _, c := range cells {
		p.cells[c] = true
	}
	p.remaining = debounceFloor
}

// Tick advances the debounce timer by dt. If it was already pending and
// reaches zero, it returns the accumulated cell set and clears the slot;
// otherwise it returns nil.
func (p *PendingTilemapChange) Tick(dt float64) []tilemap.Cell {
	if len(p.cells) == 0 {
		return nil
	}
	p.remaining -= dt
	if p.remaining > 0 {
		return nil
	}
	out := make([]tilemap.Cell, 0, len(p.cells))
	for c := range p.cells {
		out = append(out, c)
	}
	p.cells = nil
	p.remaining = 0
	return out
}

// Pending reports whether a change is currently debouncing.
func (p *PendingTilemapChange) Pending() bool { return len(p.cells) > 0 }
