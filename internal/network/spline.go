package network

import "github.com/klemola/liikennematto-sub004/internal/geom"

// wideTangent is the control-point offset used for a straight-through
// movement; tightTangent is used for a turn, producing a visibly curved
// spline through an intersection (spec §4.3 "cubic Bezier route segments").
const (
	wideTangent  = geom.CellSize * 0.5
	tightTangent = geom.CellSize * 0.25
)

// EdgeSpline derives the cubic Bezier connecting two adjacent graph nodes.
// The tangent direction at each endpoint follows the node's Facing: within
// one cell a node serves as both an arrival point (facing inward, opposite
// its own cardinal direction) and a departure point (facing outward, its
// own direction); crossing a cell boundary preserves the direction of
// travel instead. Comparing the resulting directions picks a wide tangent
// for a straight movement and a tight one for a turn.
func EdgeSpline(g *Graph, fromID, toID int) (geom.CubicSpline, bool) {
	from, ok := g.Node(fromID)
	if !ok {
		return geom.CubicSpline{}, false
	}
	to, ok := g.Node(toID)
	if !ok {
		return geom.CubicSpline{}, false
	}

	var entryDir, exitDir geom.Vec
	if from.Cell == to.Cell {
		entryDir = from.Facing.Opposite().Vec()
		exitDir = to.Facing.Vec()
	} else {
		entryDir = from.Facing.Vec()
		exitDir = to.Facing.Opposite().Vec()
	}

	mag := tightTangent
	if geom.StraightTangent(entryDir, exitDir) {
		mag = wideTangent
	}

	p0 := from.Position
	p3 := to.Position
	p1 := p0.Add(entryDir.Scale(mag))
	p2 := p3.Sub(exitDir.Scale(mag))
	return geom.CubicSpline{P0: p0, P1: p1, P2: p2, P3: p3}, true
}
