package network

import (
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
	"github.com/klemola/liikennematto-sub004/internal/trafficlight"
)

// axis distinguishes the two arm-pairs of a 4-way intersection, each driven
// by its own traffic light (spec §4.2 step 4).
type axis int

const (
	axisVertical   axis = iota // Up / Down
	axisHorizontal             // Left / Right
)

// lightKey derives the deterministic key under which a 4-way intersection's
// per-axis light is stored, independent of Graph's node-id namespace so the
// two id schemes can never collide.
func lightKey(width int, cell tilemap.Cell, ax axis) int {
	return cell.Index(width)*2 + int(ax)
}

// Build constructs the road-network graph from every Fixed road cell in tm,
// classifying each cell's arms by connection count (spec §4.2):
//
//   - 1 connection:  a deadend, with paired entry/exit nodes
//   - 2 connections: a through lane, uncontrolled
//   - 3 connections: a T-intersection; the lone non-collinear arm yields,
//     the through pair does not
//   - 4 connections: a full intersection with a traffic light per axis,
//     the two axes always in opposite phase
//
// previousLights carries over live trafficlight.Light FSMs from the prior
// build so an unchanged intersection doesn't reset its signal phase
// mid-cycle; the returned map is what the next rebuild should pass back in.
func Build(tm *tilemap.Tilemap, ts tileset.Tileset, previousLights map[int]*trafficlight.Light) (*Graph, map[int]*trafficlight.Light) {
	g := newGraph(tm.Width)
	newLights := map[int]*trafficlight.Light{}

	for _, c := range tm.Cells() {
		tile, ok := tm.At(c)
		if !ok || tile.Kind.Tag != tilemap.KindFixed || !tileset.IsRoad(tile.Kind.ID) {
			continue
		}
		buildCell(g, tm, c, tile.Kind.ID, previousLights, newLights)
	}

	// Cross-cell linking happens once every cell's own nodes exist, so the
	// neighbor lookups below always find their target.
	for _, c := range tm.Cells() {
		tile, ok := tm.At(c)
		if !ok || tile.Kind.Tag != tilemap.KindFixed || !tileset.IsRoad(tile.Kind.ID) {
			continue
		}
		linkCrossCell(g, tm, c, tile.Kind.ID)
	}

	for c, anchor := range tm.Anchors {
		linkLot(g, tm, c, anchor)
	}

	return g, newLights
}

func openDirections(id tileset.TileID) []geom.Direction {
	var out []geom.Direction
	for _, d := range geom.Directions {
		if tileset.ConnectsTo(id, d) {
			out = append(out, d)
		}
	}
	return out
}

// armPosition returns the world point at the midpoint of cell c's edge
// facing d, where that cell's lane-connector or deadend node for d lives.
func armPosition(tm *tilemap.Tilemap, c tilemap.Cell, d geom.Direction) geom.Point {
	box := c.BoundingBox(tm.Height)
	switch d {
	case geom.Up:
		return geom.Point{X: box.Center().X, Y: box.Max.Y}
	case geom.Down:
		return geom.Point{X: box.Center().X, Y: box.Min.Y}
	case geom.Left:
		return geom.Point{X: box.Min.X, Y: box.Center().Y}
	default: // Right
		return geom.Point{X: box.Max.X, Y: box.Center().Y}
	}
}

func buildCell(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, id tileset.TileID, previousLights, newLights map[int]*trafficlight.Light) {
	dirs := openDirections(id)
	switch len(dirs) {
	case 0:
		return
	case 1:
		buildDeadend(g, tm, c, dirs[0])
	case 2:
		buildThrough(g, tm, c, dirs)
	case 3:
		buildTIntersection(g, tm, c, dirs)
	default:
		buildFourWay(g, tm, c, dirs, previousLights, newLights)
	}
}

func buildDeadend(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, d geom.Direction) {
	pos := armPosition(tm, c, d)
	entry := Node{ID: NodeID(tm.Width, c, DeadendEntry, d, 0), Kind: DeadendEntry, Position: pos, Facing: d, Cell: c}
	exit := Node{ID: NodeID(tm.Width, c, DeadendExit, d, 0), Kind: DeadendExit, Position: pos, Facing: d, Cell: c}
	g.addNode(entry)
	g.addNode(exit)
	g.addEdge(entry.ID, exit.ID)
}

func buildThrough(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, dirs []geom.Direction) {
	ids := make([]int, len(dirs))
	for i, d := range dirs {
		n := Node{
			ID:       NodeID(tm.Width, c, LaneConnector, d, 0),
			Kind:     LaneConnector,
			Position: armPosition(tm, c, d),
			Facing:   d,
			Cell:     c,
			Control:  Control{Kind: ControlNone},
		}
		g.addNode(n)
		ids[i] = n.ID
	}
	for i := range ids {
		for j := range ids {
			if i != j {
				g.addEdge(ids[i], ids[j])
			}
		}
	}
}

// tIntersectionStem returns the one direction among a 3-way intersection's
// open arms that is not part of the collinear through pair (spec §4.2
// step 4: "the arm facing the stem yields, the through pair does not").
func tIntersectionStem(dirs []geom.Direction) geom.Direction {
	for _, d := range dirs {
		opposite := d.Opposite()
		found := false
		for _, other := range dirs {
			if other == opposite {
				found = true
				break
			}
		}
		if !found {
			return d
		}
	}
	return dirs[0]
}

func buildTIntersection(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, dirs []geom.Direction) {
	stem := tIntersectionStem(dirs)
	ids := make([]int, len(dirs))
	for i, d := range dirs {
		ctrl := Control{Kind: ControlNone}
		if d == stem {
			ctrl = Control{Kind: ControlYield}
		}
		n := Node{
			ID:       NodeID(tm.Width, c, LaneConnector, d, 0),
			Kind:     LaneConnector,
			Position: armPosition(tm, c, d),
			Facing:   d,
			Cell:     c,
			Control:  ctrl,
		}
		g.addNode(n)
		ids[i] = n.ID
	}
	for i := range ids {
		for j := range ids {
			if i != j {
				g.addEdge(ids[i], ids[j])
			}
		}
	}
}

func axisOf(d geom.Direction) axis {
	if d == geom.Up || d == geom.Down {
		return axisVertical
	}
	return axisHorizontal
}

func buildFourWay(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, dirs []geom.Direction, previousLights, newLights map[int]*trafficlight.Light) {
	lights := map[axis]*trafficlight.Light{}
	for _, ax := range []axis{axisVertical, axisHorizontal} {
		key := lightKey(tm.Width, c, ax)
		if existing, ok := previousLights[key]; ok {
			lights[ax] = existing
		} else {
			facing := geom.Up
			start := trafficlight.Red
			if ax == axisHorizontal {
				facing = geom.Left
				start = trafficlight.Green // opposite phase from the vertical axis (spec §4.2 step 4); spec §8 scenario 2 pins the horizontal pair Yellow at 12s, so horizontal starts Green
			}
			lights[ax] = trafficlight.NewLight(key, c.Center(tm.Height), facing, start)
		}
		newLights[key] = lights[ax]
	}

	ids := make([]int, len(dirs))
	for i, d := range dirs {
		light := lights[axisOf(d)]
		n := Node{
			ID:       NodeID(tm.Width, c, LaneConnector, d, 0),
			Kind:     LaneConnector,
			Position: armPosition(tm, c, d),
			Facing:   d,
			Cell:     c,
			Control:  Control{Kind: ControlSignal, SignalID: light.ID},
		}
		g.addNode(n)
		ids[i] = n.ID
	}
	for i := range ids {
		for j := range ids {
			if i != j {
				g.addEdge(ids[i], ids[j])
			}
		}
	}
}

// linkCrossCell wires cell c's outward arms to the matching inward arm of
// its neighbor across each open edge.
func linkCrossCell(g *Graph, tm *tilemap.Tilemap, c tilemap.Cell, id tileset.TileID) {
	for _, d := range openDirections(id) {
		nc, ok := c.Neighbor(d, tm.Width, tm.Height)
		if !ok {
			continue
		}
		neighborTile, ok := tm.At(nc)
		if !ok || neighborTile.Kind.Tag != tilemap.KindFixed || !tileset.IsRoad(neighborTile.Kind.ID) {
			continue
		}
		back := d.Opposite()
		if !tileset.ConnectsTo(neighborTile.Kind.ID, back) {
			continue // sockets disagree; SocketsConsistent would already flag this upstream
		}
		fromID := exitNodeID(tm.Width, c, d, id)
		toID := entryNodeID(tm.Width, nc, back, neighborTile.Kind.ID)
		g.addEdge(fromID, toID)
	}
}

// exitNodeID is the node a car occupies while leaving cell c via edge d,
// accounting for c being a deadend (which has a dedicated exit node).
func exitNodeID(width int, c tilemap.Cell, d geom.Direction, id tileset.TileID) int {
	if tileset.ConnectionCount(id) == 1 {
		return NodeID(width, c, DeadendExit, d, 0)
	}
	return NodeID(width, c, LaneConnector, d, 0)
}

// entryNodeID is the node a car occupies while entering cell c via edge d,
// accounting for c being a deadend (which has a dedicated entry node).
func entryNodeID(width int, c tilemap.Cell, d geom.Direction, id tileset.TileID) int {
	if tileset.ConnectionCount(id) == 1 {
		return NodeID(width, c, DeadendEntry, d, 0)
	}
	return NodeID(width, c, LaneConnector, d, 0)
}

// linkLot wires a lot's driveway to every lane connector in its anchor
// cell: any through lane can peel off into the lot, and the lot's exit can
// merge back into any of them (spec §4.2 step 7, §3 "Anchor").
func linkLot(g *Graph, tm *tilemap.Tilemap, roadCell tilemap.Cell, anchor tilemap.Anchor) {
	tile, ok := tm.At(roadCell)
	if !ok || tile.Kind.Tag != tilemap.KindFixed || !tileset.IsRoad(tile.Kind.ID) {
		return
	}
	entryPos := armPosition(tm, roadCell, anchor.Direction)
	entry := Node{ID: NodeID(tm.Width, roadCell, LotEntry, anchor.Direction, anchor.LotID), Kind: LotEntry, LotID: anchor.LotID, Position: entryPos, Facing: anchor.Direction, Cell: roadCell}
	exit := Node{ID: NodeID(tm.Width, roadCell, LotExit, anchor.Direction, anchor.LotID), Kind: LotExit, LotID: anchor.LotID, Position: entryPos, Facing: anchor.Direction, Cell: roadCell}
	g.addNode(entry)
	g.addNode(exit)

	for _, d := range openDirections(tile.Kind.ID) {
		g.addEdge(entryNodeID(tm.Width, roadCell, d, tile.Kind.ID), entry.ID)
		g.addEdge(exit.ID, exitNodeID(tm.Width, roadCell, d, tile.Kind.ID))
	}
}
