// Package network builds the directed road-network graph from a fixed
// tilemap: lane connectors, intersection entries/exits, deadend endpoints
// and lot entry/exit nodes, with per-arm traffic control (spec §4.2).
package network

import (
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
)

// NodeKind distinguishes the road-network node shapes (spec §3).
type NodeKind int

const (
	LaneConnector NodeKind = iota
	DeadendEntry
	DeadendExit
	LotEntry
	LotExit
)

func (k NodeKind) String() string {
	switch k {
	case LaneConnector:
		return "lane-connector"
	case DeadendEntry:
		return "deadend-entry"
	case DeadendExit:
		return "deadend-exit"
	case LotEntry:
		return "lot-entry"
	case LotExit:
		return "lot-exit"
	default:
		return "unknown"
	}
}

// ControlKind is the per-arm traffic-control rule.
type ControlKind int

const (
	ControlNone ControlKind = iota
	ControlYield
	ControlSignal
)

// Control tags a node with its traffic-control device, if any.
type Control struct {
	Kind     ControlKind
	SignalID int // valid when Kind == ControlSignal
}

// Node is one vertex of the road network.
type Node struct {
	ID       int
	Kind     NodeKind
	LotID    int // valid for LotEntry/LotExit
	Position geom.Point
	Facing   geom.Direction
	Cell     tilemap.Cell
	Control  Control
}

// BoundingBox lets Node serve as a geom.Item for the world's node quadtree.
func (n Node) BoundingBox() geom.Box {
	return geom.BoxFromCenter(n.Position, 0.5, 0.5)
}

// nodeKindCode is used by the deterministic id scheme in graph.go.
func nodeKindCode(k NodeKind) int {
	switch k {
	case LaneConnector:
		return 0
	case DeadendEntry:
		return 1
	case DeadendExit:
		return 2
	case LotEntry:
		return 3
	case LotExit:
		return 4
	default:
		return 9
	}
}
