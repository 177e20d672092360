package route

import "github.com/klemola/liikennematto-sub004/internal/geom"

// Kind is the Route tagged union's tag (spec §3 "Route").
type Kind int

const (
	Unrouted Kind = iota
	Routed
	ArrivingToDestination
)

// DestinationKind distinguishes the two things ArrivingToDestination can
// point at.
type DestinationKind int

const (
	DestinationLotParkingSpot DestinationKind = iota
	DestinationRoadNetworkNode
)

// Route is the car-facing routing state: nothing yet, a path between two
// road-network nodes, or a final approach to a parking spot or node.
type Route struct {
	Kind              Kind
	StartNodePosition geom.Point
	StartNode, EndNode int
	Destination       DestinationKind
	Path              *Path
}

// NewUnrouted is the zero route: no path, nothing to drive.
func NewUnrouted() Route { return Route{Kind: Unrouted} }

// NewRouted wraps a computed path between two graph nodes.
func NewRouted(startNode, endNode int, startPos geom.Point, path *Path) Route {
	return Route{Kind: Routed, StartNode: startNode, EndNode: endNode, StartNodePosition: startPos, Path: path}
}

// NewArriving marks the final approach to dest, reusing path (typically a
// lot's PathFromLotEntry or a short final-node hop).
func NewArriving(dest DestinationKind, path *Path) Route {
	return Route{Kind: ArrivingToDestination, Destination: dest, Path: path}
}

// Finished reports whether the route's path (if any) has reached its end.
func (r Route) Finished() bool {
	return r.Path != nil && r.Path.Finished
}
