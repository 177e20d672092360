package world

import (
	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/route"
)

// SpawnResident places a car at a free parking spot of lotID and returns it
// already Parked (spec §4.3 "SpawnResident"). The car isn't routed yet;
// RouteResidentOut does that once the world decides it should start driving.
func (w *World) SpawnResident(make_ car.Make, lotID int) (*car.Car, bool) {
	l, ok := w.Lots[lotID]
	if !ok {
		return nil, false
	}
	spot := l.FreeSpot()
	if spot == nil {
		return nil, false
	}
	c := w.AddCar(func(id int) *car.Car {
		spot.TryReserve(id)
		return car.NewParked(id, make_, spot.Position, spot.Orientation, lotID, spot)
	})
	log.WithField("car", c.ID).WithField("lot", lotID).Debug("resident spawned")
	return c, true
}

// RouteResidentOut routes a Parked resident out of its lot to a random
// road-network lane connector, which is what flips the car's FSM from
// Parked to Unparking (spec §4.3 transitions).
func (w *World) RouteResidentOut(c *car.Car) bool {
	if w.Graph == nil || c.ParkingSpot == nil {
		return false
	}
	var entry *network.Node
	for _, n := range w.Graph.NodesByKind(network.LotEntry) {
		if n.LotID == c.HomeLotID {
			entry = n
			break
		}
	}
	if entry == nil {
		return false
	}
	lanes := w.Graph.NodesByKind(network.LaneConnector)
	if len(lanes) == 0 {
		return false
	}
	dest := lanes[w.RNG.IntN(len(lanes))]
	outPath, ok := route.FindPath(w.Graph, entry.ID, dest.ID)
	if !ok {
		return false
	}

	spotSplines := make([]route.SplineMeta, len(c.ParkingSpot.PathFromLotEntry))
	spotNodeIDs := make([]int, len(spotSplines))
	for i, s := range c.ParkingSpot.PathFromLotEntry {
		spotSplines[i] = route.NewSplineMeta(s)
		spotNodeIDs[i] = entry.ID
	}

	allSplines := append(spotSplines, outPath.Splines...)
	allNodeIDs := append(spotNodeIDs, outPath.NodeIDs...)
	path := route.NewPath(allSplines)
	path.NodeIDs = allNodeIDs

	c.Route = route.NewRouted(entry.ID, dest.ID, entry.Position, path)
	return true
}

// SpawnTestCar places a car at a random LaneConnector and routes it via A*
// to another random LaneConnector (spec §4.3 "SpawnTestCar").
func (w *World) SpawnTestCar(make_ car.Make) (*car.Car, bool) {
	if w.Graph == nil {
		return nil, false
	}
	lanes := w.Graph.NodesByKind(network.LaneConnector)
	if len(lanes) < 2 {
		return nil, false
	}
	start := lanes[w.RNG.IntN(len(lanes))]
	var end *network.Node
	for attempts := 0; attempts < 8; attempts++ {
		candidate := lanes[w.RNG.IntN(len(lanes))]
		if candidate.ID != start.ID {
			end = candidate
			break
		}
	}
	if end == nil {
		return nil, false
	}
	path, ok := route.FindPath(w.Graph, start.ID, end.ID)
	if !ok {
		return nil, false
	}
	orientation := start.Facing.Vec().Angle()
	c := w.AddCar(func(id int) *car.Car {
		return car.NewDriving(id, make_, start.Position, orientation, route.NewRouted(start.ID, end.ID, start.Position, path))
	})
	log.WithField("car", c.ID).Debug("test car spawned")
	return c, true
}

// RouteFromNode re-routes c via A* starting from fromNodeID to a random
// lane connector (spec §6 "CreateRouteFromNode" world event). This is the
// rerouting half of spec §9's "rebuilding the road network invalidates
// in-flight paths, which rerouting resolves": RebuildGraph drops a car's
// Route to Unrouted when its route's end node no longer exists, and the world
// event queue schedules CreateRouteFromNode against the car's last-known
// node to put it back on a valid path. Falls back to the surviving node (of
// any kind) nearest c's current position, among those within 64 m of c, if
// fromNodeID itself didn't survive the rebuild.
func (w *World) RouteFromNode(c *car.Car, fromNodeID int) bool {
	if w.Graph == nil {
		return false
	}
	start, ok := w.Graph.Node(fromNodeID)
	if !ok {
		nearby := w.NearbyNodes(c.BoundingBox(), 64)
		if len(nearby) == 0 {
			return false
		}
		start = nearby[0]
		for _, n := range nearby {
			if n.Position.DistanceTo(c.Position) < start.Position.DistanceTo(c.Position) {
				start = n
			}
		}
	}
	lanes := w.Graph.NodesByKind(network.LaneConnector)
	if len(lanes) == 0 {
		return false
	}
	var end *network.Node
	for attempts := 0; attempts < 8; attempts++ {
		candidate := lanes[w.RNG.IntN(len(lanes))]
		if candidate.ID != start.ID {
			end = candidate
			break
		}
	}
	if end == nil {
		return false
	}
	path, ok := route.FindPath(w.Graph, start.ID, end.ID)
	if !ok {
		return false
	}
	c.Route = route.NewRouted(start.ID, end.ID, start.Position, path)
	return true
}

// BeginParkResident finds a free spot in lotID for c and routes it there,
// the event-queue-driven half of the parking reservation protocol (spec
// §4.3 "To park"). Returns false if no spot is free, leaving the car to
// keep waiting (NoParkingSpot / WaitingForParkingSpot).
func (w *World) BeginParkResident(c *car.Car, lotID int) bool {
	l, ok := w.Lots[lotID]
	if !ok {
		return false
	}
	spot := l.FreeSpot()
	if spot == nil {
		return false
	}
	if !spot.TryReserve(c.ID) {
		return false
	}
	path := route.NewPath(splineMetas(spot.PathFromLotEntry))
	c.Route = route.NewArriving(route.DestinationLotParkingSpot, path)
	c.ParkingSpot = spot
	return true
}

// splineMetas wraps plain geometry splines (e.g. a parking spot's lot-entry
// approach) as route.SplineMeta, computing arc length once up front.
func splineMetas(splines []geom.CubicSpline) []route.SplineMeta {
	out := make([]route.SplineMeta, len(splines))
	for i, s := range splines {
		out[i] = route.NewSplineMeta(s)
	}
	return out
}
