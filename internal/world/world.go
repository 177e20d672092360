// Package world aggregates simulation state (tilemap, road network, cars,
// lots, traffic lights) plus the event queue and spatial indices that tie
// them together each tick (spec §3 "World").
package world

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/lot"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/randx"
	"github.com/klemola/liikennematto-sub004/internal/route"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
	"github.com/klemola/liikennematto-sub004/internal/trafficlight"
)

var log = logrus.WithField("subsystem", "world")

// World is the aggregate simulation state threaded through every tick.
type World struct {
	Tilemap *tilemap.Tilemap
	Tileset tileset.Tileset
	Graph   *network.Graph
	Lights  map[int]*trafficlight.Light
	Lots    map[int]*lot.Lot
	Cars    map[int]*car.Car

	nextCarID int
	RNG       *randx.Source
	Queue     EventQueue
	Pending   PendingTilemapChange

	carIndex  *geom.QuadTree[*car.Car]
	lotIndex  *geom.QuadTree[*lot.Lot]
	nodeIndex *geom.QuadTree[*network.Node]
}

// New builds an empty world over tm/ts, seeded with seed.
func New(tm *tilemap.Tilemap, ts tileset.Tileset, seed uint64) *World {
	bounds := tm.BoundingBox()
	return &World{
		Tilemap:   tm,
		Tileset:   ts,
		Lights:    map[int]*trafficlight.Light{},
		Lots:      map[int]*lot.Lot{},
		Cars:      map[int]*car.Car{},
		RNG:       randx.NewSource(seed),
		carIndex:  geom.NewQuadTree[*car.Car](bounds),
		lotIndex:  geom.NewQuadTree[*lot.Lot](bounds),
		nodeIndex: geom.NewQuadTree[*network.Node](bounds),
	}
}

// RebuildGraph reconstructs the road network from the current tilemap,
// carrying over live traffic-light FSMs for intersections that survive
// unchanged (spec §4.2, §9 "graph rebuild vs incremental").
func (w *World) RebuildGraph() {
	g, lights := network.Build(w.Tilemap, w.Tileset, w.Lights)
	w.Graph = g
	w.Lights = lights
	log.WithField("nodes", len(g.Nodes)).Debug("road network rebuilt")

	// A rebuild can drop the node a car's in-flight route was steering
	// toward (spec §9 "rebuilding the road network invalidates in-flight
	// paths, which rerouting resolves"). Schedule CreateRouteFromNode from
	// the car's last-known start node so the event queue re-derives a
	// fresh A* route on the next drain rather than leaving the car stuck
	// following a path to a node that no longer exists.
	for _, c := range w.Cars {
		if c.Route.Kind != route.Routed {
			continue
		}
		if _, ok := g.Node(c.Route.EndNode); ok {
			continue
		}
		fromNode := c.Route.StartNode
		c.Route = route.NewUnrouted()
		w.Queue.Enqueue(Event{
			Kind:      EventCreateRouteFromNode,
			TriggerAt: 0,
			Payload:   RouteFromNodePayload{CarID: c.ID, FromNodeID: fromNode},
		})
	}
}

// RouteFromNodePayload is the EventCreateRouteFromNode event's Payload
// shape: which car to reroute, and the road-network node its invalidated
// path was last anchored to (spec §6 "CreateRouteFromNode").
type RouteFromNodePayload struct {
	CarID      int
	FromNodeID int
}

// RefreshIndices rebuilds all three spatial indices from the live
// collections (spec §4.5: rebuilt wholesale each tick).
func (w *World) RefreshIndices() {
	w.carIndex.Build(lo.Values(w.Cars))
	w.lotIndex.Build(lo.Values(w.Lots))
	if w.Graph != nil {
		nodes := make([]*network.Node, 0, len(w.Graph.Nodes))
		for _, id := range w.Graph.SortedNodeIDs() {
			n, _ := w.Graph.Node(id)
			nodes = append(nodes, n)
		}
		w.nodeIndex.Build(nodes)
	}
}

// NearbyCars returns cars within radius of query's bounding box.
func (w *World) NearbyCars(query geom.Box, radius float64) []*car.Car {
	if w.carIndex == nil {
		return nil
	}
	return w.carIndex.NeighborsWithin(query, radius)
}

// NearbyLots returns lots within radius of query's bounding box.
func (w *World) NearbyLots(query geom.Box, radius float64) []*lot.Lot {
	if w.lotIndex == nil {
		return nil
	}
	return w.lotIndex.NeighborsWithin(query, radius)
}

// NearbyNodes returns road-network nodes within radius of query.
func (w *World) NearbyNodes(query geom.Box, radius float64) []*network.Node {
	if w.nodeIndex == nil {
		return nil
	}
	return w.nodeIndex.NeighborsWithin(query, radius)
}

// CarsInState returns every car whose FSM is currently in the named state,
// using samber/lo's functional filter rather than a hand-rolled loop,
// exactly the kind of slice-filtering helper agentsociety-sim-oss reaches
// for throughout its simulation layer.
func (w *World) CarsInState(state string) []*car.Car {
	return lo.Filter(lo.Values(w.Cars), func(c *car.Car, _ int) bool {
		return c.State() == state
	})
}

// SpotsByLot groups every lot's parking spots under its lot id.
func (w *World) SpotsByLot() map[int][]*lot.ParkingSpot {
	return lo.MapValues(w.Lots, func(l *lot.Lot, _ int) []*lot.ParkingSpot {
		return l.ParkingSpots
	})
}

// AddCar registers a car under a freshly allocated id and returns it.
func (w *World) AddCar(build func(id int) *car.Car) *car.Car {
	w.nextCarID++
	c := build(w.nextCarID)
	w.Cars[c.ID] = c
	return c
}

// RemoveCar drops a car from the world collection (spec §3 "destroyed on
// despawn-completion").
func (w *World) RemoveCar(id int) {
	delete(w.Cars, id)
}

// RemoveLot drops a lot and force-despawns every car still referencing it
// as home or holding one of its spots (spec §3 "cascades to despawn
// parked/homed cars").
func (w *World) RemoveLot(id int) {
	l, ok := w.Lots[id]
	if !ok {
		return
	}
	for _, c := range w.Cars {
		if c.HomeLotID != id {
			continue
		}
		c.ForceDespawning()
	}
	for _, s := range l.ParkingSpots {
		s.ForceRelease()
	}
	delete(w.Lots, id)
}
