// Package car implements the per-car state machine, steering and physics
// integration that drives vehicles along their routes (spec §4.3).
package car

import (
	"math"

	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/lot"
	"github.com/klemola/liikennematto-sub004/internal/route"
)

// Car is one simulated vehicle (spec §3 "Car").
type Car struct {
	ID          int
	Make        Make
	fsmM        *fsm.Machine[Context]
	Position    geom.Point
	Orientation float64 // radians
	Velocity    float64
	AngularVelocity float64
	Shape       []geom.Point // body polygon placed at current frame
	Route       route.Route
	HomeLotID   int
	ParkingSpot *lot.ParkingSpot // reservation; nil unless Parked/Parking/Unparking
}

// NewParked places a car at rest, reserved to spot, in the Parked state.
func NewParked(id int, make_ Make, pos geom.Point, orientation float64, homeLotID int, spot *lot.ParkingSpot) *Car {
	c := &Car{ID: id, Make: make_, fsmM: NewParkedMachine(), Position: pos, Orientation: orientation, HomeLotID: homeLotID, ParkingSpot: spot}
	c.refreshShape()
	return c
}

// NewDriving places a car already in motion, in the Driving state (used by
// SpawnTestCar, spec §4.3).
func NewDriving(id int, make_ Make, pos geom.Point, orientation float64, r route.Route) *Car {
	c := &Car{ID: id, Make: make_, fsmM: NewDrivingMachine(), Position: pos, Orientation: orientation, Route: r}
	c.refreshShape()
	return c
}

// BoundingBox satisfies geom.Item for the world's car quadtree.
func (c *Car) BoundingBox() geom.Box {
	box := geom.Box{Min: c.Shape[0], Max: c.Shape[0]}
	for _, p := range c.Shape[1:] {
		box = box.Union(geom.Box{Min: p, Max: p})
	}
	return box
}

// State returns the car FSM's current state name.
func (c *Car) State() string { return StateName(c.fsmM) }

// StepFSM advances the car's state machine with the given tick context.
func (c *Car) StepFSM(ctx Context, dt float64) []fsm.Action {
	return c.fsmM.Step(ctx, dt)
}

// ForceDespawning bypasses Tick for a direct/triggered transition (e.g. a
// bulldoze cascade forcing Despawning regardless of current state).
func (c *Car) ForceDespawning() {
	c.fsmM.Force(stateDespawning{})
}

// refreshShape recomputes the body polygon from Position/Orientation,
// keeping the invariant that shape always matches the current frame
// (spec §3 "Car" invariant).
func (c *Car) refreshShape() {
	cos, sin := math.Cos(c.Orientation), math.Sin(c.Orientation)
	local := c.Make.BodyPolygon()
	c.Shape = make([]geom.Point, len(local))
	for i, p := range local {
		rx := p.X*cos - p.Y*sin
		ry := p.X*sin + p.Y*cos
		c.Shape[i] = geom.Point{X: c.Position.X + rx, Y: c.Position.Y + ry}
	}
}

// SetPose updates position and orientation and refreshes the derived shape.
func (c *Car) SetPose(pos geom.Point, orientation float64) {
	c.Position = pos
	c.Orientation = orientation
	c.refreshShape()
}
