// Package sim orchestrates one simulation tick: draining the event queue,
// resolving pending tilemap changes, advancing the WFC solver, stepping
// every FSM, and refreshing the spatial indices, in the fixed order spec §5
// requires.
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/fsm"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/route"
	"github.com/klemola/liikennematto-sub004/internal/rules"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
	"github.com/klemola/liikennematto-sub004/internal/wfc"
	"github.com/klemola/liikennematto-sub004/internal/world"
)

var log = logrus.WithField("subsystem", "sim")

// maxDeltaSeconds clamps the physics step so a stalled frame can't tunnel a
// fast car through a wall of traffic (spec §4.3 "Delta is clamped").
const maxDeltaSeconds = 0.1

// neighborQueryRadius bounds how far collisionAvoidance looks for other cars
// via the quadtree, proportional to a typical car's travel in one lookahead
// horizon.
const neighborQueryRadius = 20.0

// wfcStepsPerTick bounds how much solver work one sim tick performs, so a
// large contradiction-heavy solve doesn't stall a frame (spec §5
// "cooperatively chunked ... caller decides when to yield").
const wfcStepsPerTick = 64

// Sim holds the orchestrator's own simulated clock, separate from World's
// RNG/event-queue state, since "now" belongs to the scheduler driving ticks
// and not to the world it drives (spec §5 "one logical frame loop").
type Sim struct {
	Now float64
}

// New returns a Sim with its clock at zero.
func New() *Sim { return &Sim{} }

// Tick advances w by delta seconds (clamped), running solver an optional
// WFC solve, and returns the actions raised along the way (spec §5
// ordering: drain events, resolve tilemap change, advance WFC, update FSMs,
// refresh indices, emit actions).
func (s *Sim) Tick(w *world.World, ts tileset.Tileset, solver *wfc.Solver, delta float64) []fsm.Action {
	if delta > maxDeltaSeconds {
		delta = maxDeltaSeconds
	}
	if delta < 0 {
		delta = 0
	}
	s.Now += delta

	var actions []fsm.Action

	w.Queue.Drain(s.Now, func(e world.Event) bool {
		ready, evActions := s.processEvent(w, e)
		actions = append(actions, evActions...)
		return ready
	})

	if cells := w.Pending.Tick(delta); len(cells) > 0 {
		log.WithField("cells", len(cells)).Debug("tilemap change settled, rebuilding network")
		w.RebuildGraph()
	}

	if solver != nil && !solver.Stopped() {
		solver.StepN(wfc.StopAtEmptySteps, wfcStepsPerTick)
		actions = append(actions, solver.DrainActions()...)
		if changed := solver.DrainChangedCells(); len(changed) > 0 {
			w.Tilemap = solver.ToTilemap()
			w.Pending.Trigger(changed...)
		}
	}

	for _, light := range w.Lights {
		actions = append(actions, light.Step(delta)...)
	}

	bounds := w.Tilemap.BoundingBox()
	for _, c := range w.Cars {
		actions = append(actions, s.stepCar(w, c, delta)...)
		if rules.ShouldForceDespawn(c, bounds) {
			c.ForceDespawning()
		}
	}

	w.RefreshIndices()
	return actions
}

// stepCar evaluates traffic rules, integrates physics, and advances the
// car's FSM for one tick (spec §4.3 "Per-car step").
func (s *Sim) stepCar(w *world.World, c *car.Car, delta float64) []fsm.Action {
	in := rules.Inputs{
		Car:    c,
		Nearby: w.NearbyCars(c.BoundingBox(), neighborQueryRadius),
	}
	if nodeID, ok := c.Route.Path.NextNodeID(); ok {
		if n, found := w.Graph.Node(nodeID); found {
			in.NextNodeControl = n.Control
			in.RemainingApproachDistance = remainingDistanceTo(c)
			if n.Control.Kind == network.ControlSignal {
				if light, ok := w.Lights[n.Control.SignalID]; ok {
					in.LightColor = light.Color()
				}
			}
			if n.Control.Kind == network.ControlYield {
				in.YieldConflict = yieldConflict(w, n, c)
			}
		}
	}
	if c.Route.Path != nil {
		in.RemainingParkingDistance = remainingDistanceTo(c)
	}

	accel := rules.TargetAcceleration(in)
	c.Step(delta, accel)

	ctx := s.carContext(w, c)
	return c.StepFSM(ctx, delta)
}

// remainingDistanceTo is the arc length left on the car's current path.
func remainingDistanceTo(c *car.Car) float64 {
	p := c.Route.Path
	if p == nil || len(p.Splines) == 0 {
		return 0
	}
	remaining := p.Splines[p.Index].Length - p.Parameter
	for i := p.Index + 1; i < len(p.Splines); i++ {
		remaining += p.Splines[i].Length
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// yieldConflict reports whether another car near n (within half of
// neighborQueryRadius) is currently driving toward n itself. Cars
// approaching the intersection on its other arms are not considered.
func yieldConflict(w *world.World, n *network.Node, self *car.Car) bool {
	for _, other := range w.NearbyCars(n.BoundingBox(), neighborQueryRadius*0.5) {
		if other == self {
			continue
		}
		if other.Route.Path == nil {
			continue
		}
		if id, ok := other.Route.Path.NextNodeID(); ok && id == n.ID {
			return true
		}
	}
	return false
}

// carContext assembles the per-tick fields the car FSM needs. Besides the
// observable state, it sets the trigger bools: a driving car whose route has
// finished gets DespawnRequested if it has no home lot, and otherwise
// BeginParking or NoParkingSpot depending on whether BeginParkResident
// reserved a spot (which it does here, as a side effect); a car waiting for
// a parking spot gets BeginParking once a spot is reserved.
func (s *Sim) carContext(w *world.World, c *car.Car) car.Context {
	ctx := car.Context{
		Position:               c.Position,
		Velocity:               c.Velocity,
		RouteIsRouted:          c.Route.Kind == route.Routed,
		RouteFinished:          c.Route.Finished(),
		RouteStartNodePosition: c.Route.StartNodePosition,
	}
	isResident := c.HomeLotID != 0
	switch c.State() {
	case "driving":
		if !c.Route.Finished() {
			break
		}
		if !isResident {
			ctx.DespawnRequested = true
			break
		}
		if w.BeginParkResident(c, c.HomeLotID) {
			ctx.BeginParking = true
		} else {
			ctx.NoParkingSpot = true
		}
	case "waiting-for-parking-spot":
		if isResident && w.BeginParkResident(c, c.HomeLotID) {
			ctx.BeginParking = true
		}
	}
	return ctx
}

// processEvent dispatches one drained world event, returning whether it was
// ready to act on (if not, the queue retries it with backoff) plus any
// actions it raised.
func (s *Sim) processEvent(w *world.World, e world.Event) (bool, []fsm.Action) {
	switch e.Kind {
	case world.EventSpawnResident:
		p, ok := e.Payload.(residentSpawnPayload)
		if !ok {
			return true, nil
		}
		_, spawned := w.SpawnResident(p.Make, p.LotID)
		return spawned, nil

	case world.EventSpawnTestCar:
		p, ok := e.Payload.(testCarSpawnPayload)
		if !ok {
			return true, nil
		}
		_, spawned := w.SpawnTestCar(p.Make)
		return spawned, nil

	case world.EventCreateRouteFromParkingSpot:
		p, ok := e.Payload.(routeFromCarPayload)
		if !ok {
			return true, nil
		}
		c, found := w.Cars[p.CarID]
		if !found {
			return true, nil
		}
		return w.RouteResidentOut(c), nil

	case world.EventCreateRouteFromNode:
		p, ok := e.Payload.(world.RouteFromNodePayload)
		if !ok {
			return true, nil
		}
		c, found := w.Cars[p.CarID]
		if !found {
			return true, nil
		}
		return w.RouteFromNode(c, p.FromNodeID), nil

	case world.EventBeginCarParking:
		p, ok := e.Payload.(routeFromCarPayload)
		if !ok {
			return true, nil
		}
		c, found := w.Cars[p.CarID]
		if !found {
			return true, nil
		}
		return w.BeginParkResident(c, c.HomeLotID), nil

	default:
		return true, nil
	}
}

// residentSpawnPayload is the EventSpawnResident event's Payload shape.
type residentSpawnPayload struct {
	Make  car.Make
	LotID int
}

// testCarSpawnPayload is the EventSpawnTestCar event's Payload shape.
type testCarSpawnPayload struct {
	Make car.Make
}

// routeFromCarPayload is shared by the events that act on one existing car.
type routeFromCarPayload struct {
	CarID int
}

