// Package rules evaluates the traffic rules a car's target acceleration
// must respect each tick: collision anticipation, intersection priority,
// and parking approach (spec §4.3 step 3), plus the spawn/despawn policy
// that decides when a car leaves the simulation outright.
package rules

import (
	"math"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/route"
	"github.com/klemola/liikennematto-sub004/internal/trafficlight"
)

// collisionSafetyMargin and lookaheadHorizon tune how conservatively cars
// anticipate a collision (spec §4.3: "radius proportional to velocity +
// safety margin ... predict whether bounding boxes will overlap").
const (
	collisionSafetyMargin = 2.0
	lookaheadHorizon      = 1.5 // seconds
	parkingApproachGain   = 0.6 // 1/s: target speed per meter of remaining distance
)

// Inputs bundles the per-tick facts the rules need about one car's
// situation; World/sim assembles this from the quadtrees and road network.
type Inputs struct {
	Car                       *car.Car
	Nearby                    []*car.Car
	NextNodeControl           network.Control
	LightColor                trafficlight.Color
	YieldConflict             bool
	RemainingApproachDistance float64
	RemainingParkingDistance  float64
}

// TargetAcceleration folds every applicable rule into one acceleration,
// taking the most conservative (lowest) value any rule demands.
func TargetAcceleration(in Inputs) float64 {
	accel := in.Car.Make.MaxAcceleration

	if a, applies := collisionAvoidance(in.Car, in.Nearby); applies {
		accel = math.Min(accel, a)
	}
	if a, applies := intersectionControl(in); applies {
		accel = math.Min(accel, a)
	}
	if in.Car.Route.Kind == route.ArrivingToDestination && in.Car.Route.Destination == route.DestinationLotParkingSpot {
		accel = math.Min(accel, parkingApproach(in.RemainingParkingDistance, in.Car))
	}
	return accel
}

// collisionAvoidance brakes if any nearby car's predicted position would
// close to an unsafe gap within lookaheadHorizon, assuming both cars hold
// their current velocity.
func collisionAvoidance(c *car.Car, nearby []*car.Car) (float64, bool) {
	heading := geom.Vec{X: math.Cos(c.Orientation), Y: math.Sin(c.Orientation)}
	for _, other := range nearby {
		if other == c {
			continue
		}
		toOther := other.Position.Sub(c.Position)
		if toOther.X*heading.X+toOther.Y*heading.Y <= 0 {
			continue // other isn't ahead of c along its direction of travel
		}
		dist := c.Position.DistanceTo(other.Position)
		closingSpeed := c.Velocity - other.Velocity
		predictedGap := dist - closingSpeed*lookaheadHorizon
		safeDistance := collisionSafetyMargin + c.Velocity*0.5
		if predictedGap < safeDistance {
			return -c.Make.MaxBraking, true
		}
	}
	return 0, false
}

// intersectionControl brakes to a stop at the next node's control line when
// a signal shows Red/Yellow or a yield arm has a conflicting approach.
func intersectionControl(in Inputs) (float64, bool) {
	switch in.NextNodeControl.Kind {
	case network.ControlSignal:
		if in.LightColor == trafficlight.Red || in.LightColor == trafficlight.Yellow {
			return brakeToStop(in.RemainingApproachDistance, in.Car), true
		}
	case network.ControlYield:
		if in.YieldConflict {
			return brakeToStop(in.RemainingApproachDistance, in.Car), true
		}
	}
	return 0, false
}

// brakeToStop returns the (negative) acceleration needed to reach zero
// velocity exactly at dist meters, capped at the car's max braking.
func brakeToStop(dist float64, c *car.Car) float64 {
	if dist <= 0.01 {
		return -c.Make.MaxBraking
	}
	required := (c.Velocity * c.Velocity) / (2 * dist)
	return -math.Min(required, c.Make.MaxBraking)
}

// parkingApproach reduces target velocity linearly with remaining distance
// to the parking spot (spec §4.3 step 3 "Parking approach").
func parkingApproach(dist float64, c *car.Car) float64 {
	targetSpeed := math.Min(dist*parkingApproachGain, c.Make.MaxVelocity)
	if c.Velocity <= targetSpeed {
		return c.Make.MaxAcceleration
	}
	return -math.Min((c.Velocity-targetSpeed)*2, c.Make.MaxBraking)
}

// ShouldForceDespawn reports whether c has left the tilemap's bounding box
// and must be removed regardless of its FSM state (spec §4.3 failure
// semantics).
func ShouldForceDespawn(c *car.Car, bounds geom.Box) bool {
	return !bounds.Contains(c.Position)
}
