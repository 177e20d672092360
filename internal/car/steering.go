package car

import (
	"math"

	"github.com/klemola/liikennematto-sub004/internal/geom"
)

// lookAheadFactor sets the look-ahead distance as a multiple of car length
// (spec §4.3 step 2: "~2x car length").
const lookAheadFactor = 2.0

// steerGain is the proportional controller's gain: angular velocity per
// radian of heading error.
const steerGain = 6.0

// maxAngularVelocity bounds how fast a car can rotate, regardless of error.
const maxAngularVelocity = 2 * math.Pi

// Step advances the car by one physics tick: integrate velocity from accel,
// advance along the route by the resulting speed, then steer the body
// orientation toward the look-ahead heading (spec §4.3 steps 1-4).
func (c *Car) Step(dt float64, accel float64) {
	accel = geom.Clamp(accel, -c.Make.MaxBraking, c.Make.MaxAcceleration)
	c.Velocity = geom.Clamp(c.Velocity+accel*dt, 0, c.Make.MaxVelocity)

	path := c.Route.Path
	if path == nil || path.Finished {
		return
	}
	path.Advance(c.Velocity * dt)
	pos, tangent := path.Sample()

	lookDist := lookAheadFactor * c.Make.Length
	_, lookTangent := path.Ahead(lookDist)
	heading := tangent
	if lookTangent.Length() > 1e-9 {
		heading = lookTangent
	}
	if heading.Length() > 1e-9 {
		c.steerTowards(heading.Angle(), dt)
	}
	c.SetPose(pos, c.Orientation)
}

func (c *Car) steerTowards(targetOrientation float64, dt float64) {
	diff := normalizeAngle(targetOrientation - c.Orientation)
	desired := geom.Clamp(diff*steerGain, -maxAngularVelocity, maxAngularVelocity)
	c.AngularVelocity = desired
	c.Orientation = normalizeAngle(c.Orientation + desired*dt)
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
