package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/route"
	"github.com/klemola/liikennematto-sub004/internal/trafficlight"
)

func TestTargetAccelerationDefaultsToMaxAccelerationWhenClear(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	got := TargetAcceleration(Inputs{Car: c})
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestCollisionAvoidanceBrakesForCloseSlowerCarAhead(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{X: 0, Y: 0}, 0, route.NewUnrouted())
	c.Velocity = 10
	other := car.NewDriving(2, car.MakeSedan, geom.Point{X: 3, Y: 0}, 0, route.NewUnrouted())
	other.Velocity = 0

	got := TargetAcceleration(Inputs{Car: c, Nearby: []*car.Car{c, other}})
	assert.Equal(t, -c.Make.MaxBraking, got)
}

func TestCollisionAvoidanceIgnoresSelfInNearbyList(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	got := TargetAcceleration(Inputs{Car: c, Nearby: []*car.Car{c}})
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestCollisionAvoidanceIgnoresCloseSlowerCarBehind(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{X: 0, Y: 0}, 0, route.NewUnrouted())
	c.Velocity = 10
	other := car.NewDriving(2, car.MakeSedan, geom.Point{X: -3, Y: 0}, 0, route.NewUnrouted())
	other.Velocity = 0

	got := TargetAcceleration(Inputs{Car: c, Nearby: []*car.Car{c, other}})
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestIntersectionControlBrakesOnRedSignal(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	c.Velocity = 5
	in := Inputs{
		Car:                       c,
		NextNodeControl:           network.Control{Kind: network.ControlSignal},
		LightColor:                trafficlight.Red,
		RemainingApproachDistance: 10,
	}
	got := TargetAcceleration(in)
	assert.Less(t, got, 0.0)
}

func TestIntersectionControlIgnoresGreenSignal(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	in := Inputs{
		Car:             c,
		NextNodeControl: network.Control{Kind: network.ControlSignal},
		LightColor:      trafficlight.Green,
	}
	got := TargetAcceleration(in)
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestIntersectionControlBrakesOnYieldConflict(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	c.Velocity = 5
	in := Inputs{
		Car:                       c,
		NextNodeControl:           network.Control{Kind: network.ControlYield},
		YieldConflict:             true,
		RemainingApproachDistance: 5,
	}
	got := TargetAcceleration(in)
	assert.Less(t, got, 0.0)
}

func TestIntersectionControlClearsWithNoYieldConflict(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted())
	in := Inputs{
		Car:             c,
		NextNodeControl: network.Control{Kind: network.ControlYield},
		YieldConflict:   false,
	}
	got := TargetAcceleration(in)
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestParkingApproachAcceleratesWhenBelowTargetSpeed(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewArriving(route.DestinationLotParkingSpot, nil))
	c.Velocity = 0
	in := Inputs{Car: c, RemainingParkingDistance: 20}
	got := TargetAcceleration(in)
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestParkingApproachBrakesWhenAboveTargetSpeed(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewArriving(route.DestinationLotParkingSpot, nil))
	c.Velocity = c.Make.MaxVelocity
	in := Inputs{Car: c, RemainingParkingDistance: 0.5}
	got := TargetAcceleration(in)
	assert.Less(t, got, 0.0)
}

func TestParkingApproachOnlyAppliesWhenArrivingAtParkingSpot(t *testing.T) {
	c := car.NewDriving(1, car.MakeSedan, geom.Point{}, 0, route.NewArriving(route.DestinationRoadNetworkNode, nil))
	c.Velocity = c.Make.MaxVelocity
	in := Inputs{Car: c, RemainingParkingDistance: 0.1}
	got := TargetAcceleration(in)
	assert.Equal(t, c.Make.MaxAcceleration, got)
}

func TestShouldForceDespawnOutsideBounds(t *testing.T) {
	bounds := geom.Box{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}}
	inside := car.NewDriving(1, car.MakeSedan, geom.Point{X: 5, Y: 5}, 0, route.NewUnrouted())
	outside := car.NewDriving(2, car.MakeSedan, geom.Point{X: -1, Y: 5}, 0, route.NewUnrouted())

	assert.False(t, ShouldForceDespawn(inside, bounds))
	assert.True(t, ShouldForceDespawn(outside, bounds))
}
