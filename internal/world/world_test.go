package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/lot"
	"github.com/klemola/liikennematto-sub004/internal/route"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	ts := tileset.DefaultTileset()
	tm := tilemap.New(2, 1)
	left, _ := tm.At(tilemap.Cell{X: 1, Y: 1})
	right, _ := tm.At(tilemap.Cell{X: 2, Y: 1})
	left.Fix(tileset.TileID(tileset.BitLeft|tileset.BitRight), nil)
	right.Fix(tileset.TileID(tileset.BitLeft|tileset.BitRight), nil)

	w := New(tm, ts, 42)
	w.RebuildGraph()
	w.RefreshIndices()
	return w
}

func TestSpawnResidentPlacesParkedCarAndReservesSpot(t *testing.T) {
	w := newTestWorld(t)
	spot := &lot.ParkingSpot{ID: 1, Position: geom.Point{X: 3, Y: 3}}
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{spot}}

	c, ok := w.SpawnResident(car.MakeSedan, 1)
	require.True(t, ok)
	assert.Equal(t, "parked", c.State())
	assert.Equal(t, 1, c.HomeLotID)

	id, reserved := spot.ReservedBy()
	require.True(t, reserved)
	assert.Equal(t, c.ID, id)
}

func TestSpawnResidentFailsWithNoFreeSpot(t *testing.T) {
	w := newTestWorld(t)
	spot := &lot.ParkingSpot{ID: 1}
	spot.TryReserve(999)
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{spot}}

	_, ok := w.SpawnResident(car.MakeSedan, 1)
	assert.False(t, ok)
}

func TestSpawnResidentFailsForUnknownLot(t *testing.T) {
	w := newTestWorld(t)
	_, ok := w.SpawnResident(car.MakeSedan, 999)
	assert.False(t, ok)
}

func TestSpawnTestCarRoutesBetweenTwoLaneConnectors(t *testing.T) {
	w := newTestWorld(t)
	c, ok := w.SpawnTestCar(car.MakeSedan)
	require.True(t, ok)
	assert.Equal(t, "driving", c.State())
	assert.NotNil(t, c.Route.Path)
}

func TestBeginParkResidentReservesAndRoutes(t *testing.T) {
	w := newTestWorld(t)
	spot := &lot.ParkingSpot{ID: 1, PathFromLotEntry: []geom.CubicSpline{{
		P0: geom.Point{X: 0, Y: 0}, P1: geom.Point{X: 1, Y: 0}, P2: geom.Point{X: 2, Y: 0}, P3: geom.Point{X: 3, Y: 0},
	}}}
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{spot}}

	c := w.AddCar(func(id int) *car.Car { return car.NewDriving(id, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted()) })
	ok := w.BeginParkResident(c, 1)
	require.True(t, ok)
	assert.Same(t, spot, c.ParkingSpot)
	_, reserved := spot.ReservedBy()
	assert.True(t, reserved)
}

func TestBeginParkResidentFailsWhenLotFull(t *testing.T) {
	w := newTestWorld(t)
	spot := &lot.ParkingSpot{ID: 1}
	spot.TryReserve(999)
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{spot}}

	c := w.AddCar(func(id int) *car.Car { return car.NewDriving(id, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted()) })
	ok := w.BeginParkResident(c, 1)
	assert.False(t, ok)
}

func TestRemoveLotCascadesDespawnAndReleasesSpots(t *testing.T) {
	w := newTestWorld(t)
	spot := &lot.ParkingSpot{ID: 1}
	spot.TryReserve(1)
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{spot}}

	homed := w.AddCar(func(id int) *car.Car {
		return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 1, spot)
	})
	other := w.AddCar(func(id int) *car.Car {
		return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 2, nil)
	})

	w.RemoveLot(1)

	assert.Equal(t, "despawning", homed.State())
	assert.Equal(t, "parked", other.State())
	_, reserved := spot.ReservedBy()
	assert.False(t, reserved)
	_, stillThere := w.Lots[1]
	assert.False(t, stillThere)
}

func TestRemoveLotIsNoOpForUnknownLot(t *testing.T) {
	w := newTestWorld(t)
	assert.NotPanics(t, func() { w.RemoveLot(12345) })
}

func TestCarsInStateFiltersByFSMState(t *testing.T) {
	w := newTestWorld(t)
	w.AddCar(func(id int) *car.Car { return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 1, nil) })
	w.AddCar(func(id int) *car.Car { return car.NewDriving(id, car.MakeSedan, geom.Point{}, 0, route.NewUnrouted()) })

	parked := w.CarsInState("parked")
	driving := w.CarsInState("driving")
	require.Len(t, parked, 1)
	require.Len(t, driving, 1)
}

func TestSpotsByLotGroupsByLotID(t *testing.T) {
	w := newTestWorld(t)
	a := &lot.ParkingSpot{ID: 1}
	b := &lot.ParkingSpot{ID: 2}
	w.Lots[1] = &lot.Lot{ID: 1, ParkingSpots: []*lot.ParkingSpot{a, b}}

	grouped := w.SpotsByLot()
	require.Len(t, grouped[1], 2)
}

func TestAddCarAllocatesIncrementingIDs(t *testing.T) {
	w := newTestWorld(t)
	c1 := w.AddCar(func(id int) *car.Car { return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 1, nil) })
	c2 := w.AddCar(func(id int) *car.Car { return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 1, nil) })
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Len(t, w.Cars, 2)
}

func TestRouteFromNodeReroutesFromKnownNode(t *testing.T) {
	w := newTestWorld(t)
	spawned, ok := w.SpawnTestCar(car.MakeSedan)
	require.True(t, ok)
	startNode := spawned.Route.StartNode

	spawned.Route = route.NewUnrouted()
	ok = w.RouteFromNode(spawned, startNode)
	require.True(t, ok)
	assert.Equal(t, route.Routed, spawned.Route.Kind)
	assert.NotNil(t, spawned.Route.Path)
}

func TestRouteFromNodeFallsBackToNearestSurvivingNode(t *testing.T) {
	w := newTestWorld(t)
	spawned, ok := w.SpawnTestCar(car.MakeSedan)
	require.True(t, ok)

	spawned.Route = route.NewUnrouted()
	ok = w.RouteFromNode(spawned, -1)
	require.True(t, ok)
	assert.Equal(t, route.Routed, spawned.Route.Kind)
}

func TestRebuildGraphReroutesCarWhoseRouteNodeDidNotSurvive(t *testing.T) {
	w := newTestWorld(t)
	spawned, ok := w.SpawnTestCar(car.MakeSedan)
	require.True(t, ok)
	spawned.Route.EndNode = -999 // simulate a node dropped by the next rebuild

	w.RebuildGraph()

	assert.Equal(t, route.Unrouted, spawned.Route.Kind)
	assert.Equal(t, 1, w.Queue.Len())
}

func TestRemoveCarDropsFromCollection(t *testing.T) {
	w := newTestWorld(t)
	c := w.AddCar(func(id int) *car.Car { return car.NewParked(id, car.MakeSedan, geom.Point{}, 0, 1, nil) })
	w.RemoveCar(c.ID)
	_, ok := w.Cars[c.ID]
	assert.False(t, ok)
}
